package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"kconfresolve/internal/app"
)

type validateOptions struct {
	Model     string
	Fragments []string
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a feature model and its fragment overlays",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Model, "model", "", "Feature model file")
	cmd.Flags().StringSliceVar(&opts.Fragments, "fragment", nil, "Config fragment file(s), layered in order")
	_ = viper.BindPFlag("model", cmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("fragments", cmd.Flags().Lookup("fragment"))
	return cmd
}

func runValidate(cmd *cobra.Command, opts validateOptions) error {
	service := newAppService()
	result, err := service.Validate(cmd.Context(), app.ValidateRequest{
		ModelPath:     resolveString(cmd, opts.Model, "model", "model"),
		FragmentPaths: resolveStrings(cmd, opts.Fragments, "fragments", "fragment"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("valid: %d features\n", result.FeatureCount)
	return nil
}
