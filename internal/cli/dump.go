package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"kconfresolve/internal/app"
)

type dumpOptions struct {
	Model     string
	Fragments []string
	Overrides string
	Locks     []string
	OutputDir string
}

func newDumpCommand() *cobra.Command {
	opts := dumpOptions{}
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Persist the compiled constraint set and CNF for inspection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDump(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Model, "model", "", "Feature model file")
	cmd.Flags().StringSliceVar(&opts.Fragments, "fragment", nil, "Config fragment file(s), layered in order")
	cmd.Flags().StringVar(&opts.Overrides, "overrides", "", "Force/lock/ignore directives file")
	cmd.Flags().StringSliceVar(&opts.Locks, "lock", nil, "Feature name pattern(s) RangeFix may not touch")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")

	_ = viper.BindPFlag("model", cmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("fragments", cmd.Flags().Lookup("fragment"))
	_ = viper.BindPFlag("overrides", cmd.Flags().Lookup("overrides"))
	_ = viper.BindPFlag("locks", cmd.Flags().Lookup("lock"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	return cmd
}

func runDump(cmd *cobra.Command, opts dumpOptions) error {
	service := newAppService()
	result, err := service.Dump(cmd.Context(), app.DumpRequest{
		ModelPath:     resolveString(cmd, opts.Model, "model", "model"),
		FragmentPaths: resolveStrings(cmd, opts.Fragments, "fragments", "fragment"),
		OverridesPath: resolveString(cmd, opts.Overrides, "overrides", "overrides"),
		LockPatterns:  resolveStrings(cmd, opts.Locks, "locks", "lock"),
		OutputDir:     resolveString(cmd, opts.OutputDir, "output", "output"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("dumped %d constraints, %d clauses to %s\n", result.ConstraintCount, result.ClauseCount, resolveString(cmd, opts.OutputDir, "output", "output"))
	return nil
}
