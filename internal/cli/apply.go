package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"kconfresolve/internal/app"
	"kconfresolve/internal/types"
)

type applyOptions struct {
	Model          string
	Fragments      []string
	Overrides      string
	Locks          []string
	Config         string
	Feature        string
	Value          string
	MaxDiagnoses   int
	TimeBudgetSec  int
	DiagnosisIndex int
}

func newApplyCommand() *cobra.Command {
	opts := applyOptions{}
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Diagnose and write one minimal fix set into a live config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApply(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Model, "model", "", "Feature model file")
	cmd.Flags().StringSliceVar(&opts.Fragments, "fragment", nil, "Config fragment file(s), layered in order")
	cmd.Flags().StringVar(&opts.Overrides, "overrides", "", "Force/lock/ignore directives file")
	cmd.Flags().StringSliceVar(&opts.Locks, "lock", nil, "Feature name pattern(s) RangeFix may not touch")
	cmd.Flags().StringVar(&opts.Config, "config", "", "Live config file to write fixes into")
	cmd.Flags().StringVar(&opts.Feature, "feature", "", "Feature to diagnose")
	cmd.Flags().StringVar(&opts.Value, "value", "", "Target value for feature")
	cmd.Flags().IntVar(&opts.MaxDiagnoses, "max-diagnoses", 3, "Stop after finding this many minimal diagnoses")
	cmd.Flags().IntVar(&opts.TimeBudgetSec, "time-budget", 10, "Stop searching after this many seconds")
	cmd.Flags().IntVar(&opts.DiagnosisIndex, "diagnosis", 0, "Index of the diagnosis to apply")

	_ = viper.BindPFlag("model", cmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("fragments", cmd.Flags().Lookup("fragment"))
	_ = viper.BindPFlag("overrides", cmd.Flags().Lookup("overrides"))
	_ = viper.BindPFlag("locks", cmd.Flags().Lookup("lock"))
	_ = viper.BindPFlag("live_config", cmd.Flags().Lookup("config"))
	_ = viper.BindPFlag("feature", cmd.Flags().Lookup("feature"))
	_ = viper.BindPFlag("value", cmd.Flags().Lookup("value"))
	_ = viper.BindPFlag("max_diagnoses", cmd.Flags().Lookup("max-diagnoses"))
	_ = viper.BindPFlag("time_budget", cmd.Flags().Lookup("time-budget"))
	_ = viper.BindPFlag("diagnosis_index", cmd.Flags().Lookup("diagnosis"))
	return cmd
}

func runApply(cmd *cobra.Command, opts applyOptions) error {
	service := newAppService()
	result, err := service.Apply(cmd.Context(), app.ApplyRequest{
		ModelPath:      resolveString(cmd, opts.Model, "model", "model"),
		FragmentPaths:  resolveStrings(cmd, opts.Fragments, "fragments", "fragment"),
		OverridesPath:  resolveString(cmd, opts.Overrides, "overrides", "overrides"),
		LockPatterns:   resolveStrings(cmd, opts.Locks, "locks", "lock"),
		ConfigPath:     resolveString(cmd, opts.Config, "live_config", "config"),
		Feature:        resolveString(cmd, opts.Feature, "feature", "feature"),
		TargetValue:    resolveString(cmd, opts.Value, "value", "value"),
		DiagnosisIndex: resolveInt(cmd, opts.DiagnosisIndex, "diagnosis_index", "diagnosis"),
		Budget: types.DiagnosisBudget{
			MaxDiagnoses: resolveInt(cmd, opts.MaxDiagnoses, "max_diagnoses", "max-diagnoses"),
			TimeBudget:   time.Duration(resolveInt(cmd, opts.TimeBudgetSec, "time_budget", "time-budget")) * time.Second,
		},
	})
	if err != nil {
		return err
	}
	fmt.Printf("applied: %d, unapplied: %d\n", len(result.Applied.Applied), len(result.Applied.Unapplied))
	for _, fix := range result.Applied.Applied {
		fmt.Printf("  + %s -> %s\n", fix.Feature, fix.NewValue)
	}
	for _, fix := range result.Applied.Unapplied {
		fmt.Printf("  - %s -> %s (skipped)\n", fix.Feature, fix.NewValue)
	}
	return nil
}
