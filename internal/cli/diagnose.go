package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"kconfresolve/internal/app"
	"kconfresolve/internal/types"
)

type diagnoseOptions struct {
	Model         string
	Fragments     []string
	Overrides     string
	Locks         []string
	Feature       string
	Value         string
	MaxDiagnoses  int
	TimeBudgetSec int
}

func newDiagnoseCommand() *cobra.Command {
	opts := diagnoseOptions{}
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Find minimal fix sets that make feature==value satisfiable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDiagnose(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Model, "model", "", "Feature model file")
	cmd.Flags().StringSliceVar(&opts.Fragments, "fragment", nil, "Config fragment file(s), layered in order")
	cmd.Flags().StringVar(&opts.Overrides, "overrides", "", "Force/lock/ignore directives file")
	cmd.Flags().StringSliceVar(&opts.Locks, "lock", nil, "Feature name pattern(s) RangeFix may not touch")
	cmd.Flags().StringVar(&opts.Feature, "feature", "", "Feature to diagnose")
	cmd.Flags().StringVar(&opts.Value, "value", "", "Target value for feature")
	cmd.Flags().IntVar(&opts.MaxDiagnoses, "max-diagnoses", 3, "Stop after finding this many minimal diagnoses")
	cmd.Flags().IntVar(&opts.TimeBudgetSec, "time-budget", 10, "Stop searching after this many seconds")

	_ = viper.BindPFlag("model", cmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("fragments", cmd.Flags().Lookup("fragment"))
	_ = viper.BindPFlag("overrides", cmd.Flags().Lookup("overrides"))
	_ = viper.BindPFlag("locks", cmd.Flags().Lookup("lock"))
	_ = viper.BindPFlag("feature", cmd.Flags().Lookup("feature"))
	_ = viper.BindPFlag("value", cmd.Flags().Lookup("value"))
	_ = viper.BindPFlag("max_diagnoses", cmd.Flags().Lookup("max-diagnoses"))
	_ = viper.BindPFlag("time_budget", cmd.Flags().Lookup("time-budget"))
	return cmd
}

func runDiagnose(cmd *cobra.Command, opts diagnoseOptions) error {
	service := newAppService()
	result, err := service.Diagnose(cmd.Context(), app.DiagnoseRequest{
		ModelPath:     resolveString(cmd, opts.Model, "model", "model"),
		FragmentPaths: resolveStrings(cmd, opts.Fragments, "fragments", "fragment"),
		OverridesPath: resolveString(cmd, opts.Overrides, "overrides", "overrides"),
		LockPatterns:  resolveStrings(cmd, opts.Locks, "locks", "lock"),
		Feature:       resolveString(cmd, opts.Feature, "feature", "feature"),
		TargetValue:   resolveString(cmd, opts.Value, "value", "value"),
		Budget: types.DiagnosisBudget{
			MaxDiagnoses: resolveInt(cmd, opts.MaxDiagnoses, "max_diagnoses", "max-diagnoses"),
			TimeBudget:   time.Duration(resolveInt(cmd, opts.TimeBudgetSec, "time_budget", "time-budget")) * time.Second,
		},
	})
	if err != nil {
		return err
	}
	printDiagnosis(result.Result)
	return nil
}

func printDiagnosis(result types.DiagnosisResult) {
	if result.Satisfiable {
		fmt.Println("already satisfiable, no fix needed")
		return
	}
	if result.Unknown {
		fmt.Println("SAT engine returned unknown")
	}
	if result.Cancelled {
		fmt.Println("search stopped early: time budget exhausted or cancelled")
	}
	fmt.Printf("%d diagnoses found:\n", len(result.Diagnoses))
	for i, d := range result.Diagnoses {
		fmt.Printf("[%d]\n", i)
		for _, fix := range d.Fixes {
			fmt.Printf("  %s -> %s\n", fix.Feature, fix.NewValue)
		}
	}
}
