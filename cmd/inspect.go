package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hfcalc/calculator"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Show the loaded model, its feature order and the threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			calc, err := calculator.Load(calculator.Options{
				ModelPath:  settings.Model.Path,
				ConfigPath: settings.Model.ConfigPath,
			}, logger)
			if err != nil {
				return err
			}

			info := calc.Info()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "model:     %s (%s)\n", settings.Model.Path, info.Type)
			fmt.Fprintf(out, "inference: %s\n", info.Variant)
			fmt.Fprintf(out, "features:  %s\n", strings.Join(info.Features, ", "))
			if len(info.Classes) > 0 {
				fmt.Fprintf(out, "classes:   %v\n", info.Classes)
			}
			if info.PositiveClassFallback {
				fmt.Fprintln(out, "warning:   label 1 not among model classes; probability column 1 is assumed positive")
			}
			fmt.Fprintf(out, "threshold: %.3f (%s)\n", info.Threshold, settings.Model.ConfigPath)
			return nil
		},
	}
}
