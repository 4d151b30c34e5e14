package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"hfcalc/calculator"
	"hfcalc/ml"
)

func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score one set of lab values and print the decision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			in := ml.DefaultInputs()
			for _, f := range ml.Fields {
				v, err := cmd.Flags().GetFloat64(flagName(f))
				if err != nil {
					return err
				}
				if err := f.Check(v); err != nil {
					return fmt.Errorf("--%s: %w", flagName(f), err)
				}
				if err := in.Set(f.Name, v); err != nil {
					return err
				}
			}

			calc, err := calculator.Load(calculator.Options{
				ModelPath:  settings.Model.Path,
				ConfigPath: settings.Model.ConfigPath,
			}, logger)
			if err != nil {
				return err
			}
			result, err := calc.Predict(cmd.Context(), in.Clamped())
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	for _, f := range ml.Fields {
		cmd.Flags().Float64(flagName(f), f.Default, fmt.Sprintf("%s, %s to %s", f.Label(), f.Format(f.Min), f.Format(f.Max)))
	}
	cmd.Flags().Bool("json", false, "Print the full result as JSON")
	return cmd
}

func flagName(f ml.FieldSpec) string {
	return strings.ToLower(f.Name)
}

func printResult(w io.Writer, r *calculator.Result) {
	fmt.Fprintln(w, "Inputs")
	for _, f := range ml.Fields {
		v, _ := r.Inputs.Get(f.Name)
		fmt.Fprintf(w, "  %-16s %s\n", f.Label(), f.Format(v))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Estimated probabilities (binary)")
	fmt.Fprintf(w, "- %s: %.2f\n", ml.PositiveClassName, r.PPositive)
	fmt.Fprintf(w, "- %s: %.2f\n", ml.NegativeClassName, r.PNegative)
	fmt.Fprintf(w, "Model decision (classification): %s\n", r.Label)
	fmt.Fprintf(w, "Classification is based on P(HF) with a fixed threshold (t = %.3f).\n", r.Threshold)
}
