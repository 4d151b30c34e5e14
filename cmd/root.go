package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hfcalc/config"
	"hfcalc/logging"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hfcalc",
		Short: "Heart Failure vs Pneumonia calculator",
		Long: "hfcalc serves a model-based calculator that estimates the probability of Heart Failure " +
			"versus Pneumonia from Age, AG, CREA, UA, RDW and PDW.",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "Path to the YAML settings file (default config.yaml if present)")
	root.PersistentFlags().String("model", "", "Path to the model artifact (overrides model.path)")
	root.PersistentFlags().String("threshold-config", "", "Path to the JSON threshold config (overrides model.config_path)")

	serve := newServeCmd()
	root.RunE = serve.RunE
	root.AddCommand(serve, newPredictCmd(), newInspectCmd(), newVersionCmd())
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

// loadRuntime resolves settings (flags override the file) and builds the logger.
func loadRuntime(cmd *cobra.Command) (*config.Settings, *zap.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	settings, err := config.LoadSettings(path)
	if err != nil {
		return nil, nil, err
	}
	if p, _ := cmd.Flags().GetString("model"); p != "" {
		settings.Model.Path = p
	}
	if p, _ := cmd.Flags().GetString("threshold-config"); p != "" {
		settings.Model.ConfigPath = p
	}

	logger, err := logging.New(logging.Options{
		Level:      settings.Log.Level,
		File:       settings.Log.File,
		MaxSizeMB:  settings.Log.MaxSizeMB,
		MaxBackups: settings.Log.MaxBackups,
		MaxAgeDays: settings.Log.MaxAgeDays,
		Dev:        settings.Log.Dev,
	})
	if err != nil {
		return nil, nil, err
	}
	return settings, logger, nil
}
