package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hfcalc/calculator"
	qhttp "hfcalc/http"
	"hfcalc/monitoring"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator page and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			// 1. Load model and threshold; a broken model is fatal.
			calc, err := calculator.Load(calculator.Options{
				ModelPath:  settings.Model.Path,
				ConfigPath: settings.Model.ConfigPath,
				CacheSize:  settings.Cache.Size,
			}, logger)
			if err != nil {
				logger.Error("failed to load model", zap.String("path", settings.Model.Path), zap.Error(err))
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// 2. Optional notice when artifacts change on disk.
			if settings.Model.Watch {
				watched := []string{settings.Model.Path, settings.Model.ConfigPath}
				watcher, err := monitoring.NewArtifactWatcher(watched, nil, logger)
				if err != nil {
					logger.Warn("artifact watcher disabled", zap.Error(err))
				} else {
					go watcher.Run(ctx)
				}
			}

			// 3. Start HTTP server
			serverCfg := qhttp.DefaultServerConfig()
			serverCfg.Port = settings.Http.Port
			serverCfg.AllowedOrigins = settings.Http.AllowedOrigins
			serverCfg.Locale = settings.Display.Locale
			server := qhttp.NewServer(serverCfg, calc, logger)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			// 4. Handle graceful shutdown
			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			logger.Info("shutting down")
			if err := server.Stop(); err != nil {
				logger.Error("server forced to shutdown", zap.Error(err))
				return err
			}
			logger.Info("exiting")
			return nil
		},
	}
}
