package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	churnform "github.com/goliatone/go-churnform"
	"github.com/goliatone/go-churnform/internal/metrics"
	"github.com/goliatone/go-churnform/internal/server"
	"github.com/goliatone/go-churnform/pkg/i18n"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the prediction form over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		form, err := buildForm(ctx)
		if err != nil {
			return err
		}
		catalog, err := i18n.Default()
		if err != nil {
			return eris.Wrap(err, "load messages")
		}

		options := []server.Option{
			server.WithLogger(zap.L()),
			server.WithTranslator(catalog),
			server.WithLocale(cfg.Form.Locale),
			server.WithSessionTTL(cfg.Server.SessionTTL()),
			server.WithCORSOrigins(cfg.Server.CORSOrigins...),
		}
		if cfg.Server.Metrics {
			options = append(options, server.WithMetrics(metrics.New()))
		}

		srv, err := server.New(form, newPredictor(), churnform.NewOrchestrator(formOptions()...), options...)
		if err != nil {
			return err
		}

		port := resolvePort(servePort, cfg.Server.Port)
		zap.L().Info("prediction endpoint", zap.String("endpoint", cfg.Predict.Endpoint))
		return srv.Serve(ctx, server.Addr(port), cfg.Server.ShutdownTimeout())
	},
}

func resolvePort(flagPort, configPort int) int {
	if flagPort != 0 {
		return flagPort
	}
	return configPort
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
