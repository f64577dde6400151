package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-churnform/internal/config"
)

var (
	cfg        *config.Config
	configFile string
	presetFlag string
	localeFlag string
)

var rootCmd = &cobra.Command{
	Use:   "churnform",
	Short: "Customer churn prediction form",
	Long:  "Collects the customer attributes a churn classifier expects, submits them to the prediction endpoint and reports whether the customer is likely to churn or stay.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configFile)
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		if presetFlag != "" {
			c.Form.Preset = presetFlag
		}
		if localeFlag != "" {
			c.Form.Locale = localeFlag
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&presetFlag, "preset", "", "form preset: full or compact (default from config)")
	rootCmd.PersistentFlags().StringVar(&localeFlag, "locale", "", "message locale (default from config)")
}
