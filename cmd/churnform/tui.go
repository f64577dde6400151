package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-churnform/pkg/renderers/tui"
)

var tuiAllFields bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Fill in the form interactively in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("tui"); err != nil {
			return err
		}
		ctx := cmd.Context()

		form, err := buildForm(ctx)
		if err != nil {
			return err
		}
		ctrl, err := newController(form)
		if err != nil {
			return err
		}
		opts, err := renderOptions()
		if err != nil {
			return err
		}

		options := []tui.Option{
			tui.WithOutput(cmd.OutOrStdout()),
			tui.WithTheme(tui.Theme{InfoPrefix: "• ", SuccessPrefix: "✔ ", ErrorPrefix: "✖ "}),
		}
		if tuiAllFields {
			options = append(options, tui.WithAllFields())
		}
		renderer, err := tui.New(options...)
		if err != nil {
			return err
		}

		if err := renderer.Run(ctx, ctrl, opts); err != nil && !errors.Is(err, tui.ErrAborted) {
			return err
		}
		return nil
	},
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiAllFields, "all", false, "prompt for fields hidden by the preset too")
	rootCmd.AddCommand(tuiCmd)
}
