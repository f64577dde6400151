package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	churnform "github.com/goliatone/go-churnform"
	"github.com/goliatone/go-churnform/pkg/formstate"
	"github.com/goliatone/go-churnform/pkg/lifecycle"
	"github.com/goliatone/go-churnform/pkg/render"
	"github.com/goliatone/go-churnform/pkg/renderers/tui"
)

var (
	renderName   string
	renderOutput string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the idle form without submitting it",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		form, err := buildForm(ctx)
		if err != nil {
			return err
		}
		state, err := formstate.New(form)
		if err != nil {
			return eris.Wrap(err, "seed form state")
		}
		opts, err := renderOptions()
		if err != nil {
			return err
		}

		textRenderer, err := tui.New(tui.WithOutput(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		orch := churnform.NewOrchestrator(formOptions()...)
		if err := orch.RegisterRenderer(textRenderer); err != nil {
			return err
		}

		view := render.View{Form: form, Values: state.Values(), Phase: lifecycle.Idle}
		output, _, err := orch.Render(ctx, renderName, view, opts)
		if err != nil {
			return eris.Wrap(err, "render form")
		}

		if renderOutput == "" {
			_, err := cmd.OutOrStdout().Write(output)
			return err
		}
		if err := os.WriteFile(renderOutput, output, 0o644); err != nil {
			return eris.Wrap(err, "write output")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Form written to %s\n", renderOutput)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderName, "renderer", "vanilla", "renderer to use: vanilla or tui")
	renderCmd.Flags().StringVar(&renderOutput, "output", "", "output file (stdout if empty)")
	rootCmd.AddCommand(renderCmd)
}
