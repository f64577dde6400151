package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-churnform/pkg/lifecycle"
	"github.com/goliatone/go-churnform/pkg/predict"
	"github.com/goliatone/go-churnform/pkg/render"
)

var (
	predictSets []string
	predictJSON bool
)

// errPredictionFailed makes the command exit non-zero after the alert has
// been printed.
var errPredictionFailed = eris.New("prediction failed")

type predictOutput struct {
	Phase   lifecycle.Phase     `json:"phase"`
	Result  *int                `json:"result,omitempty"`
	Message string              `json:"message,omitempty"`
	Alert   string              `json:"alert,omitempty"`
	Failure predict.FailureKind `json:"failure,omitempty"`
	Values  map[string]any      `json:"values"`
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Submit one prediction using defaults plus --set overrides",
	Example: `  churnform predict --set tenure=3 --set Contract=Month-to-month
  churnform predict --set MonthlyCharges=99.9 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("predict"); err != nil {
			return err
		}
		ctx := cmd.Context()

		overrides, err := parseSets(predictSets)
		if err != nil {
			return err
		}
		form, err := buildForm(ctx)
		if err != nil {
			return err
		}
		ctrl, err := newController(form)
		if err != nil {
			return err
		}
		for _, kv := range overrides {
			if err := ctrl.SetField(kv[0], kv[1]); err != nil {
				return eris.Wrapf(err, "--set %s", kv[0])
			}
		}
		opts, err := renderOptions()
		if err != nil {
			return err
		}

		snap, err := ctrl.Submit(ctx)
		if err != nil {
			return eris.Wrap(err, "submit")
		}

		view := render.ViewFromSnapshot(form, snap)
		out := predictOutput{
			Phase:   snap.Phase,
			Result:  snap.Result,
			Message: render.Banner(view, opts).Message,
			Alert:   render.AlertMessage(view, opts),
			Failure: snap.Failure,
			Values:  snap.Values,
		}

		w := cmd.OutOrStdout()
		if predictJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return eris.Wrap(err, "encode output")
			}
		} else if out.Message != "" {
			fmt.Fprintln(w, out.Message)
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), out.Alert)
		}

		if snap.Phase == lifecycle.Failed {
			return errPredictionFailed
		}
		return nil
	},
}

// parseSets splits name=value pairs, keeping their order.
func parseSets(raw []string) ([][2]string, error) {
	out := make([][2]string, 0, len(raw))
	for _, item := range raw {
		name, value, ok := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, eris.Errorf("invalid --set %q: expected name=value", item)
		}
		out = append(out, [2]string{name, value})
	}
	return out, nil
}

func init() {
	predictCmd.Flags().StringArrayVar(&predictSets, "set", nil, "override a field (name=value); repeatable")
	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "print the outcome as JSON")
	rootCmd.AddCommand(predictCmd)
}
