package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-churnform/pkg/lifecycle"
	"github.com/goliatone/go-churnform/pkg/model"
	"github.com/goliatone/go-churnform/pkg/uischema"
)

// Default English copy.
const (
	DefaultTitle       = "Customer Churn Prediction"
	DefaultSubmitLabel = "Predict Churn"
	DefaultBusyLabel   = "Predicting..."
	MessageChurn       = "Result: This customer is LIKELY TO CHURN."
	MessageStay        = "Result: This customer is LIKELY TO STAY."
)

// Banner tones map onto the result styling.
const (
	ToneDanger  = "danger"
	ToneSuccess = "success"
)

// View is everything a renderer needs to draw one controller state.
type View struct {
	Form   model.FormModel
	Values map[string]any
	Phase  lifecycle.Phase
	Result *int
	Alert  string
	Busy   bool
}

// ViewFromSnapshot pairs a form model with a controller snapshot.
func ViewFromSnapshot(form model.FormModel, snap lifecycle.Snapshot) View {
	return View{
		Form:   form,
		Values: snap.Values,
		Phase:  snap.Phase,
		Result: snap.Result,
		Alert:  snap.Alert,
		Busy:   snap.Busy(),
	}
}

// BannerState describes the result banner.
type BannerState struct {
	Visible bool   `json:"visible"`
	Tone    string `json:"tone,omitempty"`
	Message string `json:"message,omitempty"`
}

// Banner derives the result banner. It is visible only after a successful
// prediction.
func Banner(view View, opts RenderOptions) BannerState {
	if view.Phase != lifecycle.Succeeded || view.Result == nil {
		return BannerState{}
	}
	if *view.Result == 1 {
		return BannerState{Visible: true, Tone: ToneDanger, Message: Translate(opts, KeyResultChurn, MessageChurn)}
	}
	return BannerState{Visible: true, Tone: ToneSuccess, Message: Translate(opts, KeyResultStay, MessageStay)}
}

// AlertMessage returns the localized failure notice, or "" unless the view
// is in the Failed phase.
func AlertMessage(view View, opts RenderOptions) string {
	if view.Phase != lifecycle.Failed || view.Alert == "" {
		return ""
	}
	if view.Alert == lifecycle.DefaultAlertMessage {
		return Translate(opts, KeyAlert, view.Alert)
	}
	return view.Alert
}

// ButtonLabel returns the submit label for the current phase.
func ButtonLabel(view View, opts RenderOptions) string {
	if view.Busy {
		return Translate(opts, KeySubmitBusy, metadataOr(view.Form, uischema.MetadataBusyLabel, DefaultBusyLabel))
	}
	return Translate(opts, KeySubmit, metadataOr(view.Form, uischema.MetadataSubmitLabel, DefaultSubmitLabel))
}

// Title returns the form heading.
func Title(view View) string {
	if title := metadataOr(view.Form, uischema.MetadataTitle, ""); title != "" {
		return title
	}
	if view.Form.Summary != "" {
		return view.Form.Summary
	}
	return DefaultTitle
}

func metadataOr(form model.FormModel, key, fallback string) string {
	if value := strings.TrimSpace(form.Metadata[key]); value != "" {
		return value
	}
	return fallback
}

// Control kinds.
const (
	ControlNumber = "number"
	ControlSelect = "select"
	ControlHidden = "hidden"
)

// Control is the presentation of one field.
type Control struct {
	Name     string          `json:"name"`
	Label    string          `json:"label"`
	HelpText string          `json:"helpText,omitempty"`
	Kind     string          `json:"kind"`
	Value    string          `json:"value"`
	Min      string          `json:"min,omitempty"`
	Max      string          `json:"max,omitempty"`
	Step     string          `json:"step,omitempty"`
	Required bool            `json:"required"`
	Options  []ControlOption `json:"options,omitempty"`
	Errors   []string        `json:"errors,omitempty"`
}

// ControlOption is one entry of a select control.
type ControlOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Controls builds one control per field in form order. Fields hidden by the
// active preset become hidden inputs so the submitted body stays complete.
func Controls(view View, opts RenderOptions) []Control {
	controls := make([]Control, 0, len(view.Form.Fields))
	for _, field := range view.Form.Fields {
		value := FormatValue(view.Values[field.Name])
		control := Control{
			Name:     field.Name,
			Label:    field.Label,
			HelpText: field.HelpText,
			Value:    value,
			Required: field.Required,
			Errors:   opts.Errors[field.Name],
		}
		switch {
		case field.Hidden:
			control.Kind = ControlHidden
		case len(field.Enum) > 0:
			control.Kind = ControlSelect
			for _, option := range field.Enum {
				optValue := FormatValue(option)
				control.Options = append(control.Options, ControlOption{
					Value:    optValue,
					Label:    optValue,
					Selected: optValue == value,
				})
			}
		default:
			control.Kind = ControlNumber
			control.Step = stepFor(field)
			if lo, ok := field.Bound(model.ValidationRuleMin); ok {
				control.Min = FormatValue(lo)
			}
			if hi, ok := field.Bound(model.ValidationRuleMax); ok {
				control.Max = FormatValue(hi)
			}
		}
		controls = append(controls, control)
	}
	return controls
}

func stepFor(field model.Field) string {
	switch {
	case field.Type == model.FieldTypeInteger:
		return "1"
	case field.Format == "currency":
		return "0.01"
	default:
		return "any"
	}
}

// FormatValue renders a stored value the way an input control shows it.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
