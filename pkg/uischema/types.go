package uischema

// Store keeps the parsed operations and presets. It is safe for concurrent
// readers when treated as immutable after construction.
type Store struct {
	operations map[string]Operation
	presets    map[string][]string
}

// Operation describes the overrides for a specific OpenAPI operation.
type Operation struct {
	ID     string
	Source string
	Form   FormConfig
	Fields map[string]FieldConfig
}

// FormConfig captures page-level copy.
type FormConfig struct {
	Title       string            `json:"title" yaml:"title"`
	TitleKey    string            `json:"titleKey" yaml:"titleKey"`
	Subtitle    string            `json:"subtitle" yaml:"subtitle"`
	SubmitLabel string            `json:"submitLabel" yaml:"submitLabel"`
	BusyLabel   string            `json:"busyLabel" yaml:"busyLabel"`
	Metadata    map[string]string `json:"metadata" yaml:"metadata"`
}

// FieldConfig customises how a single field is presented.
type FieldConfig struct {
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	LabelKey    string `json:"labelKey,omitempty" yaml:"labelKey,omitempty"`
	HelpText    string `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	HelpTextKey string `json:"helpTextKey,omitempty" yaml:"helpTextKey,omitempty"`
	Hidden      *bool  `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// Metadata keys written by the decorator and read by renderers.
const (
	MetadataTitle       = "form.title"
	MetadataTitleKey    = "form.titleKey"
	MetadataSubtitle    = "form.subtitle"
	MetadataSubmitLabel = "form.submitLabel"
	MetadataBusyLabel   = "form.busyLabel"
	MetadataPreset      = "form.preset"

	FieldMetadataLabelKey    = "labelKey"
	FieldMetadataHelpTextKey = "helpTextKey"
)
