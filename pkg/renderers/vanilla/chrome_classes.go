package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm    ChromeClass = "churnform-form"
	ClassHeader  ChromeClass = "churnform-header"
	ClassField   ChromeClass = "churnform-field"
	ClassActions ChromeClass = "churnform-actions"
	ClassErrors  ChromeClass = "churnform-errors"
	ClassAlert   ChromeClass = "churnform-alert"
	// ClassResult is combined with the banner tone ("result danger").
	ClassResult ChromeClass = "result"
)

func chromeClasses() map[string]string {
	return map[string]string{
		"form":    string(ClassForm),
		"header":  string(ClassHeader),
		"field":   string(ClassField),
		"actions": string(ClassActions),
		"errors":  string(ClassErrors),
		"alert":   string(ClassAlert),
		"result":  string(ClassResult),
	}
}
