package lifecycle

import "fmt"

// Phase is the position of a controller in the request lifecycle.
type Phase int

const (
	Idle Phase = iota
	Submitting
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText encodes the phase by name for JSON snapshots.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*p = Idle
	case "submitting":
		*p = Submitting
	case "succeeded":
		*p = Succeeded
	case "failed":
		*p = Failed
	default:
		return fmt.Errorf("lifecycle: unknown phase %q", text)
	}
	return nil
}
