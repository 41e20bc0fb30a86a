package classifier

import "fmt"

// Label is one of the two classes the classifier distinguishes.
type Label string

const (
	LabelHam  Label = "ham"
	LabelSpam Label = "spam"
)

// Valid reports whether l belongs to the closed label set.
func (l Label) Valid() bool {
	return l == LabelHam || l == LabelSpam
}

// ParseLabel converts a raw string into a Label.
func ParseLabel(s string) (Label, error) {
	l := Label(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown label %q", s)
	}
	return l, nil
}

// Status tells callers which kind of outcome a Result carries.
type Status int

const (
	// StatusClassified means Label and Confidence are set.
	StatusClassified Status = iota
	// StatusNeedsInput means the text was blank and the model was not consulted.
	StatusNeedsInput
	// StatusError means Err holds a *PredictionError.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusClassified:
		return "classified"
	case StatusNeedsInput:
		return "needs_input"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText lets Status travel as a string in JSON and YAML.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
