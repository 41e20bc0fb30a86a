package classifier

import (
	"errors"
	"fmt"
)

// ErrEmptyCorpus is wrapped by the ConstructionError returned for an empty training set.
var ErrEmptyCorpus = errors.New("training set is empty")

// ConstructionError reports that a classifier could not be built from its training data.
type ConstructionError struct {
	Reason string
	Err    error
}

func (e *ConstructionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classifier construction failed: %s: %v", e.Reason, e.Err)
	}
	return "classifier construction failed: " + e.Reason
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// PredictionError reports an internal fault while vectorizing or scoring a text.
// It is returned inside a Result and never escapes Classify as a panic.
type PredictionError struct {
	Cause string
}

func (e *PredictionError) Error() string {
	return "prediction failed: " + e.Cause
}
