package docanalysis

import (
	"errors"
	"fmt"
)

// ErrNoInput is returned when an analysis run is requested with zero
// documents. The run does not start.
var ErrNoInput = errors.New("no documents supplied")

// RecognitionError reports an OCR failure for a single document. The
// pipeline records it inline for that document and continues with the
// rest of the batch.
type RecognitionError struct {
	Document string
	Err      error
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("recognition failed for %q: %v", e.Document, e.Err)
}

func (e *RecognitionError) Unwrap() error {
	return e.Err
}
