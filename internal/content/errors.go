package content

import "fmt"

// AcquisitionError reports a collaborator failure while enumerating or
// fetching source content. Fatal to the whole run; it happens before
// any unit is processed or during unit construction, never inside the
// per-unit loop.
type AcquisitionError struct {
	SourceID string
	Ref      string // group selector or page locator
	Err      error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquiring content for %s (%s): %v", e.SourceID, e.Ref, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}
