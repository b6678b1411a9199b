package submission

import "errors"

var (
	// ErrDuplicate means a record with the same uniqueness key already
	// exists (no-window policies).
	ErrDuplicate = errors.New("a matching submission already exists")

	// ErrDuplicateRecent means an equivalent submission arrived within
	// the form's duplicate window.
	ErrDuplicateRecent = errors.New("a matching submission was made too recently")

	// ErrNotFound means no record matched the id for this form type.
	ErrNotFound = errors.New("submission not found")

	// ErrInvalidStatus means the requested status is not in the form's
	// status set.
	ErrInvalidStatus = errors.New("invalid status for this form type")
)

// ValidationError reports the first input field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
