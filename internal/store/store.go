package store

// Store defines the interface for persisting comparison results.
// Implementations must be safe for concurrent use.
//
// Error handling conventions:
//   - Return nil error on success
//   - Return a *NotFoundError if the result doesn't exist (Load/Delete)
//   - Wrap underlying errors with context using fmt.Errorf("context: %w", err)
type Store interface {
	// SaveResult atomically saves a result record. An existing record with
	// the same ID is overwritten. Implementations should use atomic write
	// strategies (temp file + rename) to prevent corruption.
	SaveResult(id string, rec *Record) error

	// LoadResult retrieves the record for the given result ID.
	// Returns a *NotFoundError if no record exists.
	LoadResult(id string) (*Record, error)

	// ListResults returns metadata for all stored results. The returned
	// slice may be empty.
	ListResults() ([]ResultInfo, error)

	// DeleteResult removes the record and every associated artifact
	// (result.json, report.txt, decoded.png, diff.png, amplified.png).
	// Returns a *NotFoundError if no record exists.
	DeleteResult(id string) error
}

// ErrNotFound is returned when a requested result does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing result error.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return "result not found: " + e.ID
	}
	return "result not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
