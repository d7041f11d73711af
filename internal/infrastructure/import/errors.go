package csvimport

import "errors"

// Source errors abort the whole run before any row is scheduled. Everything
// past a readable header degrades per row instead of failing.
var (
	// ErrEmptyFile is returned when the CSV source is empty
	ErrEmptyFile = errors.New("CSV source is empty")

	// ErrInvalidEncoding is returned when the source is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding")

	// ErrMissingHeader is returned when the CSV source has no header row
	ErrMissingHeader = errors.New("CSV source missing header row")

	// ErrNoSource is returned when neither file, inline text nor URL was given
	ErrNoSource = errors.New("no CSV source provided: need file, text or url")

	// ErrSourceUnreadable is returned when a URL source cannot be fetched
	ErrSourceUnreadable = errors.New("CSV source unreadable")
)
