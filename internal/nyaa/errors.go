package nyaa

import (
	"errors"
	"fmt"
)

var (
	// ErrTorrentNotFound is returned when a detail page answers 404.
	ErrTorrentNotFound = errors.New("torrent not found")

	ErrCategoryNotFound        = errors.New("category not found")
	ErrUnsupportedSite         = errors.New("unsupported site")
	ErrUnrecognizedTorrentType = errors.New("unrecognized torrent type")
	ErrUnrecognizedUserLevel   = errors.New("unrecognized user level")

	// ErrMissingField marks a required element or attribute that is absent
	// from the document.
	ErrMissingField = errors.New("missing field")
)

// TransportError reports a failed request: either the round trip itself
// failed (Err is set) or the server answered with a non-2xx status.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request %s: HTTP %d", e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FieldError names the document field an extractor could not read.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func missing(field string) error {
	return &FieldError{Field: field, Err: ErrMissingField}
}

func malformed(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}
