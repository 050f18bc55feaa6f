package convert

import (
	"errors"
	"fmt"
)

// ErrConversion is the sentinel every conversion failure matches with errors.Is.
var ErrConversion = errors.New("conversion failed")

// ConversionError describes why a file could not be turned into Markdown.
type ConversionError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to convert %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to convert %s: %s", e.Path, e.Reason)
}

func (e *ConversionError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrConversion, e.Err}
	}
	return []error{ErrConversion}
}

func conversionError(path, reason string, err error) error {
	return &ConversionError{Path: path, Reason: reason, Err: err}
}
