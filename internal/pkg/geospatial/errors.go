package geospatial

import (
	"errors"
	"fmt"
)

// FormatError reports input that does not match the DMS grammar, or, in
// strict mode, minutes or seconds outside 0-59.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid DMS value %q: %s", e.Input, e.Reason)
	}
	return "invalid DMS format, expected gg°mm'ss.ss''"
}

// DomainError reports a non-finite decimal passed to FormatDMS.
type DomainError struct {
	Value float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("decimal degrees must be finite, got %v", e.Value)
}

// IsFormatError reports whether err wraps a *FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsDomainError reports whether err wraps a *DomainError.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
