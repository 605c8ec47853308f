// Package errs defines the error kinds shared by the statement readers,
// writers and converters. Every typed error unwraps to one of the sentinel
// values below so callers can branch with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel error kinds.
var (
	ErrMalformedEnvelope     = errors.New("malformed envelope")
	ErrMissingBlock          = errors.New("missing block")
	ErrInvalidIndicator      = errors.New("invalid debit/credit indicator")
	ErrInvalidBalance        = errors.New("invalid balance")
	ErrInvalidTransaction    = errors.New("invalid transaction")
	ErrMissingBalance        = errors.New("missing balance")
	ErrUnsupportedConversion = errors.New("unsupported conversion")
	ErrIO                    = errors.New("i/o failure")
	ErrConversion            = errors.New("conversion failed")
)

// BlockError reports a mandatory envelope block that is absent.
type BlockError struct {
	Name string
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("missing %s block", e.Name)
}

func (e *BlockError) Unwrap() error { return ErrMissingBlock }

// FieldError reports a tag body that does not match its grammar.
// Raw is the offending body, verbatim.
type FieldError struct {
	Kind   error // ErrInvalidBalance or ErrInvalidTransaction
	Tag    string
	Raw    string
	Reason string
	Cause  error // optional finer-grained kind, e.g. ErrInvalidIndicator
}

func (e *FieldError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("%v :%s: %q: %s", e.Kind, e.Tag, e.Raw, e.Reason)
	}
	return fmt.Sprintf("%v %q: %s", e.Kind, e.Raw, e.Reason)
}

func (e *FieldError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// MissingBalanceError reports a mandatory balance role absent from a statement.
type MissingBalanceError struct {
	Role string // OPBD, CLBD ...
}

func (e *MissingBalanceError) Error() string {
	return fmt.Sprintf("missing balance %s", e.Role)
}

func (e *MissingBalanceError) Unwrap() error { return ErrMissingBalance }

// UnsupportedConversionError reports a format pair with no conversion path.
type UnsupportedConversionError struct {
	Source string
	Target string
}

func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("unsupported conversion: %s to %s", e.Source, e.Target)
}

func (e *UnsupportedConversionError) Unwrap() error { return ErrUnsupportedConversion }

// ConversionError wraps a failure raised while mapping one model onto the
// other. Statement is the zero-based index of the offending statement, or
// -1 when the failure is not tied to a single statement.
type ConversionError struct {
	Statement int
	Err       error
}

func (e *ConversionError) Error() string {
	if e.Statement >= 0 {
		return fmt.Sprintf("conversion failed at statement %d: %v", e.Statement+1, e.Err)
	}
	return fmt.Sprintf("conversion failed: %v", e.Err)
}

func (e *ConversionError) Unwrap() []error {
	return []error{ErrConversion, e.Err}
}

// IOError wraps a read or write failure on the caller's streams.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}
