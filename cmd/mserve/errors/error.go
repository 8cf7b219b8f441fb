package errors

import (
	"fmt"
	"strings"
)

// Verbose is an error which can describe itself in detail.
type Verbose interface {
	Verbose() string
}

// CUIError is an error to be shown to users of the commandline.
//
// Error() is a message for humans, and Verbose() adds its causes.
type CUIError interface {
	error
	Verbose
}

type cuiError struct {
	summary string
	verbose string
	detail  func(summary string) (string, error)
	cause   error
}

func (ce *cuiError) Unwrap() error {
	return ce.cause
}

func (ce *cuiError) Error() string {
	if ce.detail == nil {
		return ce.summary
	}
	message, err := ce.detail(ce.summary)
	if err != nil {
		return fmt.Sprintf(
			"%s\n(cannot build detailed message: %s)",
			ce.summary, err,
		)
	}
	return message
}

func (ce *cuiError) Verbose() string {
	lines := []string{ce.Error()}
	if ce.verbose != "" {
		lines = append(lines, "("+ce.verbose+")")
	}

	switch cause := ce.cause.(type) {
	case nil:
	case Verbose:
		lines = append(lines, "caused by:", cause.Verbose())
	default:
		lines = append(lines, "caused by:", cause.Error())
	}
	return strings.Join(lines, "\n")
}

type Option func(*cuiError)

// New creates a CUIError with summary.
func New(summary string, options ...Option) CUIError {
	err := &cuiError{summary: summary}
	for _, o := range options {
		o(err)
	}
	return err
}

// WithVerbose adds a note shown only in Verbose().
func WithVerbose(verbose string) Option {
	return func(ce *cuiError) {
		ce.verbose = verbose
	}
}

// WithDetail replaces the message with the output of printer.
//
// printer receives the summary. When printer fails, the summary is used.
func WithDetail(printer func(summary string) (string, error)) Option {
	return func(ce *cuiError) {
		ce.detail = printer
	}
}

// WithCause sets the error to be unwrapped.
func WithCause(err error) Option {
	return func(ce *cuiError) {
		ce.cause = err
	}
}
