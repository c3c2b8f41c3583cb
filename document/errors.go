package document

import (
	"context"
	"errors"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind defines document error kinds.
type ErrorKind string

const (
	KindUnsupported    ErrorKind = "unsupported_type"
	KindNotImplemented ErrorKind = "not_implemented"
	KindRenderFailed   ErrorKind = "render_failed"
	KindMalformedStyle ErrorKind = "malformed_style"
	KindValidation     ErrorKind = "validation"
	KindTimeout        ErrorKind = "timeout"
	KindCanceled       ErrorKind = "canceled"
	KindInternal       ErrorKind = "internal"
)

// DocError wraps errors with a kind.
type DocError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *DocError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *DocError) Unwrap() error {
	return e.Err
}

// NewError creates a new document error.
func NewError(kind ErrorKind, msg string, err error) *DocError {
	return &DocError{Kind: kind, Msg: msg, Err: err}
}

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindFromError(err)
	msg := err.Error()

	switch kind {
	case KindValidation:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("validation")
	case KindMalformedStyle:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("malformed_style")
	case KindUnsupported:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode("unsupported_type")
	case KindNotImplemented:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("not_implemented")
	case KindTimeout:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("timeout")
	case KindCanceled:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("canceled")
	case KindRenderFailed:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("render_failed")
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("internal")
	}
}

// KindFromError maps an error to its document error kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	var docErr *DocError
	if errors.As(err, &docErr) {
		return docErr.Kind
	}

	return KindInternal
}
