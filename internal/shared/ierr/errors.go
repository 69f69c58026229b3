package ierr

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// Error categories. Concrete errors are marked with one of these so callers
// can branch with errors.Is without caring about the message.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence error")
	ErrAssistant   = errors.New("assistant error")
	ErrUnsupported = errors.New("unsupported")
	ErrBusy        = errors.New("busy")

	statusCodeMap = map[error]int{
		ErrValidation:  http.StatusBadRequest,
		ErrNotFound:    http.StatusNotFound,
		ErrPersistence: http.StatusInternalServerError,
		ErrAssistant:   http.StatusBadGateway,
		ErrUnsupported: http.StatusUnprocessableEntity,
		ErrBusy:        http.StatusConflict,
	}
)

// ErrorBuilder chains context onto an error. Mark must be the last call.
type ErrorBuilder struct {
	err error
}

// NewError starts a new error builder chain
func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.New(msg)}
}

// NewErrorf starts a builder chain with a formatted message
func NewErrorf(format string, args ...any) *ErrorBuilder {
	return &ErrorBuilder{err: errors.Newf(format, args...)}
}

// WithError starts a builder chain with an existing error
func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// WithMessage adds internal context to the error
func (b *ErrorBuilder) WithMessage(msg string) *ErrorBuilder {
	b.err = errors.WithMessage(b.err, msg)
	return b
}

// WithHint attaches the message shown to the user
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err = errors.WithHint(b.err, hint)
	return b
}

// WithHintf is WithHint with formatting
func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.err = errors.WithHintf(b.err, format, args...)
	return b
}

// Mark marks the error with a category sentinel and returns it
func (b *ErrorBuilder) Mark(reference error) error {
	b.err = errors.Mark(b.err, reference)
	return b.err
}

// Err returns the error without marking it
func (b *ErrorBuilder) Err() error {
	return b.err
}

func IsValidation(err error) bool  { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsPersistence(err error) bool { return errors.Is(err, ErrPersistence) }
func IsAssistant(err error) bool   { return errors.Is(err, ErrAssistant) }
func IsUnsupported(err error) bool { return errors.Is(err, ErrUnsupported) }
func IsBusy(err error) bool        { return errors.Is(err, ErrBusy) }

// UserMessage returns the hints attached to err, falling back to the
// error text when no hint was set.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	hints := errors.GetAllHints(err)
	if len(hints) > 0 {
		return strings.Join(hints, " ")
	}
	return err.Error()
}

// HTTPStatus maps an error category to a response status code
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	for ref, code := range statusCodeMap {
		if errors.Is(err, ref) {
			return code
		}
	}
	return http.StatusInternalServerError
}
