package viewport

import (
	stderrors "errors"

	"github.com/vango-dev/viewport/internal/errors"
)

// kindError is a sentinel that can also match a broader sentinel.
type kindError struct {
	msg    string
	parent error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool {
	return e.parent != nil && target == e.parent
}

var (
	// ErrInvalidOperation is returned for operations not allowed in the
	// port's current hydration state.
	ErrInvalidOperation = stderrors.New("viewport: invalid operation")

	// ErrIndexOutOfRange is returned when an index is outside the valid range.
	ErrIndexOutOfRange = stderrors.New("viewport: index out of range")

	// ErrEmptyCollection is returned by Remove, Detach and Get on an empty
	// port. It also matches ErrIndexOutOfRange.
	ErrEmptyCollection error = &kindError{msg: "viewport: empty collection", parent: ErrIndexOutOfRange}
)

func invalidOp(op Op, detail, hint string) error {
	return errors.New("E200").
		WithOp("viewport." + string(op)).
		WithDetail(detail).
		WithSuggestion(hint).
		Wrap(ErrInvalidOperation)
}

// linkFailed reports a tree rejecting v. The result matches both
// ErrInvalidOperation and cause.
func linkFailed(op Op, cause error) error {
	return errors.New("E200").
		WithOp("viewport." + string(op)).
		WithDetail(cause.Error()).
		WithSuggestion("Insert only views that are not attached elsewhere").
		Wrap(stderrors.Join(ErrInvalidOperation, cause))
}

func notHydrated(op Op) error {
	return invalidOp(op, "port is dehydrated", "Hydrate the port before changing its views")
}

func indexOutOfRange(op Op, index, lo, hi int) error {
	return errors.New("E201").
		WithOp("viewport."+string(op)).
		WithDetailf("index %d not in [%d, %d]", index, lo, hi).
		Wrap(ErrIndexOutOfRange)
}

func emptyCollection(op Op) error {
	return errors.New("E202").
		WithOp("viewport." + string(op)).
		Wrap(ErrEmptyCollection)
}
