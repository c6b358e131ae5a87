package dice

import (
	"errors"
	"fmt"
	"strconv"

	apperrors "github.com/louisbranch/fairdice/internal/platform/errors"
)

var (
	// ErrInvalidDie indicates a structural problem found at construction.
	ErrInvalidDie = apperrors.New(apperrors.CodeDieInvalid, "invalid die")
	// ErrDrawDomain indicates a drawn operand outside an operation's domain.
	ErrDrawDomain = apperrors.New(apperrors.CodeDieDrawDomain, "drawn value outside operand domain")
	// ErrExhausted indicates a die with nothing left to draw.
	ErrExhausted = apperrors.New(apperrors.CodeDieExhausted, "die exhausted")
)

func invalid(node, operand, format string, args ...any) error {
	return apperrors.Newf(apperrors.CodeDieInvalid, "%s: %s", node, fmt.Sprintf(format, args...)).
		With(apperrors.MetaNode, node).
		With(apperrors.MetaOperand, operand)
}

func outOfDomain(node, operand string, value int) error {
	return apperrors.Newf(apperrors.CodeDieDrawDomain, "%s: %s %d is outside the domain", node, operand, value).
		With(apperrors.MetaNode, node).
		With(apperrors.MetaOperand, operand).
		With(apperrors.MetaValue, strconv.Itoa(value))
}

func exhausted(node string) error {
	return apperrors.Newf(apperrors.CodeDieExhausted, "%s: nothing left to draw", node).
		With(apperrors.MetaNode, node)
}

func requireChild(node, operand string, d Die) error {
	if d == nil {
		return invalid(node, operand, "%s is nil", operand)
	}
	return nil
}

// annotate attaches the node name to outcome errors that lack one.
func annotate(node string, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		if _, ok := appErr.Metadata[apperrors.MetaNode]; !ok {
			return appErr.With(apperrors.MetaNode, node)
		}
	}
	return err
}
