package variants

import (
	"errors"
	"fmt"

	pkgerrors "github.com/luxurystrandhaven/storefront-backend/pkg/errors"
)

var (
	// ErrInvalidProductData marks catalog rows the resolver refuses to load.
	ErrInvalidProductData = errors.New("invalid product data")
	// ErrUnknownOption marks a selection against a group the product does not declare.
	ErrUnknownOption = errors.New("unknown option")
	// ErrInvalidOptionValue marks a selection of a value outside its group.
	ErrInvalidOptionValue = errors.New("invalid option value")
	// ErrIncompleteSelection is returned when a cart line is requested before a SKU resolves.
	ErrIncompleteSelection = errors.New("incomplete selection")
	// ErrQuantityOutOfRange is returned when the quantity is outside [moq, stock].
	ErrQuantityOutOfRange = errors.New("quantity out of range")
)

func invalidProduct(format string, args ...any) error {
	cause := fmt.Errorf("%w: %s", ErrInvalidProductData, fmt.Sprintf(format, args...))
	return pkgerrors.Wrap(pkgerrors.CodeUnavailable, cause, "product unavailable")
}

func unknownOption(group string) error {
	cause := fmt.Errorf("%w: %q", ErrUnknownOption, group)
	return pkgerrors.Wrap(pkgerrors.CodeValidation, cause, "unknown option").
		WithDetails(map[string]any{"option": group})
}

func invalidOptionValue(group, value string) error {
	cause := fmt.Errorf("%w: %q for %q", ErrInvalidOptionValue, value, group)
	return pkgerrors.Wrap(pkgerrors.CodeValidation, cause, "invalid option value").
		WithDetails(map[string]any{"option": group, "value": value})
}

func incompleteSelection(missing []string) error {
	return pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrIncompleteSelection, "select all options before adding to cart").
		WithDetails(map[string]any{"missing": missing})
}

func quantityOutOfRange(requested, min, max int) error {
	cause := fmt.Errorf("%w: %d not in [%d, %d]", ErrQuantityOutOfRange, requested, min, max)
	return pkgerrors.Wrap(pkgerrors.CodeStateConflict, cause, "quantity out of range").
		WithDetails(map[string]any{"requested": requested, "min": min, "max": max})
}
