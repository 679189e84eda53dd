package checkout

import (
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/luxurystrandhaven/storefront-backend/pkg/errors"
)

// QuantityInput describes the data required to verify a cart line's quantity.
type QuantityInput struct {
	ProductID    uuid.UUID
	ProductName  string
	VariantLabel string
	MOQ          int
	MaxStock     int
	Quantity     int
}

// QuantityViolation exposes the data returned to callers when a validation fails.
type QuantityViolation struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name,omitempty"`
	VariantLabel string    `json:"variant,omitempty"`
	RequiredQty  int       `json:"required_qty"`
	AvailableQty int       `json:"available_qty"`
	RequestedQty int       `json:"requested_qty"`
}

// ValidateQuantities ensures every line meets its product's minimum order
// quantity and does not exceed the stock available for its variant.
func ValidateQuantities(items []QuantityInput) error {
	var violations []QuantityViolation
	for _, item := range items {
		moq := item.MOQ
		if moq < 1 {
			moq = 1
		}
		if item.Quantity >= moq && item.Quantity <= item.MaxStock {
			continue
		}
		violations = append(violations, QuantityViolation{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			VariantLabel: item.VariantLabel,
			RequiredQty:  moq,
			AvailableQty: item.MaxStock,
			RequestedQty: item.Quantity,
		})
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("quantity out of range for %d item(s)", len(violations))).WithDetails(map[string]any{
		"violations": violations,
	})
}
