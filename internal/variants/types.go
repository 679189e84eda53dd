package variants

import (
	"strings"

	"github.com/shopspring/decimal"
)

// OptionKind controls how an option group renders its values.
type OptionKind string

const (
	KindColor OptionKind = "color"
	KindPlain OptionKind = "plain"
)

// OptionGroup is one customer-facing choice on a product page.
type OptionGroup struct {
	Name              string     `json:"name"`
	Kind              OptionKind `json:"kind"`
	GeneratesVariants bool       `json:"generates_variants"`
	Values            []string   `json:"values"`
}

// Has reports whether value is one of the group's tokens.
func (g OptionGroup) Has(value string) bool {
	for _, v := range g.Values {
		if v == value {
			return true
		}
	}
	return false
}

// Variant is a purchasable SKU. OptionValues is positional against the
// product's variant-generating group names.
type Variant struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	SKU          string           `json:"sku,omitempty"`
	OptionValues []string         `json:"option_values"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Stock        int              `json:"stock"`
	ColorHex     string           `json:"color_hex,omitempty"`
}

// Product is the normalized aggregate handed to the resolver.
type Product struct {
	ID                   string           `json:"id"`
	Slug                 string           `json:"slug"`
	Name                 string           `json:"name"`
	Image                string           `json:"image,omitempty"`
	BasePrice            decimal.Decimal  `json:"base_price"`
	CompareAtPrice       *decimal.Decimal `json:"compare_at_price,omitempty"`
	BaseStock            int              `json:"base_stock"`
	MinimumOrderQuantity int              `json:"minimum_order_quantity"`
	OptionGroups         []OptionGroup    `json:"option_groups"`
	Variants             []Variant        `json:"variants"`
}

// HasVariants reports whether the product is sold through SKUs.
func (p Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// MOQ returns the effective minimum order quantity, never below one.
func (p Product) MOQ() int {
	if p.MinimumOrderQuantity < 1 {
		return 1
	}
	return p.MinimumOrderQuantity
}

// CartLine is the add-to-cart payload produced from a resolved selection.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	VariantID string          `json:"variant_id,omitempty"`
	Variant   string          `json:"variant,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	MaxStock  int             `json:"max_stock"`
	MOQ       int             `json:"moq"`
}

// State is the resolution state of a selection.
type State string

const (
	StateEmpty        State = "empty"
	StatePartial      State = "partial"
	StateResolved     State = "resolved"
	StateUnresolvable State = "unresolvable"
)

func tupleKey(values []string) string {
	return strings.Join(values, "\x1f")
}
