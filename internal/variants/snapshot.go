package variants

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Snapshot is a read-only view of a resolver, shaped for API responses.
type Snapshot struct {
	ProductID             string            `json:"product_id"`
	State                 State             `json:"state"`
	Chosen                map[string]string `json:"chosen"`
	Variant               *Variant          `json:"variant,omitempty"`
	VariantOptionNames    []string          `json:"variant_option_names"`
	MissingOptions        []string          `json:"missing_options,omitempty"`
	SelectionComplete     bool              `json:"selection_complete"`
	NeedsVariantSelection bool              `json:"needs_variant_selection"`
	Price                 decimal.Decimal   `json:"price"`
	FromPrice             decimal.Decimal   `json:"from_price"`
	CompareAtPrice        *decimal.Decimal  `json:"compare_at_price,omitempty"`
	DiscountPercent       int               `json:"discount_percent,omitempty"`
	Stock                 int               `json:"stock"`
	StockLabel            string            `json:"stock_label"`
	MinQuantity           int               `json:"min_quantity"`
	CanAddToCart          bool              `json:"can_add_to_cart"`
}

// Snapshot captures the derived queries at this instant.
func (r *Resolver) Snapshot() Snapshot {
	stock := r.EffectiveStock()
	s := Snapshot{
		ProductID:             r.product.ID,
		State:                 r.State(),
		Chosen:                r.Chosen(),
		VariantOptionNames:    r.VariantOptionNames(),
		MissingOptions:        r.MissingOptions(),
		SelectionComplete:     r.IsSelectionComplete(),
		NeedsVariantSelection: r.NeedsVariantSelection(),
		Price:                 r.EffectivePrice(),
		FromPrice:             r.MinimumAcrossVariants(),
		CompareAtPrice:        r.product.CompareAtPrice,
		DiscountPercent:       r.DiscountPercent(),
		Stock:                 stock,
		StockLabel:            StockLabel(stock),
		MinQuantity:           r.product.MOQ(),
	}
	if v, ok := r.ResolvedVariant(); ok {
		s.Variant = &v
	}
	s.CanAddToCart = !s.NeedsVariantSelection && s.SelectionComplete && stock >= s.MinQuantity
	return s
}

// StockLabel renders the availability badge shown next to the price.
func StockLabel(stock int) string {
	switch {
	case stock > 10:
		return "In Stock"
	case stock > 0:
		return "Only " + strconv.Itoa(stock) + " left"
	default:
		return "Out of Stock"
	}
}
