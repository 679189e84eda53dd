package variants

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Resolver tracks one customer's option selection for one product. It is not
// safe for concurrent use; build one per request or per view.
type Resolver struct {
	product            Product
	groups             []OptionGroup
	groupIndex         map[string]int
	variantOptionNames []string
	chosen             map[string]string
	resolved           int
}

// New validates the product and returns a resolver with an empty selection.
func New(product Product) (*Resolver, error) {
	if product.BasePrice.IsNegative() {
		return nil, invalidProduct("product %s has a negative base price", product.ID)
	}
	if product.BaseStock < 0 {
		return nil, invalidProduct("product %s has negative stock", product.ID)
	}

	groups := MergeGroups(product.OptionGroups, nil)
	index := make(map[string]int, len(groups))
	var variantNames []string
	for i, g := range groups {
		index[g.Name] = i
		if g.GeneratesVariants {
			variantNames = append(variantNames, g.Name)
		}
	}

	if len(product.Variants) > 0 && len(variantNames) == 0 {
		return nil, invalidProduct("product %s has variants but no variant-generating options", product.ID)
	}

	if len(product.Variants) > 0 {
		for _, name := range variantNames {
			if len(groups[index[name]].Values) == 0 {
				return nil, invalidProduct("product %s has no values for variant option %s", product.ID, name)
			}
		}
	}

	seen := make(map[string]string, len(product.Variants))
	for _, v := range product.Variants {
		if len(v.OptionValues) != len(variantNames) {
			return nil, invalidProduct("variant %s has %d option values, want %d", v.ID, len(v.OptionValues), len(variantNames))
		}
		for i, value := range v.OptionValues {
			if !groups[index[variantNames[i]]].Has(value) {
				return nil, invalidProduct("variant %s has %s %q outside the option's values", v.ID, variantNames[i], value)
			}
		}
		if v.Stock < 0 {
			return nil, invalidProduct("variant %s has negative stock", v.ID)
		}
		if v.Price != nil && v.Price.IsNegative() {
			return nil, invalidProduct("variant %s has a negative price", v.ID)
		}
		key := tupleKey(v.OptionValues)
		if other, dup := seen[key]; dup {
			return nil, invalidProduct("variants %s and %s share options [%s]", other, v.ID, strings.Join(v.OptionValues, ", "))
		}
		seen[key] = v.ID
	}

	product.OptionGroups = groups
	return &Resolver{
		product:            product,
		groups:             groups,
		groupIndex:         index,
		variantOptionNames: variantNames,
		chosen:             map[string]string{},
		resolved:           -1,
	}, nil
}

// Product returns the product the resolver was built from.
func (r *Resolver) Product() Product {
	return r.product
}

// Groups returns every selectable group after de-duplication.
func (r *Resolver) Groups() []OptionGroup {
	out := make([]OptionGroup, len(r.groups))
	copy(out, r.groups)
	return out
}

// VariantOptionNames returns the variant-generating group names in tuple order.
func (r *Resolver) VariantOptionNames() []string {
	out := make([]string, len(r.variantOptionNames))
	copy(out, r.variantOptionNames)
	return out
}

// Reset clears the selection.
func (r *Resolver) Reset() {
	r.chosen = map[string]string{}
	r.resolved = -1
}

// Select records value for group and re-derives the resolved variant.
func (r *Resolver) Select(group, value string) error {
	idx, ok := r.groupIndex[group]
	if !ok {
		return unknownOption(group)
	}
	g := r.groups[idx]
	if !g.Has(value) {
		return invalidOptionValue(group, value)
	}

	r.chosen[group] = value
	if !g.GeneratesVariants {
		return nil
	}

	r.resolved = -1
	tuple, complete := r.chosenTuple()
	if !complete {
		return nil
	}
	key := tupleKey(tuple)
	for i, v := range r.product.Variants {
		if tupleKey(v.OptionValues) == key {
			r.resolved = i
			break
		}
	}
	return nil
}

// Chosen returns a copy of the current selection.
func (r *Resolver) Chosen() map[string]string {
	out := make(map[string]string, len(r.chosen))
	for k, v := range r.chosen {
		out[k] = v
	}
	return out
}

// ResolvedVariant returns the matched SKU, if any.
func (r *Resolver) ResolvedVariant() (Variant, bool) {
	if r.resolved < 0 {
		return Variant{}, false
	}
	return r.product.Variants[r.resolved], true
}

// IsSelectionComplete reports whether every group with values has a choice.
func (r *Resolver) IsSelectionComplete() bool {
	for _, g := range r.groups {
		if len(g.Values) == 0 {
			continue
		}
		if r.chosen[g.Name] == "" {
			return false
		}
	}
	return true
}

// NeedsVariantSelection gates add-to-cart for products sold through SKUs.
func (r *Resolver) NeedsVariantSelection() bool {
	return r.product.HasVariants() && r.resolved < 0
}

// EffectivePrice is the resolved variant's price or the product base price.
func (r *Resolver) EffectivePrice() decimal.Decimal {
	if v, ok := r.ResolvedVariant(); ok {
		return r.priceOf(v)
	}
	return r.product.BasePrice
}

// EffectiveStock is the resolved variant's stock, the sum over all variants
// while none is resolved, or the base stock for simple products.
func (r *Resolver) EffectiveStock() int {
	if v, ok := r.ResolvedVariant(); ok {
		return v.Stock
	}
	return TotalStock(r.product)
}

// MinimumAcrossVariants is the "from" price shown before a SKU is resolved.
func (r *Resolver) MinimumAcrossVariants() decimal.Decimal {
	return MinimumPrice(r.product)
}

// DiscountPercent returns the whole-percent saving against the compare-at
// price, or zero when there is no discount to show.
func (r *Resolver) DiscountPercent() int {
	compareAt := r.product.CompareAtPrice
	price := r.EffectivePrice()
	if compareAt == nil || !compareAt.GreaterThan(price) || compareAt.IsZero() {
		return 0
	}
	pct := decimal.NewFromInt(1).Sub(price.Div(*compareAt)).Mul(decimal.NewFromInt(100))
	return int(pct.Round(0).IntPart())
}

// State reports where the selection sits in the resolution lifecycle.
func (r *Resolver) State() State {
	chosen := 0
	for _, name := range r.variantOptionNames {
		if r.chosen[name] != "" {
			chosen++
		}
	}
	switch {
	case chosen == 0:
		return StateEmpty
	case chosen < len(r.variantOptionNames):
		return StatePartial
	case r.resolved >= 0:
		return StateResolved
	default:
		return StateUnresolvable
	}
}

// MissingOptions lists groups with values that have not been chosen yet.
func (r *Resolver) MissingOptions() []string {
	var missing []string
	for _, g := range r.groups {
		if len(g.Values) > 0 && r.chosen[g.Name] == "" {
			missing = append(missing, g.Name)
		}
	}
	return missing
}

// BuildCartLine produces the add-to-cart payload for quantity units.
func (r *Resolver) BuildCartLine(quantity int) (CartLine, error) {
	if r.NeedsVariantSelection() {
		return CartLine{}, incompleteSelection(r.missingVariantOptions())
	}

	minQty := r.product.MOQ()
	maxQty := r.EffectiveStock()
	if quantity < minQty || quantity > maxQty {
		return CartLine{}, quantityOutOfRange(quantity, minQty, maxQty)
	}

	line := CartLine{
		ProductID: r.product.ID,
		Slug:      r.product.Slug,
		Name:      r.product.Name,
		Image:     r.product.Image,
		Price:     r.EffectivePrice(),
		Quantity:  quantity,
		MaxStock:  maxQty,
		MOQ:       minQty,
	}
	if v, ok := r.ResolvedVariant(); ok {
		line.VariantID = v.ID
		line.Variant = r.variantLabel(v)
	}
	return line, nil
}

func (r *Resolver) variantLabel(v Variant) string {
	parts := make([]string, 0, len(r.variantOptionNames))
	for _, name := range r.variantOptionNames {
		value := r.chosen[name]
		if value == "" {
			continue
		}
		parts = append(parts, DisplayValue(r.groups[r.groupIndex[name]].Kind, value))
	}
	if len(parts) == 0 {
		return v.Name
	}
	return strings.Join(parts, " / ")
}

func (r *Resolver) missingVariantOptions() []string {
	var missing []string
	for _, name := range r.variantOptionNames {
		if r.chosen[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

func (r *Resolver) chosenTuple() ([]string, bool) {
	tuple := make([]string, len(r.variantOptionNames))
	for i, name := range r.variantOptionNames {
		value, ok := r.chosen[name]
		if !ok || value == "" {
			return nil, false
		}
		tuple[i] = value
	}
	return tuple, true
}

func (r *Resolver) priceOf(v Variant) decimal.Decimal {
	if v.Price != nil {
		return *v.Price
	}
	return r.product.BasePrice
}

// MinimumPrice returns the lowest variant price, treating unpriced variants
// as the base price. Products without variants return the base price.
func MinimumPrice(p Product) decimal.Decimal {
	if len(p.Variants) == 0 {
		return p.BasePrice
	}
	var min decimal.Decimal
	for i, v := range p.Variants {
		price := p.BasePrice
		if v.Price != nil {
			price = *v.Price
		}
		if i == 0 || price.LessThan(min) {
			min = price
		}
	}
	return min
}

// TotalStock returns the stock a product can sell before any selection.
func TotalStock(p Product) int {
	if len(p.Variants) == 0 {
		return p.BaseStock
	}
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

// Replay builds a resolver and applies selections in a stable order.
func Replay(product Product, selections map[string]string) (*Resolver, error) {
	r, err := New(product)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(selections))
	for name := range selections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := r.Select(name, selections[name]); err != nil {
			return nil, err
		}
	}
	return r, nil
}
