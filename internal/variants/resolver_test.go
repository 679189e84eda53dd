package variants

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/luxurystrandhaven/storefront-backend/pkg/errors"
)

func price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func colorLengthProduct() Product {
	return Product{
		ID:                   "prod-1",
		Slug:                 "body-wave-wig",
		Name:                 "Body Wave Wig",
		BasePrice:            decimal.RequireFromString("45"),
		MinimumOrderQuantity: 2,
		OptionGroups: []OptionGroup{
			{Name: "Color", Kind: KindColor, GeneratesVariants: true, Values: []string{"Red", "Blue"}},
			{Name: "Length", Kind: KindPlain, GeneratesVariants: true, Values: []string{"10in", "12in"}},
		},
		Variants: []Variant{
			{ID: "v-red-10", Name: "Red 10in", OptionValues: []string{"Red", "10in"}, Price: price("50"), Stock: 3},
			{ID: "v-blue-12", Name: "Blue 12in", OptionValues: []string{"Blue", "12in"}, Price: price("60"), Stock: 0},
		},
	}
}

func mustResolver(t *testing.T, p Product) *Resolver {
	t.Helper()
	r, err := New(p)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return r
}

func mustSelect(t *testing.T, r *Resolver, group, value string) {
	t.Helper()
	if err := r.Select(group, value); err != nil {
		t.Fatalf("Select(%q, %q) returned error: %v", group, value, err)
	}
}

func TestSimpleProductIsCompleteImmediately(t *testing.T) {
	r := mustResolver(t, Product{ID: "simple", BasePrice: decimal.RequireFromString("20"), BaseStock: 7})

	if !r.IsSelectionComplete() {
		t.Fatalf("expected complete selection for product without groups")
	}
	if r.NeedsVariantSelection() {
		t.Fatalf("simple product should never need a variant")
	}
	if got := r.EffectiveStock(); got != 7 {
		t.Fatalf("expected base stock 7, got %d", got)
	}
	if got := r.EffectivePrice(); !got.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("expected base price, got %s", got)
	}
	if r.State() != StateEmpty {
		t.Fatalf("expected empty state, got %s", r.State())
	}
}

func TestGroupsWithoutValuesDoNotBlockCompletion(t *testing.T) {
	r := mustResolver(t, Product{
		ID:        "p",
		BasePrice: decimal.RequireFromString("10"),
		OptionGroups: []OptionGroup{
			{Name: "Density", Values: nil},
		},
	})
	if !r.IsSelectionComplete() {
		t.Fatalf("group with no values should not require a choice")
	}
}

func TestResolvesMatchingVariant(t *testing.T) {
	r := mustResolver(t, colorLengthProduct())

	if !r.NeedsVariantSelection() {
		t.Fatalf("expected variant selection to be required before choosing")
	}

	mustSelect(t, r, "Color", "Red")
	if r.State() != StatePartial {
		t.Fatalf("expected partial state, got %s", r.State())
	}
	if !r.NeedsVariantSelection() {
		t.Fatalf("expected variant selection to be required with one group chosen")
	}

	mustSelect(t, r, "Length", "10in")
	v, ok := r.ResolvedVariant()
	if !ok || v.ID != "v-red-10" {
		t.Fatalf("expected v-red-10 resolved, got %+v (ok=%v)", v, ok)
	}
	if got := r.EffectivePrice(); !got.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("expected price 50, got %s", got)
	}
	if got := r.EffectiveStock(); got != 3 {
		t.Fatalf("expected stock 3, got %d", got)
	}
	if r.NeedsVariantSelection() {
		t.Fatalf("resolved selection should not need a variant")
	}
	if r.State() != StateResolved {
		t.Fatalf("expected resolved state, got %s", r.State())
	}
}

func TestUnmatchedTupleIsUnresolvable(t *testing.T) {
	r := mustResolver(t, colorLengthProduct())
	mustSelect(t, r, "Color", "Red")
	mustSelect(t, r, "Length", "12in")

	if _, ok := r.ResolvedVariant(); ok {
		t.Fatalf("expected no variant for Red/12in")
	}
	if !r.NeedsVariantSelection() {
		t.Fatalf("unresolvable selection must still need a variant")
	}
	if r.State() != StateUnresolvable {
		t.Fatalf("expected unresolvable state, got %s", r.State())
	}
	if _, err := r.BuildCartLine(2); !errors.Is(err, ErrIncompleteSelection) {
		t.Fatalf("expected incomplete selection, got %v", err)
	}
}

func TestAggregatesBeforeSelection(t *testing.T) {
	r := mustResolver(t, colorLengthProduct())

	if got := r.EffectiveStock(); got != 3 {
		t.Fatalf("expected aggregate stock 3, got %d", got)
	}
	if got := r.MinimumAcrossVariants(); !got.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("expected from-price 50, got %s", got)
	}
	if got := r.EffectivePrice(); !got.Equal(decimal.RequireFromString("45")) {
		t.Fatalf("expected base price before resolution, got %s", got)
	}
}

func TestMinimumFallsBackToBasePriceForUnpricedVariants(t *testing.T) {
	p := colorLengthProduct()
	p.BasePrice = decimal.RequireFromString("30")
	p.Variants[1].Price = nil

	r := mustResolver(t, p)
	if got := r.MinimumAcrossVariants(); !got.Equal(decimal.RequireFromString("30")) {
		t.Fatalf("expected unpriced variant to count as base price 30, got %s", got)
	}

	mustSelect(t, r, "Color", "Blue")
	mustSelect(t, r, "Length", "12in")
	if got := r.EffectivePrice(); !got.Equal(decimal.RequireFromString("30")) {
		t.Fatalf("expected resolved unpriced variant to use base price, got %s", got)
	}
}

func TestSelectIsIdempotent(t *testing.T) {
	once := mustResolver(t, colorLengthProduct())
	mustSelect(t, once, "Color", "Red")
	mustSelect(t, once, "Length", "10in")

	twice := mustResolver(t, colorLengthProduct())
	mustSelect(t, twice, "Color", "Red")
	mustSelect(t, twice, "Length", "10in")
	mustSelect(t, twice, "Length", "10in")

	a, _ := once.ResolvedVariant()
	b, _ := twice.ResolvedVariant()
	if a.ID != b.ID || once.State() != twice.State() || len(once.Chosen()) != len(twice.Chosen()) {
		t.Fatalf("repeated select changed state: %+v vs %+v", once.Snapshot(), twice.Snapshot())
	}
}

func TestSelectIsOrderIndependent(t *testing.T) {
	ab := mustResolver(t, colorLengthProduct())
	mustSelect(t, ab, "Color", "Blue")
	mustSelect(t, ab, "Length", "12in")

	ba := mustResolver(t, colorLengthProduct())
	mustSelect(t, ba, "Length", "12in")
	mustSelect(t, ba, "Color", "Blue")

	a, okA := ab.ResolvedVariant()
	b, okB := ba.ResolvedVariant()
	if !okA || !okB || a.ID != b.ID {
		t.Fatalf("expected same variant regardless of order, got %q and %q", a.ID, b.ID)
	}
}

func TestChangingResolvedGroupDropsStaleMatch(t *testing.T) {
	p := colorLengthProduct()
	p.OptionGroups = append(p.OptionGroups, OptionGroup{Name: "Wig Size", Kind: KindPlain, GeneratesVariants: true, Values: []string{"M", "L"}})
	p.Variants[0].OptionValues = []string{"Red", "10in", "M"}
	p.Variants[1].OptionValues = []string{"Blue", "12in", "M"}

	r := mustResolver(t, p)
	mustSelect(t, r, "Color", "Red")
	mustSelect(t, r, "Length", "10in")
	mustSelect(t, r, "Wig Size", "M")
	if r.State() != StateResolved {
		t.Fatalf("expected resolved, got %s", r.State())
	}

	mustSelect(t, r, "Color", "Blue")
	if _, ok := r.ResolvedVariant(); ok {
		t.Fatalf("stale variant survived a change to Color")
	}
	if r.State() != StateUnresolvable {
		t.Fatalf("expected unresolvable after change, got %s", r.State())
	}

	mustSelect(t, r, "Length", "12in")
	v, ok := r.ResolvedVariant()
	if !ok || v.ID != "v-blue-12" {
		t.Fatalf("expected re-resolution to v-blue-12, got %+v", v)
	}
}

func TestAdvisoryGroupsNeverChangeResolution(t *testing.T) {
	p := colorLengthProduct()
	p.OptionGroups = append(p.OptionGroups, OptionGroup{Name: "Lace Type", Kind: KindPlain, Values: []string{"HD", "Transparent"}})

	r := mustResolver(t, p)
	mustSelect(t, r, "Color", "Red")
	mustSelect(t, r, "Length", "10in")
	if r.IsSelectionComplete() {
		t.Fatalf("advisory group with values must be chosen for completeness")
	}

	mustSelect(t, r, "Lace Type", "HD")
	v, ok := r.ResolvedVariant()
	if !ok || v.ID != "v-red-10" {
		t.Fatalf("advisory choice changed resolution: %+v", v)
	}
	if !r.IsSelectionComplete() {
		t.Fatalf("expected complete selection")
	}
	if got := r.VariantOptionNames(); len(got) != 2 {
		t.Fatalf("advisory group leaked into variant names: %v", got)
	}
}

func TestSelectRejectsUnknownGroupAndValue(t *testing.T) {
	r := mustResolver(t, colorLengthProduct())

	err := r.Select("Texture", "Kinky")
	if !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected unknown option, got %v", err)
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}

	err = r.Select("Color", "Green")
	if !errors.Is(err, ErrInvalidOptionValue) {
		t.Fatalf("expected invalid option value, got %v", err)
	}
	if len(r.Chosen()) != 0 {
		t.Fatalf("failed selects must not mutate state, got %v", r.Chosen())
	}
}

func TestBuildCartLineQuantityBounds(t *testing.T) {
	r := mustResolver(t, colorLengthProduct())
	mustSelect(t, r, "Color", "Red")
	mustSelect(t, r, "Length", "10in")

	_, err := r.BuildCartLine(0)
	if !errors.Is(err, ErrQuantityOutOfRange) {
		t.Fatalf("expected quantity out of range for 0, got %v", err)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict code, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["min"] != 2 || details["max"] != 3 {
		t.Fatalf("unexpected details %v", typed.Details())
	}

	if _, err := r.BuildCartLine(4); !errors.Is(err, ErrQuantityOutOfRange) {
		t.Fatalf("expected quantity above stock to fail, got %v", err)
	}

	line, err := r.BuildCartLine(2)
	if err != nil {
		t.Fatalf("BuildCartLine(2) returned error: %v", err)
	}
	if line.Quantity != 2 || line.MaxStock != 3 || line.MOQ != 2 {
		t.Fatalf("unexpected line %+v", line)
	}
	if line.Variant != "Red / 10in" {
		t.Fatalf("unexpected variant label %q", line.Variant)
	}
	if line.VariantID != "v-red-10" || line.ProductID != "prod-1" {
		t.Fatalf("unexpected identity on line %+v", line)
	}
	if !line.Price.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("unexpected price %s", line.Price)
	}

	if len(r.Chosen()) != 2 || r.State() != StateResolved {
		t.Fatalf("BuildCartLine must not mutate the selection")
	}
}

func TestBuildCartLineSimpleProduct(t *testing.T) {
	r := mustResolver(t, Product{ID: "simple", Name: "Edge Control", BasePrice: decimal.RequireFromString("12.5"), BaseStock: 4})

	line, err := r.BuildCartLine(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.Variant != "" || line.VariantID != "" {
		t.Fatalf("simple product should have no variant label, got %+v", line)
	}

	empty := mustResolver(t, Product{ID: "empty", BasePrice: decimal.RequireFromString("1")})
	if _, err := empty.BuildCartLine(1); !errors.Is(err, ErrQuantityOutOfRange) {
		t.Fatalf("zero stock should reject any quantity, got %v", err)
	}
}

func TestColorLabelUsesDisplayName(t *testing.T) {
	p := Product{
		ID:        "p",
		BasePrice: decimal.RequireFromString("80"),
		OptionGroups: []OptionGroup{
			{Name: "Color", Kind: KindColor, GeneratesVariants: true, Values: []string{"Natural Black|#1b1b1b"}},
		},
		Variants: []Variant{{ID: "v1", OptionValues: []string{"Natural Black|#1b1b1b"}, Stock: 5}},
	}
	r := mustResolver(t, p)
	mustSelect(t, r, "Color", "Natural Black|#1b1b1b")

	line, err := r.BuildCartLine(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.Variant != "Natural Black" {
		t.Fatalf("expected display name label, got %q", line.Variant)
	}
}

func TestNewRejectsInvalidProducts(t *testing.T) {
	tests := map[string]func(*Product){
		"arity mismatch": func(p *Product) {
			p.Variants[0].OptionValues = []string{"Red"}
		},
		"duplicate tuple": func(p *Product) {
			p.Variants[1].OptionValues = []string{"Red", "10in"}
		},
		"variants without variant groups": func(p *Product) {
			for i := range p.OptionGroups {
				p.OptionGroups[i].GeneratesVariants = false
			}
		},
		"negative base price": func(p *Product) {
			p.BasePrice = decimal.RequireFromString("-1")
		},
		"negative variant stock": func(p *Product) {
			p.Variants[0].Stock = -2
		},
		"variant group without values": func(p *Product) {
			p.OptionGroups[1].Values = nil
		},
		"variant value outside its group": func(p *Product) {
			p.Variants[1].OptionValues = []string{"Blue", "14in"}
		},
		"empty variant value": func(p *Product) {
			p.Variants[0].OptionValues = []string{"Red", ""}
		},
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			p := colorLengthProduct()
			mutate(&p)
			_, err := New(p)
			if !errors.Is(err, ErrInvalidProductData) {
				t.Fatalf("expected invalid product data, got %v", err)
			}
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnavailable {
				t.Fatalf("expected unavailable code, got %v", err)
			}
		})
	}
}

func TestNewDropsDuplicateGroupNames(t *testing.T) {
	p := colorLengthProduct()
	p.OptionGroups = append(p.OptionGroups, OptionGroup{Name: "Color", Values: []string{"Green"}})

	r := mustResolver(t, p)
	if got := len(r.Groups()); got != 2 {
		t.Fatalf("expected duplicate group dropped, got %d groups", got)
	}
	if err := r.Select("Color", "Green"); !errors.Is(err, ErrInvalidOptionValue) {
		t.Fatalf("later duplicate group must not contribute values, got %v", err)
	}
}

func TestResetClearsSelection(t *testing.T) {
	r := mustResolver(t, colorLengthProduct())
	mustSelect(t, r, "Color", "Red")
	mustSelect(t, r, "Length", "10in")

	r.Reset()
	if r.State() != StateEmpty || !r.NeedsVariantSelection() || len(r.Chosen()) != 0 {
		t.Fatalf("reset left state behind: %+v", r.Snapshot())
	}
}

func TestReplayAppliesSelections(t *testing.T) {
	r, err := Replay(colorLengthProduct(), map[string]string{"Length": "10in", "Color": "Red"})
	if err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}
	snap := r.Snapshot()
	if snap.State != StateResolved || snap.Variant == nil || snap.Variant.ID != "v-red-10" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.StockLabel != "Only 3 left" {
		t.Fatalf("unexpected stock label %q", snap.StockLabel)
	}

	if _, err := Replay(colorLengthProduct(), map[string]string{"Color": "Teal"}); !errors.Is(err, ErrInvalidOptionValue) {
		t.Fatalf("expected replay to surface invalid value, got %v", err)
	}
}

func TestDiscountPercent(t *testing.T) {
	p := Product{ID: "p", BasePrice: decimal.RequireFromString("75"), CompareAtPrice: price("100"), BaseStock: 20}
	r := mustResolver(t, p)
	if got := r.DiscountPercent(); got != 25 {
		t.Fatalf("expected 25%% discount, got %d", got)
	}

	p.CompareAtPrice = price("60")
	r = mustResolver(t, p)
	if got := r.DiscountPercent(); got != 0 {
		t.Fatalf("compare-at below price should not discount, got %d", got)
	}
	if got := r.Snapshot().StockLabel; got != "In Stock" {
		t.Fatalf("unexpected stock label %q", got)
	}
}
