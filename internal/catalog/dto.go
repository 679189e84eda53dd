package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/luxurystrandhaven/storefront-backend/internal/variants"
	"github.com/luxurystrandhaven/storefront-backend/pkg/db/models"
)

// relatedMaxStockFallback caps the quantity picker on related cards when a
// product reports no stock.
const relatedMaxStockFallback = 50

// ProductView is the product page payload.
type ProductView struct {
	Product          variants.Product  `json:"product"`
	Description      string            `json:"description,omitempty"`
	Category         string            `json:"category"`
	CategoryID       string            `json:"category_id,omitempty"`
	Images           []ImageView       `json:"images"`
	Groups           []GroupView       `json:"option_groups"`
	Currency         string            `json:"currency"`
	Rating           float64           `json:"rating"`
	ReviewCount      int               `json:"review_count"`
	PreorderShipping *string           `json:"preorder_shipping,omitempty"`
	Selection        variants.Snapshot `json:"selection"`
	Related          []RelatedCard     `json:"related"`
}

// ImageView is one gallery image.
type ImageView struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text,omitempty"`
}

// GroupView is an option group decorated for rendering.
type GroupView struct {
	Name              string              `json:"name"`
	Kind              variants.OptionKind `json:"kind"`
	GeneratesVariants bool                `json:"generates_variants"`
	Values            []ValueView         `json:"values"`
}

// ValueView is a selectable option value. Hex is set for color groups only.
type ValueView struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Hex   string `json:"hex,omitempty"`
}

// RelatedCard is the compact listing shown under "You may also like".
type RelatedCard struct {
	ID              string           `json:"id"`
	Slug            string           `json:"slug"`
	Name            string           `json:"name"`
	Price           decimal.Decimal  `json:"price"`
	Image           string           `json:"image"`
	Rating          float64          `json:"rating"`
	InStock         bool             `json:"in_stock"`
	MaxStock        int              `json:"max_stock"`
	MOQ             int              `json:"moq"`
	HasVariants     bool             `json:"has_variants"`
	MinVariantPrice *decimal.Decimal `json:"min_variant_price,omitempty"`
}

func imageViews(row models.Product, placeholder string) []ImageView {
	sorted := sortedImages(row.Images)
	if len(sorted) == 0 {
		return []ImageView{{URL: placeholder}}
	}
	out := make([]ImageView, 0, len(sorted))
	for _, img := range sorted {
		out = append(out, ImageView{URL: img.URL, AltText: deref(img.AltText)})
	}
	return out
}

func groupViews(product variants.Product) []GroupView {
	colorPos := -1
	pos := 0
	for _, g := range product.OptionGroups {
		if !g.GeneratesVariants {
			continue
		}
		if g.Kind == variants.KindColor {
			colorPos = pos
		}
		pos++
	}

	out := make([]GroupView, 0, len(product.OptionGroups))
	for _, g := range product.OptionGroups {
		view := GroupView{
			Name:              g.Name,
			Kind:              g.Kind,
			GeneratesVariants: g.GeneratesVariants,
			Values:            make([]ValueView, 0, len(g.Values)),
		}
		for _, value := range g.Values {
			vv := ValueView{Value: value, Label: variants.DisplayValue(g.Kind, value)}
			if g.Kind == variants.KindColor {
				vv.Hex = swatchHex(product, colorPos, value)
			}
			view.Values = append(view.Values, vv)
		}
		out = append(out, view)
	}
	return out
}

// swatchHex prefers a hex stored on a variant carrying value.
func swatchHex(product variants.Product, colorPos int, value string) string {
	if colorPos >= 0 {
		for _, v := range product.Variants {
			if colorPos < len(v.OptionValues) && v.OptionValues[colorPos] == value && v.ColorHex != "" {
				return variants.HexForVariant(v, value)
			}
		}
	}
	return variants.ParseColorToken(value).Hex
}

func relatedCard(row models.Product, placeholder string) RelatedCard {
	card := RelatedCard{
		ID:          row.ID.String(),
		Slug:        row.Slug,
		Name:        row.Name,
		Price:       row.Price,
		Image:       firstImage(row.Images, placeholder),
		MOQ:         moqOrDefault(row.MOQ),
		HasVariants: len(row.Variants) > 0,
	}
	if row.Rating != nil {
		card.Rating = *row.Rating
	}

	stock := row.Quantity
	if card.HasVariants {
		stock = 0
		minPrice := row.Price
		for i, v := range row.Variants {
			stock += variantStock(v)
			price := row.Price
			if v.Price != nil {
				price = *v.Price
			}
			if i == 0 || price.LessThan(minPrice) {
				minPrice = price
			}
		}
		card.MinVariantPrice = &minPrice
	}
	card.InStock = stock > 0
	card.MaxStock = stock
	if card.MaxStock <= 0 {
		card.MaxStock = relatedMaxStockFallback
	}
	return card
}
