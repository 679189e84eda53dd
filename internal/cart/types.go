package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line is one product (and variant) in a session cart.
type Line struct {
	ID        string          `json:"id"`
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

// LineTotal is price times quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the persisted state of a session's cart.
type Cart struct {
	SessionID string    `json:"session_id"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

// View is the cart as returned to clients, with totals.
type View struct {
	SessionID string          `json:"session_id"`
	Lines     []LineView      `json:"lines"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Currency  string          `json:"currency"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// LineView decorates a line with its total.
type LineView struct {
	Line
	LineTotal decimal.Decimal `json:"line_total"`
}

func (c *Cart) findLine(id string) int {
	for i, l := range c.Lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// findMergeTarget matches lines by product and variant label.
func (c *Cart) findMergeTarget(productID, variant string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID && l.Variant == variant {
			return i
		}
	}
	return -1
}

func (c *Cart) view(currency string) *View {
	v := &View{
		SessionID: c.SessionID,
		Lines:     make([]LineView, 0, len(c.Lines)),
		Subtotal:  decimal.Zero,
		Currency:  currency,
	}
	for _, l := range c.Lines {
		total := l.LineTotal()
		v.Lines = append(v.Lines, LineView{Line: l, LineTotal: total})
		v.Subtotal = v.Subtotal.Add(total)
		v.ItemCount += l.Quantity
	}
	if !c.UpdatedAt.IsZero() {
		updated := c.UpdatedAt
		v.UpdatedAt = &updated
	}
	return v
}
