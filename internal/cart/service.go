package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/luxurystrandhaven/storefront-backend/internal/variants"
	"github.com/luxurystrandhaven/storefront-backend/pkg/checkout"
	pkgerrors "github.com/luxurystrandhaven/storefront-backend/pkg/errors"
)

// Service exposes session cart operations.
type Service interface {
	Get(ctx context.Context, sessionID string) (*View, error)
	Add(ctx context.Context, sessionID string, line variants.CartLine) (*View, error)
	UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) (*View, error)
	Remove(ctx context.Context, sessionID, lineID string) (*View, error)
	Clear(ctx context.Context, sessionID string) error
}

// CurrencySource supplies the currency totals are quoted in.
type CurrencySource interface {
	Currency() string
}

type service struct {
	repo     CartRepository
	ttl      time.Duration
	currency CurrencySource
	now      func() time.Time
}

// NewService builds a cart service backed by repo. Carts expire ttl after
// their last write.
func NewService(repo CartRepository, ttl time.Duration, currency CurrencySource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if currency == nil {
		return nil, fmt.Errorf("currency source required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &service{repo: repo, ttl: ttl, currency: currency, now: time.Now}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*View, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return c.view(s.currency.Currency()), nil
}

// Add merges line into the cart. A line for the same product and variant
// label absorbs the quantity, clamped to the latest stock.
func (s *service) Add(ctx context.Context, sessionID string, line variants.CartLine) (*View, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next := Line{
		ProductID: line.ProductID,
		Slug:      line.Slug,
		Name:      line.Name,
		Image:     line.Image,
		VariantID: line.VariantID,
		Variant:   line.Variant,
		Price:     line.Price,
		Quantity:  line.Quantity,
		MaxStock:  line.MaxStock,
		MOQ:       line.MOQ,
	}

	idx := c.findMergeTarget(next.ProductID, next.Variant)
	if idx >= 0 {
		next.ID = c.Lines[idx].ID
		next.Quantity += c.Lines[idx].Quantity
	} else {
		next.ID = uuid.NewString()
	}
	if next.Quantity > next.MaxStock {
		next.Quantity = next.MaxStock
	}
	if err := validateLines(next); err != nil {
		return nil, err
	}

	if idx >= 0 {
		c.Lines[idx] = next
	} else {
		c.Lines = append(c.Lines, next)
	}
	return s.save(ctx, c)
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
func (s *service) UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) (*View, error) {
	if quantity <= 0 {
		return s.Remove(ctx, sessionID, lineID)
	}
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	idx := c.findLine(lineID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	updated := c.Lines[idx]
	updated.Quantity = quantity
	if err := validateLines(updated); err != nil {
		return nil, err
	}
	c.Lines[idx] = updated
	return s.save(ctx, c)
}

func (s *service) Remove(ctx context.Context, sessionID, lineID string) (*View, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	idx := c.findLine(lineID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	return s.save(ctx, c)
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) load(ctx context.Context, sessionID string) (*Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	c, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return c, nil
}

func (s *service) save(ctx context.Context, c *Cart) (*View, error) {
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, c, s.ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return c.view(s.currency.Currency()), nil
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	return nil
}

func validateLines(lines ...Line) error {
	inputs := make([]checkout.QuantityInput, 0, len(lines))
	for _, l := range lines {
		productID, err := uuid.Parse(l.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		inputs = append(inputs, checkout.QuantityInput{
			ProductID:    productID,
			ProductName:  l.Name,
			VariantLabel: l.Variant,
			MOQ:          l.MOQ,
			MaxStock:     l.MaxStock,
			Quantity:     l.Quantity,
		})
	}
	return checkout.ValidateQuantities(inputs)
}
