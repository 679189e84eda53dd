package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luxurystrandhaven/storefront-backend/internal/variants"
	"github.com/luxurystrandhaven/storefront-backend/pkg/cache"
	"github.com/luxurystrandhaven/storefront-backend/pkg/config"
	pkgerrors "github.com/luxurystrandhaven/storefront-backend/pkg/errors"
	"github.com/luxurystrandhaven/storefront-backend/pkg/logger"
)

// Service exposes the product page read paths.
type Service interface {
	GetProductView(ctx context.Context, ref string) (*ProductView, error)
	Resolve(ctx context.Context, ref string, selections map[string]string) (*variants.Snapshot, error)
	BuildCartLine(ctx context.Context, ref string, selections map[string]string, quantity int) (*variants.CartLine, error)
	Related(ctx context.Context, ref string) ([]RelatedCard, error)
	InvalidateProduct(ctx context.Context, ref string) error
}

// CurrencySource supplies the store currency for product views.
type CurrencySource interface {
	Currency() string
}

// ResolutionRecorder counts resolver outcomes.
type ResolutionRecorder interface {
	ObserveResolution(state string)
}

type service struct {
	repo     ProductRepository
	cache    *cache.Cache
	cfg      config.CatalogConfig
	currency CurrencySource
	logg     *logger.Logger
	recorder ResolutionRecorder
}

// NewService constructs a catalog service. A nil cache disables memoization;
// a nil recorder disables resolution metrics.
func NewService(repo ProductRepository, c *cache.Cache, cfg config.CatalogConfig, currency CurrencySource, logg *logger.Logger, recorder ResolutionRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if currency == nil {
		return nil, fmt.Errorf("currency source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		cache:    c,
		cfg:      cfg,
		currency: currency,
		logg:     logg,
		recorder: recorder,
	}, nil
}

// GetProductView returns the product page payload with related products.
func (s *service) GetProductView(ctx context.Context, ref string) (*ProductView, error) {
	view, err := s.loadView(ctx, ref)
	if err != nil {
		return nil, err
	}
	related, err := s.related(ctx, view)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog.related_failed")
		related = []RelatedCard{}
	}
	view.Related = related
	return view, nil
}

// Resolve replays selections against a fresh resolver and returns its snapshot.
func (s *service) Resolve(ctx context.Context, ref string, selections map[string]string) (*variants.Snapshot, error) {
	view, err := s.loadView(ctx, ref)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithSelection(ctx, selections)
	r, err := variants.Replay(view.Product, selections)
	if err != nil {
		s.logg.SelectionRejected(ctx, err)
		return nil, err
	}
	snap := r.Snapshot()
	s.observe(snap.State)
	return &snap, nil
}

// BuildCartLine resolves selections and produces the add-to-cart payload.
func (s *service) BuildCartLine(ctx context.Context, ref string, selections map[string]string, quantity int) (*variants.CartLine, error) {
	view, err := s.loadView(ctx, ref)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithSelection(ctx, selections)
	r, err := variants.Replay(view.Product, selections)
	if err != nil {
		s.logg.SelectionRejected(ctx, err)
		return nil, err
	}
	s.observe(r.State())
	line, err := r.BuildCartLine(quantity)
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// Related returns the related product cards for ref.
func (s *service) Related(ctx context.Context, ref string) ([]RelatedCard, error) {
	view, err := s.loadView(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.related(ctx, view)
}

// InvalidateProduct drops the cached view for ref. Related cards expire on
// their own TTL.
func (s *service) InvalidateProduct(ctx context.Context, ref string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx, productKey(ref)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "invalidate product cache")
	}
	return nil
}

func (s *service) loadView(ctx context.Context, ref string) (*ProductView, error) {
	if ref == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product reference is required")
	}
	ctx = s.logg.WithProductRef(ctx, ref)

	opts := cache.Options{Key: productKey(ref), TTL: s.cfg.ProductTTL}
	view, err := cache.Query(ctx, s.cache, opts, func(ctx context.Context) (ProductView, error) {
		return s.fetchView(ctx, ref)
	})
	if err != nil {
		return nil, err
	}

	// A cached entry must describe the product that was asked for.
	if !matchesRef(view.Product, ref) {
		s.logg.Warn(s.logg.WithField(ctx, "loaded_id", view.Product.ID), "catalog.stale_product_entry")
		if s.cache != nil {
			_ = s.cache.Invalidate(ctx, opts.Key)
		}
		view, err = s.fetchView(ctx, ref)
		if err != nil {
			return nil, err
		}
		if !matchesRef(view.Product, ref) {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "loaded product does not match reference")
		}
	}
	return &view, nil
}

func (s *service) fetchView(ctx context.Context, ref string) (ProductView, error) {
	row, err := s.repo.FindBySlugOrID(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductView{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return ProductView{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	product, err := Normalize(*row, s.cfg.PlaceholderImage)
	if err != nil {
		s.logg.CatalogDefect(ctx, row.ID.String(), err)
		return ProductView{}, err
	}
	r, err := variants.New(product)
	if err != nil {
		s.logg.CatalogDefect(ctx, row.ID.String(), err)
		return ProductView{}, err
	}
	product = r.Product()

	view := ProductView{
		Product:          product,
		Description:      deref(row.Description),
		Category:         s.cfg.DefaultCategory,
		Images:           imageViews(*row, s.cfg.PlaceholderImage),
		Groups:           groupViews(product),
		Currency:         s.currency.Currency(),
		ReviewCount:      row.ReviewCount,
		PreorderShipping: row.Metadata.PreorderShipping,
		Selection:        r.Snapshot(),
		Related:          []RelatedCard{},
	}
	if row.CategoryID != nil {
		view.CategoryID = row.CategoryID.String()
	}
	if row.Category != nil && row.Category.Name != "" {
		view.Category = row.Category.Name
	}
	if row.Rating != nil {
		view.Rating = *row.Rating
	}
	return view, nil
}

func (s *service) related(ctx context.Context, view *ProductView) ([]RelatedCard, error) {
	if view.CategoryID == "" {
		return []RelatedCard{}, nil
	}
	opts := cache.Options{Key: cache.Key("related", view.CategoryID, view.Product.ID), TTL: s.cfg.RelatedTTL}
	return cache.Query(ctx, s.cache, opts, func(ctx context.Context) ([]RelatedCard, error) {
		categoryID, err := parseUUID(view.CategoryID)
		if err != nil {
			return nil, err
		}
		productID, err := parseUUID(view.Product.ID)
		if err != nil {
			return nil, err
		}
		rows, err := s.repo.ListRelated(ctx, categoryID, productID, s.cfg.RelatedLimit)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list related products")
		}
		cards := make([]RelatedCard, 0, len(rows))
		for _, row := range rows {
			cards = append(cards, relatedCard(row, s.cfg.PlaceholderImage))
		}
		return cards, nil
	})
}

func (s *service) observe(state variants.State) {
	if s.recorder != nil {
		s.recorder.ObserveResolution(string(state))
	}
}

func productKey(ref string) string {
	return cache.Key("product", canonicalRef(ref))
}

func matchesRef(p variants.Product, ref string) bool {
	return p.Slug == ref || p.ID == canonicalRef(ref)
}

// canonicalRef lowercases and unbraces UUID-shaped refs; slugs pass through.
func canonicalRef(ref string) string {
	if id, err := uuid.Parse(ref); err == nil {
		return id.String()
	}
	return ref
}
