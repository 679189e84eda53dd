package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luxurystrandhaven/storefront-backend/pkg/db/models"
	"github.com/luxurystrandhaven/storefront-backend/pkg/enums"
	pkgerrors "github.com/luxurystrandhaven/storefront-backend/pkg/errors"
)

// ProductRepository defines the catalog reads the storefront needs.
type ProductRepository interface {
	FindBySlugOrID(ctx context.Context, ref string) (*models.Product, error)
	ListRelated(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]models.Product, error)
}

// Repository reads active products with their variants, images and category.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindBySlugOrID loads an active product. A UUID-shaped ref matches either
// the id or the slug; anything else matches the slug only.
func (r *Repository) FindBySlugOrID(ctx context.Context, ref string) (*models.Product, error) {
	query := r.withAssociations(ctx).Where("status = ?", enums.ProductStatusActive)
	if id, err := uuid.Parse(ref); err == nil {
		query = query.Where("(id = ? OR slug = ?)", id, ref)
	} else {
		query = query.Where("slug = ?", ref)
	}

	var product models.Product
	if err := query.First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListRelated returns up to limit active products from the same category,
// excluding excludeID.
func (r *Repository) ListRelated(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 4
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants", orderVariants).
		Preload("Images", orderImages).
		Where("category_id = ? AND id <> ? AND status = ?", categoryID, excludeID, enums.ProductStatusActive).
		Order("featured DESC, created_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct inserts a product row with its associations.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *Repository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Variants", orderVariants).
		Preload("Images", orderImages).
		Preload("Category")
}

func orderVariants(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, name ASC")
}

func orderImages(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func parseUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalid identifier")
	}
	return id, nil
}
