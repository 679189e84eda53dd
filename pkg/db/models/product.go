package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luxurystrandhaven/storefront-backend/pkg/enums"
)

// Product is a storefront listing. Option definitions live in Metadata.
type Product struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID     *uuid.UUID          `gorm:"column:category_id;type:uuid"`
	Slug           string              `gorm:"column:slug;not null;uniqueIndex"`
	Name           string              `gorm:"column:name;not null"`
	Description    *string             `gorm:"column:description"`
	SKU            *string             `gorm:"column:sku"`
	Price          decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	CompareAtPrice *decimal.Decimal    `gorm:"column:compare_at_price;type:numeric(12,2)"`
	Quantity       int                 `gorm:"column:quantity;not null;default:0"`
	MOQ            int                 `gorm:"column:moq;not null;default:1"`
	Status         enums.ProductStatus `gorm:"column:status;not null;default:'active'"`
	Featured       bool                `gorm:"column:featured;not null;default:false"`
	Rating         *float64            `gorm:"column:rating;type:numeric(3,2)"`
	ReviewCount    int                 `gorm:"column:review_count;not null;default:0"`
	Metadata       ProductMetadata     `gorm:"column:metadata;type:jsonb;serializer:json"`
	Category       *Category           `gorm:"foreignKey:CategoryID"`
	Variants       []ProductVariant    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images         []ProductImage      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductMetadata is the free-form JSON the admin writes alongside a product.
type ProductMetadata struct {
	// ProductOptions is keyed by built-in option keys (color, length, ...).
	ProductOptions     map[string]OptionDefinition `json:"product_options,omitempty"`
	CustomOptionGroups []CustomOptionGroup         `json:"custom_option_groups,omitempty"`
	// OptionNames orders the variant-generating labels; position i maps to option{i+1}.
	OptionNames      []string `json:"option_names,omitempty"`
	PreorderShipping *string  `json:"preorder_shipping,omitempty"`
}

type OptionDefinition struct {
	Values            []string `json:"values"`
	GeneratesVariants *bool    `json:"generatesVariants,omitempty"`
}

type CustomOptionGroup struct {
	Name              string   `json:"name"`
	Values            []string `json:"values"`
	GeneratesVariants *bool    `json:"generatesVariants,omitempty"`
}
