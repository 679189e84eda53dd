package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductVariant is a SKU row. Option1..Option3 are positional against the
// parent's metadata.option_names.
type ProductVariant struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID        `gorm:"column:product_id;type:uuid;not null;index"`
	Name      string           `gorm:"column:name;not null;default:''"`
	SKU       *string          `gorm:"column:sku"`
	Price     *decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	// Stock is the newer column; Quantity is read when Stock is null.
	Stock     *int            `gorm:"column:stock"`
	Quantity  int             `gorm:"column:quantity;not null;default:0"`
	Option1   *string         `gorm:"column:option1"`
	Option2   *string         `gorm:"column:option2"`
	Option3   *string         `gorm:"column:option3"`
	Metadata  VariantMetadata `gorm:"column:metadata;type:jsonb;serializer:json"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductVariant) TableName() string { return "product_variants" }

func (v *ProductVariant) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// OptionAt returns option{pos+1}, or "" when the column is null or absent.
func (v ProductVariant) OptionAt(pos int) string {
	opts := [MaxOptions]*string{v.Option1, v.Option2, v.Option3}
	if pos < 0 || pos >= len(opts) || opts[pos] == nil {
		return ""
	}
	return *opts[pos]
}

// MaxOptions is the number of positional option columns on a variant row.
const MaxOptions = 3

type VariantMetadata struct {
	ColorHex string `json:"color_hex,omitempty"`
}
