package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxurystrandhaven/storefront-backend/internal/variants"
	"github.com/luxurystrandhaven/storefront-backend/pkg/db/models"
	pkgerrors "github.com/luxurystrandhaven/storefront-backend/pkg/errors"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func groupNames(groups []variants.OptionGroup) []string {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names
}

func TestNormalizeOrdersKnownGroupsThenCustom(t *testing.T) {
	row := models.Product{
		ID:    uuid.New(),
		Slug:  "bob-wig",
		Name:  "Bob Wig",
		Price: decimal.NewFromInt(900),
		Metadata: models.ProductMetadata{
			ProductOptions: map[string]models.OptionDefinition{
				"length":  {Values: []string{"10\"", "12\""}},
				"color":   {Values: []string{"Natural Black|#1b1b1b", " 1B "}},
				"texture": {Values: []string{"Silky"}},
			},
			CustomOptionGroups: []models.CustomOptionGroup{
				{Name: "Cap Style", Values: []string{"Glueless"}},
				{Name: "Length", Values: []string{"ignored"}},
			},
		},
	}

	product, err := Normalize(row, "/placeholder.jpg")
	require.NoError(t, err)

	assert.Equal(t, []string{"Color", "Length", "texture", "Cap Style"}, groupNames(product.OptionGroups))
	assert.Equal(t, variants.KindColor, product.OptionGroups[0].Kind)
	assert.Equal(t, []string{"Natural Black|#1b1b1b", "1B"}, product.OptionGroups[0].Values)
	assert.Equal(t, []string{"10\"", "12\""}, product.OptionGroups[1].Values)
	assert.Equal(t, "/placeholder.jpg", product.Image)
	assert.Equal(t, 1, product.MinimumOrderQuantity)
	for _, g := range product.OptionGroups {
		assert.False(t, g.GeneratesVariants, g.Name)
	}
}

func TestNormalizeMapsOptionColumnsByDeclaredNames(t *testing.T) {
	row := models.Product{
		ID:    uuid.New(),
		Slug:  "body-wave",
		Name:  "Body Wave Bundle",
		Price: decimal.NewFromInt(50),
		Metadata: models.ProductMetadata{
			OptionNames: []string{"Length", "Color"},
			ProductOptions: map[string]models.OptionDefinition{
				"color":  {Values: []string{"Black", "Brown"}},
				"length": {Values: []string{"16\"", "18\""}},
			},
		},
		Variants: []models.ProductVariant{
			{ID: uuid.New(), Name: "16 Black", Option1: strPtr("16\""), Option2: strPtr("Black"), Stock: intPtr(2), Quantity: 9},
			{ID: uuid.New(), Name: "18 Brown", Option1: strPtr("18\""), Option2: strPtr("Brown"), Quantity: 4,
				Metadata: models.VariantMetadata{ColorHex: "#6b4226"}},
		},
	}

	product, err := Normalize(row, "")
	require.NoError(t, err)

	require.Equal(t, []string{"Color", "Length"}, groupNames(product.OptionGroups))
	assert.True(t, product.OptionGroups[0].GeneratesVariants)
	assert.True(t, product.OptionGroups[1].GeneratesVariants)

	require.Len(t, product.Variants, 2)
	assert.Equal(t, []string{"Black", "16\""}, product.Variants[0].OptionValues)
	assert.Equal(t, 2, product.Variants[0].Stock, "stock column wins over quantity")
	assert.Equal(t, 4, product.Variants[1].Stock, "quantity is read when stock is null")
	assert.Equal(t, "#6b4226", product.Variants[1].ColorHex)

	r, err := variants.New(product)
	require.NoError(t, err)
	require.NoError(t, r.Select("Length", "18\""))
	require.NoError(t, r.Select("Color", "Brown"))
	v, ok := r.ResolvedVariant()
	require.True(t, ok)
	assert.Equal(t, "18 Brown", v.Name)
}

func TestNormalizeOptionNamesOverrideGroupFlags(t *testing.T) {
	row := models.Product{
		ID:    uuid.New(),
		Price: decimal.NewFromInt(10),
		Metadata: models.ProductMetadata{
			OptionNames: []string{"Length"},
			ProductOptions: map[string]models.OptionDefinition{
				"length":  {Values: []string{"12\""}, GeneratesVariants: boolPtr(false)},
				"density": {Values: []string{"180%"}, GeneratesVariants: boolPtr(true)},
			},
		},
		Variants: []models.ProductVariant{{ID: uuid.New(), Option1: strPtr("12\""), Quantity: 1}},
	}

	product, err := Normalize(row, "")
	require.NoError(t, err)
	require.Equal(t, []string{"Length", "Density"}, groupNames(product.OptionGroups))
	assert.True(t, product.OptionGroups[0].GeneratesVariants)
	assert.False(t, product.OptionGroups[1].GeneratesVariants)
}

func TestNormalizeFlagsDriveTupleWithoutOptionNames(t *testing.T) {
	row := models.Product{
		ID:    uuid.New(),
		Price: decimal.NewFromInt(10),
		Metadata: models.ProductMetadata{
			CustomOptionGroups: []models.CustomOptionGroup{
				{Name: "Curl", Values: []string{"Loose", "Tight"}, GeneratesVariants: boolPtr(true)},
			},
		},
		Variants: []models.ProductVariant{
			{ID: uuid.New(), Name: "Loose", Option1: strPtr("Loose"), Quantity: 3},
			{ID: uuid.New(), Name: "Tight", Option1: strPtr("Tight"), Quantity: 0},
		},
	}

	product, err := Normalize(row, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Loose"}, product.Variants[0].OptionValues)
	assert.Equal(t, []string{"Tight"}, product.Variants[1].OptionValues)
}

func TestNormalizeSynthesizesUndeclaredGroups(t *testing.T) {
	row := models.Product{
		ID:    uuid.New(),
		Price: decimal.NewFromInt(20),
		Metadata: models.ProductMetadata{
			OptionNames: []string{"Size"},
		},
		Variants: []models.ProductVariant{
			{ID: uuid.New(), Option1: strPtr("M"), Quantity: 1},
			{ID: uuid.New(), Option1: strPtr("S"), Quantity: 1},
			{ID: uuid.New(), Option1: strPtr("M"), Quantity: 1, Name: "dup"},
		},
	}

	product, err := Normalize(row, "")
	require.NoError(t, err)
	require.Len(t, product.OptionGroups, 1)
	assert.Equal(t, "Size", product.OptionGroups[0].Name)
	assert.Equal(t, []string{"M", "S"}, product.OptionGroups[0].Values)

	_, err = variants.New(product)
	require.ErrorIs(t, err, variants.ErrInvalidProductData, "duplicate tuples are rejected by the resolver")
}

func TestNormalizeLegacyVariantsGetNameGroup(t *testing.T) {
	row := models.Product{
		ID:    uuid.New(),
		Price: decimal.NewFromInt(30),
		Variants: []models.ProductVariant{
			{ID: uuid.New(), Name: "Small", Quantity: 2},
			{ID: uuid.New(), Name: "Large", Quantity: 1, Price: decimalPtr("35")},
		},
	}

	product, err := Normalize(row, "")
	require.NoError(t, err)
	require.Len(t, product.OptionGroups, 1)
	assert.Equal(t, legacyGroupName, product.OptionGroups[0].Name)
	assert.Equal(t, []string{"Small", "Large"}, product.OptionGroups[0].Values)

	r, err := variants.New(product)
	require.NoError(t, err)
	require.NoError(t, r.Select(legacyGroupName, "Large"))
	line, err := r.BuildCartLine(1)
	require.NoError(t, err)
	assert.Equal(t, "Large", line.Variant)
	assert.True(t, decimal.NewFromInt(35).Equal(line.Price))
}

func TestNormalizeRejectsDuplicateOptionNames(t *testing.T) {
	row := models.Product{
		ID:       uuid.New(),
		Metadata: models.ProductMetadata{OptionNames: []string{"Color", "Color"}},
	}
	_, err := Normalize(row, "")
	require.ErrorIs(t, err, variants.ErrInvalidProductData)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnavailable))
}

func TestNormalizeRejectsMoreOptionNamesThanColumns(t *testing.T) {
	row := models.Product{
		ID:       uuid.New(),
		Price:    decimal.NewFromInt(40),
		Metadata: models.ProductMetadata{OptionNames: []string{"A", "B", "C", "D"}},
		Variants: []models.ProductVariant{
			{ID: uuid.New(), Option1: strPtr("a1"), Option2: strPtr("b1"), Option3: strPtr("c1"), Quantity: 1},
			{ID: uuid.New(), Option1: strPtr("a2"), Option2: strPtr("b2"), Option3: strPtr("c2"), Quantity: 1},
		},
	}
	_, err := Normalize(row, "")
	require.ErrorIs(t, err, variants.ErrInvalidProductData)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnavailable))
}

func TestNormalizedVariantOutsideDeclaredValuesIsRejected(t *testing.T) {
	row := models.Product{
		ID:    uuid.New(),
		Price: decimal.NewFromInt(40),
		Metadata: models.ProductMetadata{
			OptionNames: []string{"Length"},
			ProductOptions: map[string]models.OptionDefinition{
				"length": {Values: []string{"16\"", "18\""}},
			},
		},
		Variants: []models.ProductVariant{
			{ID: uuid.New(), Option1: strPtr("16\""), Quantity: 1},
			{ID: uuid.New(), Option1: strPtr("22\""), Quantity: 1},
		},
	}
	product, err := Normalize(row, "")
	require.NoError(t, err)

	_, err = variants.New(product)
	require.ErrorIs(t, err, variants.ErrInvalidProductData)
}

func TestNormalizeSortsImagesByPosition(t *testing.T) {
	row := models.Product{
		ID: uuid.New(),
		Images: []models.ProductImage{
			{URL: "/b.jpg", Position: 2},
			{URL: "/a.jpg", Position: 0},
		},
		MOQ: 3,
	}
	product, err := Normalize(row, "/placeholder.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/a.jpg", product.Image)
	assert.Equal(t, 3, product.MinimumOrderQuantity)

	views := imageViews(row, "/placeholder.jpg")
	require.Len(t, views, 2)
	assert.Equal(t, "/b.jpg", views[1].URL)
}

func decimalPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}
