package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/luxurystrandhaven/storefront-backend/internal/variants"
	"github.com/luxurystrandhaven/storefront-backend/pkg/db/models"
	pkgerrors "github.com/luxurystrandhaven/storefront-backend/pkg/errors"
)

// legacyGroupName labels the single synthesized group for products whose
// variants predate option metadata.
const legacyGroupName = "Variant"

// Normalize converts a product row and its associations into the resolver's
// product shape. Images must already be loaded; placeholder is used when the
// product has none.
func Normalize(row models.Product, placeholder string) (variants.Product, error) {
	optionNames, err := declaredOptionNames(row.Metadata.OptionNames)
	if err != nil {
		return variants.Product{}, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "product unavailable")
	}

	groups := declaredGroups(row.Metadata, optionNames)
	groups = appendSynthesizedGroups(groups, optionNames, row.Variants)

	generating := make([]string, 0, len(groups))
	for _, g := range groups {
		if g.GeneratesVariants {
			generating = append(generating, g.Name)
		}
	}

	legacy := len(row.Variants) > 0 && len(generating) == 0
	if legacy {
		groups = append(groups, variants.OptionGroup{
			Name:              legacyGroupName,
			Kind:              variants.KindPlain,
			GeneratesVariants: true,
			Values:            distinctVariantNames(row.Variants),
		})
		generating = []string{legacyGroupName}
	}

	product := variants.Product{
		ID:                   row.ID.String(),
		Slug:                 row.Slug,
		Name:                 row.Name,
		Image:                firstImage(row.Images, placeholder),
		BasePrice:            row.Price,
		CompareAtPrice:       row.CompareAtPrice,
		BaseStock:            row.Quantity,
		MinimumOrderQuantity: moqOrDefault(row.MOQ),
		OptionGroups:         groups,
		Variants:             make([]variants.Variant, 0, len(row.Variants)),
	}

	for _, v := range row.Variants {
		var tuple []string
		if legacy {
			tuple = []string{v.Name}
		} else {
			tuple = variantTuple(v, generating, optionNames)
		}
		product.Variants = append(product.Variants, variants.Variant{
			ID:           v.ID.String(),
			Name:         v.Name,
			SKU:          deref(v.SKU),
			OptionValues: tuple,
			Price:        v.Price,
			Stock:        variantStock(v),
			ColorHex:     v.Metadata.ColorHex,
		})
	}
	return product, nil
}

func declaredOptionNames(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: option name %q declared twice", variants.ErrInvalidProductData, name)
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if len(out) > models.MaxOptions {
		return nil, fmt.Errorf("%w: %d option names declared, variants carry at most %d", variants.ErrInvalidProductData, len(out), models.MaxOptions)
	}
	return out, nil
}

// declaredGroups orders built-in keys canonically, then unrecognised keys
// alphabetically, then custom groups as stored.
func declaredGroups(meta models.ProductMetadata, optionNames []string) []variants.OptionGroup {
	generates := func(name string, flag *bool) bool {
		if len(optionNames) > 0 {
			return contains(optionNames, name)
		}
		return flag != nil && *flag
	}

	known := make([]variants.OptionGroup, 0, len(meta.ProductOptions))
	for _, key := range variants.KnownOptionKeys {
		def, ok := meta.ProductOptions[key]
		if !ok {
			continue
		}
		label := variants.LabelForKey(key)
		known = append(known, variants.OptionGroup{
			Name:              label,
			Kind:              variants.KindForKey(key),
			GeneratesVariants: generates(label, def.GeneratesVariants),
			Values:            cleanValues(def.Values),
		})
	}

	var extraKeys []string
	for key := range meta.ProductOptions {
		if !variants.IsKnownKey(key) {
			extraKeys = append(extraKeys, key)
		}
	}
	sort.Strings(extraKeys)
	for _, key := range extraKeys {
		def := meta.ProductOptions[key]
		known = append(known, variants.OptionGroup{
			Name:              key,
			Kind:              variants.KindPlain,
			GeneratesVariants: generates(key, def.GeneratesVariants),
			Values:            cleanValues(def.Values),
		})
	}

	custom := make([]variants.OptionGroup, 0, len(meta.CustomOptionGroups))
	for _, g := range meta.CustomOptionGroups {
		name := strings.TrimSpace(g.Name)
		custom = append(custom, variants.OptionGroup{
			Name:              name,
			Kind:              variants.KindPlain,
			GeneratesVariants: generates(name, g.GeneratesVariants),
			Values:            cleanValues(g.Values),
		})
	}
	return variants.MergeGroups(known, custom)
}

// appendSynthesizedGroups adds a plain group for each declared option name
// that no group defines, using the values the variants carry.
func appendSynthesizedGroups(groups []variants.OptionGroup, optionNames []string, rows []models.ProductVariant) []variants.OptionGroup {
	for pos, name := range optionNames {
		if hasGroup(groups, name) {
			continue
		}
		var values []string
		for _, v := range rows {
			value := v.OptionAt(pos)
			if value != "" && !contains(values, value) {
				values = append(values, value)
			}
		}
		groups = append(groups, variants.OptionGroup{
			Name:              name,
			Kind:              variants.KindPlain,
			GeneratesVariants: true,
			Values:            values,
		})
	}
	return groups
}

// variantTuple reads the variant's positional columns in generating-group
// order. Positions come from optionNames when declared, else from the
// group's rank among generating groups.
func variantTuple(v models.ProductVariant, generating, optionNames []string) []string {
	tuple := make([]string, len(generating))
	for i, name := range generating {
		pos := i
		if len(optionNames) > 0 {
			pos = indexOf(optionNames, name)
		}
		tuple[i] = v.OptionAt(pos)
	}
	return tuple
}

func variantStock(v models.ProductVariant) int {
	if v.Stock != nil {
		return *v.Stock
	}
	return v.Quantity
}

func distinctVariantNames(rows []models.ProductVariant) []string {
	var names []string
	for _, v := range rows {
		if v.Name != "" && !contains(names, v.Name) {
			names = append(names, v.Name)
		}
	}
	return names
}

// sortedImages returns the images ordered by position.
func sortedImages(images []models.ProductImage) []models.ProductImage {
	out := make([]models.ProductImage, len(images))
	copy(out, images)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func firstImage(images []models.ProductImage, placeholder string) string {
	sorted := sortedImages(images)
	if len(sorted) == 0 {
		return placeholder
	}
	return sorted[0].URL
}

func moqOrDefault(moq int) int {
	if moq < 1 {
		return 1
	}
	return moq
}

func cleanValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" && !contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func hasGroup(groups []variants.OptionGroup, name string) bool {
	for _, g := range groups {
		if g.Name == name {
			return true
		}
	}
	return false
}

func contains(list []string, value string) bool {
	return indexOf(list, value) >= 0
}

func indexOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return -1
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
