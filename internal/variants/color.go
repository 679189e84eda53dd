package variants

import (
	"regexp"
	"strings"
)

// DefaultColorHex is used when a color name has no known swatch.
const DefaultColorHex = "#d1d5db"

var hexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var colorNameToHex = map[string]string{
	"red":      "#ef4444",
	"blue":     "#3b82f6",
	"green":    "#22c55e",
	"yellow":   "#eab308",
	"orange":   "#f97316",
	"purple":   "#a855f7",
	"pink":     "#ec4899",
	"black":    "#111827",
	"white":    "#ffffff",
	"gray":     "#6b7280",
	"grey":     "#6b7280",
	"brown":    "#92400e",
	"navy":     "#1e3a5f",
	"gold":     "#d4a017",
	"silver":   "#c0c0c0",
	"beige":    "#f5f5dc",
	"maroon":   "#800000",
	"teal":     "#14b8a6",
	"coral":    "#ff7f50",
	"ivory":    "#fffff0",
	"cream":    "#fffdd0",
	"burgundy": "#800020",
	"lavender": "#e6e6fa",
	"cyan":     "#06b6d4",
	"magenta":  "#d946ef",
	"olive":    "#84cc16",
	"peach":    "#ffcba4",
	"mint":     "#98f5e1",
	"rose":     "#f43f5e",
	"wine":     "#722f37",
	"charcoal": "#374151",
	"sky":      "#0ea5e9",
}

// ColorToken is a decoded "Name|#hex" color value.
type ColorToken struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// ParseColorToken splits a color token. A token without a valid hex part
// falls back to the swatch table.
func ParseColorToken(token string) ColorToken {
	name, hex, found := strings.Cut(token, "|")
	name = strings.TrimSpace(name)
	hex = strings.TrimSpace(hex)
	if !found || !hexPattern.MatchString(hex) {
		return ColorToken{Name: name, Hex: ColorNameToHex(name)}
	}
	return ColorToken{Name: name, Hex: strings.ToLower(hex)}
}

// ColorNameToHex looks up a swatch for a color name. The first word that
// matches the table wins so "Jet Black" and "Black Ombre" both resolve.
func ColorNameToHex(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if hex, ok := colorNameToHex[lower]; ok {
		return hex
	}
	for _, word := range strings.Fields(lower) {
		if hex, ok := colorNameToHex[word]; ok {
			return hex
		}
	}
	return DefaultColorHex
}

// HexForVariant prefers the hex stored on the variant row.
func HexForVariant(v Variant, colorValue string) string {
	if hexPattern.MatchString(v.ColorHex) {
		return strings.ToLower(v.ColorHex)
	}
	return ParseColorToken(colorValue).Hex
}

// DisplayValue strips the hex suffix from color tokens.
func DisplayValue(kind OptionKind, value string) string {
	if kind != KindColor {
		return value
	}
	return ParseColorToken(value).Name
}
