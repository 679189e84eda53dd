package settings

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/luxurystrandhaven/storefront-backend/pkg/db/models"
)

// Well-known setting keys read by the storefront.
const (
	KeyStoreName             = "store_name"
	KeyCurrency              = "currency"
	KeyCurrencySymbol        = "currency_symbol"
	KeyFreeShippingThreshold = "free_shipping_threshold"
	KeyPreorderEnabled       = "preorder_enabled"
)

var defaults = map[string]string{
	KeyStoreName:       "Luxury Strand Haven",
	KeyCurrency:        "GHS",
	KeyCurrencySymbol:  "GH₵",
	KeyPreorderEnabled: "false",
}

// Reader loads the persisted settings rows.
type Reader interface {
	ListSettings(ctx context.Context) ([]models.SiteSetting, error)
}

// Settings is an immutable snapshot of site configuration.
type Settings struct {
	values map[string]string
}

// New builds a snapshot from values layered over the built-in defaults.
func New(values map[string]string) Settings {
	merged := make(map[string]string, len(defaults)+len(values))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range values {
		merged[strings.TrimSpace(k)] = v
	}
	return Settings{values: merged}
}

// Load reads every row from repo and applies overrides on top.
func Load(ctx context.Context, repo Reader, overrides map[string]string) (Settings, error) {
	if repo == nil {
		return Settings{}, fmt.Errorf("settings repository required")
	}
	rows, err := repo.ListSettings(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("loading site settings: %w", err)
	}
	values := make(map[string]string, len(rows)+len(overrides))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	for k, v := range overrides {
		values[k] = v
	}
	return New(values), nil
}

// Get returns the value for key or fallback when unset.
func (s Settings) Get(key, fallback string) string {
	if v, ok := s.values[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Bool parses key as a boolean, returning fallback when unset or malformed.
func (s Settings) Bool(key string, fallback bool) bool {
	v, ok := s.values[key]
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

// WithOverride returns a copy with key set to value.
func (s Settings) WithOverride(key, value string) Settings {
	next := make(map[string]string, len(s.values)+1)
	for k, v := range s.values {
		next[k] = v
	}
	next[key] = value
	return Settings{values: next}
}

// All returns a copy of every setting.
func (s Settings) All() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Keys returns the setting keys in sorted order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Currency is the ISO code prices are quoted in.
func (s Settings) Currency() string {
	return s.Get(KeyCurrency, defaults[KeyCurrency])
}

// StoreName is the storefront display name.
func (s Settings) StoreName() string {
	return s.Get(KeyStoreName, defaults[KeyStoreName])
}
