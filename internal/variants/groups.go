package variants

// KnownOptionKeys is the canonical order of the built-in option keys.
var KnownOptionKeys = []string{"color", "lace_type", "lace_length", "length", "wig_size", "density"}

var knownOptionLabels = map[string]string{
	"color":       "Color",
	"lace_type":   "Lace Type",
	"lace_length": "Lace Length",
	"length":      "Length",
	"wig_size":    "Wig Size",
	"density":     "Density",
}

// LabelForKey maps a built-in option key to its display label. Keys outside
// the table are used verbatim.
func LabelForKey(key string) string {
	if label, ok := knownOptionLabels[key]; ok {
		return label
	}
	return key
}

// IsKnownKey reports whether key is one of the built-in option keys.
func IsKnownKey(key string) bool {
	_, ok := knownOptionLabels[key]
	return ok
}

// KindForKey returns the render kind for a built-in option key.
func KindForKey(key string) OptionKind {
	if key == "color" {
		return KindColor
	}
	return KindPlain
}

// MergeGroups concatenates known and custom groups, dropping any group whose
// name is already registered. Earlier groups win.
func MergeGroups(known, custom []OptionGroup) []OptionGroup {
	out := make([]OptionGroup, 0, len(known)+len(custom))
	seen := make(map[string]struct{}, len(known)+len(custom))
	for _, list := range [][]OptionGroup{known, custom} {
		for _, g := range list {
			if g.Name == "" {
				continue
			}
			if _, dup := seen[g.Name]; dup {
				continue
			}
			seen[g.Name] = struct{}{}
			if g.Kind == "" {
				g.Kind = KindPlain
			}
			out = append(out, g)
		}
	}
	return out
}
