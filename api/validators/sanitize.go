package validators

import "strings"

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// SanitizeSelections trims option names and values and drops empty entries.
func SanitizeSelections(selections map[string]string, maxLen int) map[string]string {
	out := make(map[string]string, len(selections))
	for name, value := range selections {
		name = SanitizeString(name, maxLen)
		value = SanitizeString(value, maxLen)
		if name == "" || value == "" {
			continue
		}
		out[name] = value
	}
	return out
}
