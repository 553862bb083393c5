package reward

import "strings"

var DefaultClaimLabels = []string{"open lucky pot", "claim", "open pot"}

// IsClaimLabel guards against clicking unrelated buttons sharing the claim locator.
func IsClaimLabel(label string, allow []string) bool {
	label = strings.ToLower(strings.Join(strings.Fields(label), " "))
	if label == "" {
		return false
	}
	for _, phrase := range allow {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase != "" && strings.Contains(label, phrase) {
			return true
		}
	}
	return false
}
