package analysis

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

var obstructionKeywords = []string{"obstruction", "obstructed", "blocked", "blockage", "pathway", "walkway", "aisle"}

// IsObstruction reports whether a scenario name is obstruction-related.
func IsObstruction(scenario string) bool {
	s := strings.ToLower(scenario)
	for _, k := range obstructionKeywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// IsPPE matches PPE and "overall" compliance scenarios.
func IsPPE(scenario string) bool {
	s := strings.ToLower(scenario)
	return strings.Contains(s, "ppe") || strings.Contains(s, "overall")
}

// IsPersonNearHit matches person near-hit scenarios.
func IsPersonNearHit(scenario string) bool {
	s := strings.ToLower(scenario)
	return strings.Contains(s, "person") && strings.Contains(s, "near")
}

// Truncate clips a chart label to n runes, marking the cut with "…".
func Truncate(label string, n int) string {
	if n <= 0 || utf8.RuneCountInString(label) <= n {
		return label
	}
	r := []rune(label)
	return string(r[:n]) + "…"
}

// HazardColor returns a stable HSL colour for a hazard name. Known hazards
// get brand colours; anything else hashes to a hue.
func HazardColor(name string) string {
	s := strings.ToLower(name)
	switch {
	case strings.Contains(s, "obstructed") && strings.Contains(s, "vehicle"),
		strings.Contains(s, "vehicle") && strings.Contains(s, "near"):
		return "hsl(32, 100%, 27%)"
	case strings.Contains(s, "obstructed") && strings.Contains(s, "pedestrian"):
		return "hsl(267, 45%, 60%)"
	case IsPPE(s):
		return "hsl(167, 78%, 40%)"
	case IsPersonNearHit(s):
		return "hsl(142, 69%, 58%)"
	}
	// The shift wraps to 32 bits; the add and subtract do not.
	var hash int64
	for _, c := range utf16.Encode([]rune(name)) {
		shifted := int64(int32(uint32(hash) << 5))
		hash = int64(c) + (shifted - hash)
	}
	hue := hash % 360
	if hue < 0 {
		hue = -hue
	}
	return fmt.Sprintf("hsl(%d, 65%%, 55%%)", hue)
}
