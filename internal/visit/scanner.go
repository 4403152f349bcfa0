package visit

import (
	"regexp"
	"strings"
)

var labelRe = regexp.MustCompile(`(?m)^[ \t]*([^:\n]{2,60}?)[ \t]*:`)

// DeclaredKeys scans the notes block for "label:" occurrences and maps
// each label onto its canonical key. The returned slice preserves first
// appearance order with duplicates removed; labels that match no rule
// are ignored.
func DeclaredKeys(notes string) []FieldKey {
	var keys []FieldKey
	seen := make(map[FieldKey]bool)

	for _, m := range labelRe.FindAllStringSubmatch(notes, -1) {
		label := lowerTurkish(strings.TrimSpace(m[1]))
		key, ok := matchLabel(label)
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

// lowerTurkish lowercases with the dotted/dotless pairs mapped the way
// Turkish spelling works: İ becomes i, I becomes ı. strings.ToLower
// alone sends I to i, which breaks label keywords like "alındı".
func lowerTurkish(s string) string {
	s = strings.ReplaceAll(s, "İ", "i")
	s = strings.ReplaceAll(s, "I", "ı")
	return strings.ToLower(s)
}

func matchLabel(label string) (FieldKey, bool) {
	for _, rule := range keyRules {
		if !containsAll(label, rule.all) {
			continue
		}
		if len(rule.any) > 0 && !containsAny(label, rule.any) {
			continue
		}
		return rule.key, true
	}
	return "", false
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
