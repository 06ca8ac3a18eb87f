// Package fields holds the string helpers every aggregation shares.
package fields

import "strings"

// SplitMulti splits a multi-valued cell on any run of ',', ';' or '/'.
// Pieces are trimmed and empty pieces dropped; order and duplicates are kept.
func SplitMulti(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.FieldsFunc(value, isSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func isSeparator(r rune) bool {
	return r == ',' || r == ';' || r == '/'
}

// DiseaseMatch reports whether two disease labels name the same disease.
// Labels compare trimmed and lower-cased; an empty side never matches.
func DiseaseMatch(a, b string) bool {
	a = DiseaseKey(a)
	b = DiseaseKey(b)
	if a == "" || b == "" {
		return false
	}
	return a == b
}

// DiseaseKey is the comparison form used by DiseaseMatch.
func DiseaseKey(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
