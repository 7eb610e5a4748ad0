package util

import "strings"

// MatchesQuery reports whether any field contains query, ignoring case.
// An empty query matches everything.
func MatchesQuery(query string, fields ...string) bool {
	q := normalize(query)
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// SplitList turns a comma separated string into trimmed, non-empty items.
func SplitList(s string) []string {
	items := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// JoinList is the inverse of SplitList.
func JoinList(items []string) string {
	clean := make([]string, 0, len(items))
	for _, it := range items {
		if t := strings.TrimSpace(it); t != "" {
			clean = append(clean, t)
		}
	}
	return strings.Join(clean, ", ")
}
