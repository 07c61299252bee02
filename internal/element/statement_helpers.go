package element

import "strings"

// formatLabels renders labels as a backtick-quoted, colon-joined
// Cypher-style label suffix, e.g. []string{"Person","Admin"} ->
// ":`Person`:`Admin`". An empty slice renders as "".
func formatLabels(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = "`" + l + "`"
	}
	return ":" + strings.Join(parts, ":")
}

func removeString(set []string, s string) []string {
	out := make([]string, 0, len(set))
	for _, v := range set {
		if !containsLabelFold([]string{v}, s) {
			out = append(out, v)
		}
	}
	return out
}

func copyStrings(set []string) []string {
	out := make([]string, len(set))
	copy(out, set)
	return out
}
