package element

import "golang.org/x/text/cases"

var foldLabel = cases.Fold()

// normalizeLabel case-folds a label for comparison against a
// partition's reserved-label set and a vertex's existing Labels, so
// AddLabel/RemoveLabel treat casing variants of the same label as
// identical the same way partition.Partition does.
func normalizeLabel(label string) string {
	return foldLabel.String(label)
}

// containsLabelFold reports whether set contains label, comparing
// case-folded forms.
func containsLabelFold(set []string, label string) bool {
	folded := normalizeLabel(label)
	for _, l := range set {
		if normalizeLabel(l) == folded {
			return true
		}
	}
	return false
}
