package partition

import "golang.org/x/text/cases"

var foldLabel = cases.Fold()

// normalizeLabel case-folds label for comparison, so partition
// membership checks are stable across the casing a caller or a
// back-end happens to use for the same label.
func normalizeLabel(label string) string {
	return foldLabel.String(label)
}
