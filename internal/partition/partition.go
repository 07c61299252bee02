package partition

import (
	"fmt"
	"sort"
	"strings"
)

// Partition restricts the set of vertices a Session may read and
// constrains which labels a vertex inside the partition may carry.
type Partition interface {
	// ValidateLabel reports whether label may be added to or removed
	// from a vertex. Implementations that reserve labels for
	// partition membership reject those labels here.
	ValidateLabel(label string) bool
	// ContainsVertex reports whether a vertex carrying labels
	// belongs to this partition.
	ContainsVertex(labels []string) bool
	// MatchPatternLabels returns the labels that can be inlined into
	// a MATCH pattern, e.g. "(n:Label1:Label2)". An implementation
	// that cannot express its restriction this way returns nil.
	MatchPatternLabels() []string
	// MatchPredicate returns a WHERE-clause fragment further
	// restricting matches of the vertex bound to alias, or "" if no
	// predicate is needed beyond MatchPatternLabels.
	MatchPredicate(alias string) string
}

type unrestricted struct{}

// Unrestricted returns a Partition that accepts every label and every
// vertex.
func Unrestricted() Partition { return unrestricted{} }

func (unrestricted) ValidateLabel(string) bool    { return true }
func (unrestricted) ContainsVertex([]string) bool { return true }
func (unrestricted) MatchPatternLabels() []string { return nil }
func (unrestricted) MatchPredicate(string) string { return "" }

type allLabels struct {
	labels map[string]struct{}
	sorted []string
}

// AllLabels returns a Partition containing every vertex whose label
// set is a superset of labels. Those labels may not be added to or
// removed from a vertex directly; they are implied by partition
// membership.
func AllLabels(labels ...string) Partition {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[normalizeLabel(l)] = struct{}{}
	}
	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)
	return &allLabels{labels: set, sorted: sorted}
}

func (p *allLabels) ValidateLabel(label string) bool {
	_, reserved := p.labels[normalizeLabel(label)]
	return !reserved
}

func (p *allLabels) ContainsVertex(labels []string) bool {
	present := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		present[normalizeLabel(l)] = struct{}{}
	}
	for l := range p.labels {
		if _, ok := present[l]; !ok {
			return false
		}
	}
	return true
}

func (p *allLabels) MatchPatternLabels() []string { return p.sorted }

func (p *allLabels) MatchPredicate(string) string { return "" }

type anyLabel struct {
	labels map[string]struct{}
	sorted []string
}

// AnyLabel returns a Partition containing every vertex whose label
// set intersects labels.
func AnyLabel(labels ...string) Partition {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[normalizeLabel(l)] = struct{}{}
	}
	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)
	return &anyLabel{labels: set, sorted: sorted}
}

// ValidateLabel always allows an any-label partition's membership
// labels to be added to or removed from a vertex: unlike AllLabels,
// where every membership label is mandatory on every member, any one
// of these labels is sufficient for membership, so gaining or losing
// a single one never contradicts the partition.
func (p *anyLabel) ValidateLabel(string) bool { return true }

func (p *anyLabel) ContainsVertex(labels []string) bool {
	for _, l := range labels {
		if _, ok := p.labels[normalizeLabel(l)]; ok {
			return true
		}
	}
	return false
}

// MatchPatternLabels returns the sole label as a pattern label when
// the partition has exactly one, since "(n:Label)" already expresses
// the restriction; with more than one label the restriction needs a
// disjunctive predicate instead, so no pattern labels are returned.
func (p *anyLabel) MatchPatternLabels() []string {
	if len(p.sorted) == 1 {
		return p.sorted
	}
	return nil
}

// MatchPredicate returns "(alias:L1 OR alias:L2 OR ...)" when the
// partition has more than one label, otherwise "" (MatchPatternLabels
// already expresses a single-label restriction).
func (p *anyLabel) MatchPredicate(alias string) string {
	if len(p.sorted) <= 1 {
		return ""
	}
	parts := make([]string, len(p.sorted))
	for i, l := range p.sorted {
		parts[i] = fmt.Sprintf("%s:`%s`", alias, l)
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}
