package element

import (
	"fmt"
	"strings"

	"github.com/roach88/graphsession/internal/graphdriver"
	"github.com/roach88/graphsession/internal/partition"
)

// Direction selects which side of an edge a traversal follows.
type Direction int

const (
	// Out follows edges leaving the vertex.
	Out Direction = iota
	// In follows edges entering the vertex.
	In
	// Both follows edges in either direction.
	Both
)

// arrow renders the relationship arrow for d around the [r...] token.
func (d Direction) arrow(rel string) string {
	switch d {
	case Out:
		return "-" + rel + "->"
	case In:
		return "<-" + rel + "-"
	default:
		return "-" + rel + "-"
	}
}

// BuildIncidentEdgesStatement builds the MATCH statement fetching the
// edges incident to v in direction d, optionally restricted to
// labels, excluding any edge id already present in excludeIDs (edges
// already resident in the session's in-memory registry).
//
// With no label filter the relationship token is untyped ("[r]");
// with exactly one label it is inlined ("[r:`Label`]"); with two or
// more, a type(r) IN [...] predicate is added to WHERE alongside the
// NOT IN exclusion, mirroring the original implementation's
// processEdgesWhereClause.
func BuildIncidentEdgesStatement(v *Vertex, d Direction, labels []string, excludeIDs []any, idField string, p partition.Partition) graphdriver.Statement {
	nAlias := "n"
	mAlias := "m"
	rel := "[r]"
	if len(labels) == 1 {
		rel = fmt.Sprintf("[r:`%s`]", labels[0])
	}

	nPattern := fmt.Sprintf("(%s%s {%s: $nid})", nAlias, formatLabels(matchLabelsFor(v)), idField)

	predLabels := p.MatchPatternLabels()
	mLabelSuffix := formatLabels(predLabels)
	mPattern := fmt.Sprintf("(%s%s)", mAlias, mLabelSuffix)

	text := fmt.Sprintf("MATCH %s%s%s", nPattern, d.arrow(rel), mPattern)

	params := map[string]any{"nid": v.ID}
	var where []string
	if len(labels) > 1 {
		quoted := make([]string, len(labels))
		for i, l := range labels {
			quoted[i] = "`" + l + "`"
		}
		where = append(where, fmt.Sprintf("type(r) IN [%s]", strings.Join(quoted, ", ")))
	}
	if len(excludeIDs) > 0 {
		where = append(where, fmt.Sprintf("NOT r.%s IN $excludeIds", idField))
		params["excludeIds"] = excludeIDs
	}
	if pred := p.MatchPredicate(mAlias); pred != "" {
		where = append(where, pred)
	}
	if len(where) > 0 {
		text += " WHERE " + strings.Join(where, " AND ")
	}

	return graphdriver.Statement{Text: text, Params: params}
}

func matchLabelsFor(v *Vertex) []string {
	if v.Transient {
		return v.Labels
	}
	return v.MatchLabels
}
