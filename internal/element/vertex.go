package element

import (
	"fmt"

	"github.com/roach88/graphsession/internal/graphdriver"
	"github.com/roach88/graphsession/internal/graphvalue"
	"github.com/roach88/graphsession/internal/partition"
)

// vertexSnapshot captures a Vertex's committed state the first time
// it is mutated within a transaction, so Rollback can restore it
// without a back-end round-trip.
type vertexSnapshot struct {
	labels        []string
	properties    map[string][]*VertexProperty
	cardinalities map[string]Cardinality
}

// Vertex is the in-memory representation of a graph vertex, tracking
// the dirty/transient/deleted lifecycle and the adjacency needed to
// answer traversals without reloading from the back-end.
type Vertex struct {
	ID          any
	Labels      []string
	MatchLabels []string

	LabelsAdded   []string
	LabelsRemoved []string

	Properties    map[string][]*VertexProperty
	Cardinalities map[string]Cardinality

	OutEdges []*Edge
	InEdges  []*Edge

	Dirty     bool
	Transient bool
	Deleted   bool

	OutEdgesLoaded bool
	InEdgesLoaded  bool

	snapshot *vertexSnapshot
}

// NewTransientVertex builds a Vertex not yet known to the back-end.
func NewTransientVertex(id any, labels []string) *Vertex {
	return &Vertex{
		ID:            id,
		Labels:        copyStrings(labels),
		Properties:    make(map[string][]*VertexProperty),
		Cardinalities: make(map[string]Cardinality),
		Transient:     true,
	}
}

// NewVertex builds a Vertex materialized from a back-end row.
func NewVertex(id any, labels []string) *Vertex {
	return &Vertex{
		ID:            id,
		Labels:        copyStrings(labels),
		MatchLabels:   copyStrings(labels),
		Properties:    make(map[string][]*VertexProperty),
		Cardinalities: make(map[string]Cardinality),
	}
}

func (v *Vertex) takeSnapshot() {
	if v.Transient || v.snapshot != nil {
		return
	}
	props := make(map[string][]*VertexProperty, len(v.Properties))
	for k, vs := range v.Properties {
		props[k] = vs
	}
	cards := make(map[string]Cardinality, len(v.Cardinalities))
	for k, c := range v.Cardinalities {
		cards[k] = c
	}
	v.snapshot = &vertexSnapshot{
		labels:        copyStrings(v.Labels),
		properties:    props,
		cardinalities: cards,
	}
}

// AddLabel adds label to the vertex. Returns ErrLabelRejected if p
// reserves label for partition membership.
func (v *Vertex) AddLabel(label string, p partition.Partition) error {
	if !p.ValidateLabel(label) {
		return fmt.Errorf("%w: %q", ErrLabelRejected, label)
	}
	if containsLabelFold(v.Labels, label) {
		return nil
	}
	v.takeSnapshot()
	v.Labels = append(v.Labels, label)
	if containsLabelFold(v.LabelsRemoved, label) {
		v.LabelsRemoved = removeString(v.LabelsRemoved, label)
		return nil
	}
	v.LabelsAdded = append(v.LabelsAdded, label)
	v.Dirty = true
	return nil
}

// RemoveLabel removes label from the vertex. Returns ErrLabelRejected
// if p reserves label for partition membership.
func (v *Vertex) RemoveLabel(label string, p partition.Partition) error {
	if !p.ValidateLabel(label) {
		return fmt.Errorf("%w: %q", ErrLabelRejected, label)
	}
	if !containsLabelFold(v.Labels, label) {
		return nil
	}
	v.takeSnapshot()
	v.Labels = removeString(v.Labels, label)
	if containsLabelFold(v.LabelsAdded, label) {
		v.LabelsAdded = removeString(v.LabelsAdded, label)
		return nil
	}
	v.LabelsRemoved = append(v.LabelsRemoved, label)
	v.Dirty = true
	return nil
}

// SetProperty stores value under key with the given cardinality,
// allocating newPropertyID for the new VertexProperty entry. It
// returns ErrCardinalityConflict if key already holds values under a
// different cardinality.
func (v *Vertex) SetProperty(cardinality Cardinality, key string, value graphvalue.Value, newPropertyID any) (*VertexProperty, error) {
	if existing, ok := v.Cardinalities[key]; ok && existing != cardinality {
		return nil, fmt.Errorf("%w: key %q has cardinality %s, requested %s", ErrCardinalityConflict, key, existing, cardinality)
	}
	v.takeSnapshot()
	vp := &VertexProperty{ID: newPropertyID, Key: key, Value: value, Owner: v}
	switch cardinality {
	case Single:
		v.Properties[key] = []*VertexProperty{vp}
	case List:
		v.Properties[key] = append(v.Properties[key], vp)
	case Set:
		for _, existing := range v.Properties[key] {
			if graphvalue.Equal(existing.Value, value) {
				v.Dirty = true
				return existing, nil
			}
		}
		v.Properties[key] = append(v.Properties[key], vp)
	default:
		return nil, fmt.Errorf("element: unknown cardinality %v", cardinality)
	}
	v.Cardinalities[key] = cardinality
	v.Dirty = true
	return vp, nil
}

// PropertySingle returns the sole value stored under key. It returns
// ErrNoSuchProperty if key has no value, or ErrMultipleProperties if
// key holds more than one.
func (v *Vertex) PropertySingle(key string) (graphvalue.Value, error) {
	vs := v.Properties[key]
	switch len(vs) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrNoSuchProperty, key)
	case 1:
		return vs[0].Value, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrMultipleProperties, key)
	}
}

// PropertyValues returns every value stored under key, in insertion
// order, or nil if key has no value.
func (v *Vertex) PropertyValues(key string) []graphvalue.Value {
	vs := v.Properties[key]
	if len(vs) == 0 {
		return nil
	}
	out := make([]graphvalue.Value, len(vs))
	for i, p := range vs {
		out[i] = p.Value
	}
	return out
}

// RemoveProperty deletes every value stored under key.
func (v *Vertex) RemoveProperty(key string) {
	if _, ok := v.Properties[key]; !ok {
		return
	}
	v.takeSnapshot()
	delete(v.Properties, key)
	delete(v.Cardinalities, key)
	v.Dirty = true
}

// propertyMap flattens Properties into a plain map suitable as a
// statement parameter: single-cardinality keys map to a scalar,
// list/set-cardinality keys map to a []any of native values.
func (v *Vertex) propertyMap() map[string]any {
	out := make(map[string]any, len(v.Properties))
	for key, vs := range v.Properties {
		if v.Cardinalities[key] == Single {
			out[key] = graphvalue.ToNative(vs[0].Value)
			continue
		}
		values := make(graphvalue.List, len(vs))
		for i, p := range vs {
			values[i] = p.Value
		}
		out[key] = graphvalue.ToNative(values)
	}
	return out
}

// MatchPattern renders a Cypher-style MATCH pattern identifying this
// vertex by idField, e.g. "(alias:`Label` {id: $idParam})". Transient
// vertices (not yet assigned MatchLabels) match on their current
// Labels instead.
func (v *Vertex) MatchPattern(alias, idField, idParam string) string {
	labels := v.MatchLabels
	if v.Transient {
		labels = v.Labels
	}
	return fmt.Sprintf("(%s%s {%s: $%s})", alias, formatLabels(labels), idField, idParam)
}

// InsertStatement builds the CREATE statement for a transient vertex.
func (v *Vertex) InsertStatement(idField string) graphdriver.Statement {
	props := v.propertyMap()
	props[idField] = v.ID
	return graphdriver.Statement{
		Text:   fmt.Sprintf("CREATE (%s $props)", formatLabels(v.Labels)),
		Params: map[string]any{"props": props},
	}
}

// UpdateStatement builds the MERGE statement reconciling label and
// property changes since the vertex was last persisted. The returned
// bool is false (and the Statement is a zero value) if the vertex has
// no pending changes.
func (v *Vertex) UpdateStatement(idField string) (graphdriver.Statement, bool) {
	if !v.Dirty && len(v.LabelsAdded) == 0 && len(v.LabelsRemoved) == 0 {
		return graphdriver.Statement{}, false
	}
	text := fmt.Sprintf("MERGE (n%s {%s: $id})", formatLabels(v.MatchLabels), idField)
	params := map[string]any{"id": v.ID}
	if v.Dirty {
		text += " ON MATCH SET n = $props"
		props := v.propertyMap()
		props[idField] = v.ID
		params["props"] = props
	}
	if len(v.LabelsAdded) > 0 {
		text += " SET n" + formatLabels(v.LabelsAdded)
	}
	if len(v.LabelsRemoved) > 0 {
		text += " REMOVE n" + formatLabels(v.LabelsRemoved)
	}
	return graphdriver.Statement{Text: text, Params: params}, true
}

// DeleteStatement builds the DETACH DELETE statement removing this
// vertex and every incident edge.
func (v *Vertex) DeleteStatement(idField string) graphdriver.Statement {
	return graphdriver.Statement{
		Text:   fmt.Sprintf("MATCH (n%s {%s: $id}) DETACH DELETE n", formatLabels(v.MatchLabels), idField),
		Params: map[string]any{"id": v.ID},
	}
}

// FinalizeCommit clears pending-change tracking after a successful
// commit, syncing MatchLabels with the newly persisted Labels.
func (v *Vertex) FinalizeCommit() {
	v.MatchLabels = copyStrings(v.Labels)
	v.LabelsAdded = nil
	v.LabelsRemoved = nil
	v.Dirty = false
	v.Transient = false
	v.snapshot = nil
}

// Rollback restores the vertex to the state captured by its last
// snapshot, discarding every change made within the transaction.
func (v *Vertex) Rollback() {
	if v.snapshot == nil {
		v.LabelsAdded = nil
		v.LabelsRemoved = nil
		v.Dirty = false
		return
	}
	v.Labels = v.snapshot.labels
	v.Properties = v.snapshot.properties
	v.Cardinalities = v.snapshot.cardinalities
	v.LabelsAdded = nil
	v.LabelsRemoved = nil
	v.Dirty = false
	v.snapshot = nil
}

// AddOutEdge registers e as an outgoing edge of v.
func (v *Vertex) AddOutEdge(e *Edge) {
	v.OutEdges = append(v.OutEdges, e)
}

// AddInEdge registers e as an incoming edge of v.
func (v *Vertex) AddInEdge(e *Edge) {
	v.InEdges = append(v.InEdges, e)
}

// RemoveOutEdge deregisters e as an outgoing edge of v.
func (v *Vertex) RemoveOutEdge(e *Edge) {
	v.OutEdges = removeEdge(v.OutEdges, e)
}

// RemoveInEdge deregisters e as an incoming edge of v.
func (v *Vertex) RemoveInEdge(e *Edge) {
	v.InEdges = removeEdge(v.InEdges, e)
}

func removeEdge(edges []*Edge, target *Edge) []*Edge {
	out := make([]*Edge, 0, len(edges))
	for _, e := range edges {
		if e != target {
			out = append(out, e)
		}
	}
	return out
}
