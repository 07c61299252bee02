package element

import (
	"fmt"

	"github.com/roach88/graphsession/internal/graphdriver"
	"github.com/roach88/graphsession/internal/graphvalue"
)

// Edge is the in-memory representation of a directed, labeled graph
// edge with a single set of single-cardinality properties.
type Edge struct {
	ID    any
	Label string
	Out   *Vertex
	In    *Vertex

	Properties map[string]graphvalue.Value

	Dirty     bool
	Transient bool
	Deleted   bool

	original map[string]graphvalue.Value
}

// NewTransientEdge builds an Edge not yet known to the back-end,
// registering it in both endpoints' adjacency sets.
func NewTransientEdge(id any, label string, out, in *Vertex) *Edge {
	e := &Edge{ID: id, Label: label, Out: out, In: in, Properties: make(map[string]graphvalue.Value), Transient: true}
	out.AddOutEdge(e)
	in.AddInEdge(e)
	return e
}

// NewEdge builds an Edge materialized from a back-end row,
// registering it in both endpoints' adjacency sets.
func NewEdge(id any, label string, out, in *Vertex, props map[string]graphvalue.Value) *Edge {
	if props == nil {
		props = make(map[string]graphvalue.Value)
	}
	e := &Edge{ID: id, Label: label, Out: out, In: in, Properties: props}
	out.AddOutEdge(e)
	in.AddInEdge(e)
	return e
}

func (e *Edge) takeSnapshot() {
	if e.Transient || e.original != nil {
		return
	}
	snap := make(map[string]graphvalue.Value, len(e.Properties))
	for k, v := range e.Properties {
		snap[k] = v
	}
	e.original = snap
}

// SetProperty replaces the value stored under key.
func (e *Edge) SetProperty(key string, value graphvalue.Value) {
	e.takeSnapshot()
	e.Properties[key] = value
	e.Dirty = true
}

// RemoveProperty deletes the value stored under key, if any.
func (e *Edge) RemoveProperty(key string) {
	if _, ok := e.Properties[key]; !ok {
		return
	}
	e.takeSnapshot()
	delete(e.Properties, key)
	e.Dirty = true
}

func (e *Edge) propertyMap() map[string]any {
	out := make(map[string]any, len(e.Properties))
	for k, v := range e.Properties {
		out[k] = graphvalue.ToNative(v)
	}
	return out
}

// InsertStatement builds the MATCH...CREATE statement for a transient
// edge, matching both endpoints by idField.
func (e *Edge) InsertStatement(idField string) graphdriver.Statement {
	text := fmt.Sprintf(
		"MATCH %s, %s CREATE (out)-[:`%s` $props]->(in)",
		e.Out.MatchPattern("out", idField, "outId"),
		e.In.MatchPattern("in", idField, "inId"),
		e.Label,
	)
	props := e.propertyMap()
	props[idField] = e.ID
	return graphdriver.Statement{
		Text: text,
		Params: map[string]any{
			"outId": e.Out.ID,
			"inId":  e.In.ID,
			"props": props,
		},
	}
}

// UpdateStatement builds the MERGE statement persisting property
// changes. The returned bool is false if the edge is not dirty.
func (e *Edge) UpdateStatement(idField string) (graphdriver.Statement, bool) {
	if !e.Dirty {
		return graphdriver.Statement{}, false
	}
	text := fmt.Sprintf(
		"MATCH %s, %s MERGE (out)-[r:`%s` {%s: $id}]->(in) ON MATCH SET r = $props",
		e.Out.MatchPattern("out", idField, "outId"),
		e.In.MatchPattern("in", idField, "inId"),
		e.Label, idField,
	)
	return graphdriver.Statement{
		Text: text,
		Params: map[string]any{
			"outId": e.Out.ID,
			"inId":  e.In.ID,
			"id":    e.ID,
			"props": e.propertyMap(),
		},
	}, true
}

// DeleteStatement builds the statement removing this edge, leaving
// both endpoint vertices untouched.
func (e *Edge) DeleteStatement(idField string) graphdriver.Statement {
	text := fmt.Sprintf("MATCH (out)-[r:`%s` {%s: $id}]->(in) DELETE r", e.Label, idField)
	return graphdriver.Statement{Text: text, Params: map[string]any{"id": e.ID}}
}

// FinalizeCommit clears pending-change tracking after a successful
// commit.
func (e *Edge) FinalizeCommit() {
	e.Dirty = false
	e.Transient = false
	e.original = nil
}

// Rollback restores the edge's properties to their last committed
// snapshot.
func (e *Edge) Rollback() {
	if e.original != nil {
		e.Properties = e.original
		e.original = nil
	}
	e.Dirty = false
}

// Detach removes this edge from both endpoints' adjacency sets.
func (e *Edge) Detach() {
	e.Out.RemoveOutEdge(e)
	e.In.RemoveInEdge(e)
}
