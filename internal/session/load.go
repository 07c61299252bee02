package session

import (
	"fmt"

	"github.com/roach88/graphsession/internal/element"
	"github.com/roach88/graphsession/internal/graphdriver"
	"github.com/roach88/graphsession/internal/graphvalue"
)

// LoadVertex materializes node as a Vertex, returning the already
// registered instance if this session has already seen its id.
func (s *Session) LoadVertex(node graphdriver.Node) (*element.Vertex, error) {
	rawID := node.Get(s.vertexIDs.FieldName()).AsObject()
	id, err := s.vertexIDs.Canonicalize(rawID)
	if err != nil {
		return nil, NewConsistencyError("load vertex: %v", err)
	}
	key := idKey(id)
	if v, ok := s.vertices[key]; ok {
		return v, nil
	}
	if _, deleted := s.deletedVertexIDs[key]; deleted {
		return nil, nil
	}
	v := element.NewVertex(id, node.Labels())
	for _, k := range node.Keys() {
		if k == s.vertexIDs.FieldName() {
			continue
		}
		val, err := graphvalue.FromNative(node.Get(k).AsObject())
		if err != nil {
			return nil, NewConsistencyError("load vertex property %q: %v", k, err)
		}
		// A back-end-stored array is a List/Set-cardinality property
		// flattened to JSON; expand it back into one VertexProperty
		// per element instead of a single Single-cardinality List
		// value.
		if list, ok := val.(graphvalue.List); ok {
			for i, elem := range list {
				propID := fmt.Sprintf("%v:%s:%d", id, k, i)
				if _, err := v.SetProperty(element.List, k, elem, propID); err != nil {
					return nil, NewConsistencyError("load vertex property %q: %v", k, err)
				}
			}
			continue
		}
		propID := fmt.Sprintf("%v:%s", id, k)
		if _, err := v.SetProperty(element.Single, k, val, propID); err != nil {
			return nil, NewConsistencyError("load vertex property %q: %v", k, err)
		}
	}
	v.FinalizeCommit() // a freshly loaded vertex starts clean, matchLabels = labels
	s.vertices[key] = v
	return v, nil
}

// LoadEdge materializes rel as an Edge between its endpoints, which
// must already be registered (callers fetch endpoints before the
// edge row, as the traversal algorithm does).
func (s *Session) LoadEdge(rel graphdriver.Relationship, out, in *element.Vertex) (*element.Edge, error) {
	rawID := rel.Get(s.edgeIDs.FieldName()).AsObject()
	id, err := s.edgeIDs.Canonicalize(rawID)
	if err != nil {
		return nil, NewConsistencyError("load edge: %v", err)
	}
	key := idKey(id)
	if e, ok := s.edges[key]; ok {
		return e, nil
	}
	if _, deleted := s.deletedEdgeIDs[key]; deleted {
		return nil, nil
	}
	props := make(map[string]graphvalue.Value)
	for _, k := range rel.Keys() {
		if k == s.edgeIDs.FieldName() {
			continue
		}
		val, err := graphvalue.FromNative(rel.Get(k).AsObject())
		if err != nil {
			return nil, NewConsistencyError("load edge property %q: %v", k, err)
		}
		props[k] = val
	}
	e := element.NewEdge(id, rel.Type(), out, in, props)
	s.edges[key] = e
	return e, nil
}
