package session

import (
	"context"

	"github.com/roach88/graphsession/internal/element"
	"github.com/roach88/graphsession/internal/graphvalue"
)

// PropertyInput is a single key/cardinality/value triple supplied to
// AddVertex.
type PropertyInput struct {
	Key         string
	Cardinality element.Cardinality
	Value       graphvalue.Value
}

// AddVertex allocates a new identifier and registers a transient
// vertex carrying labels and the given properties. The initial label
// set is not subject to ValidateLabel: that guard only governs
// AddLabel/RemoveLabel on a vertex already known to the session, so a
// caller inside a restricted partition can still create a vertex that
// the partition will or will not surface later.
func (s *Session) AddVertex(ctx context.Context, labels []string, props ...PropertyInput) (*element.Vertex, error) {
	ctx = s.withTx(ctx)
	id, err := s.vertexIDs.Generate(ctx)
	if err != nil {
		return nil, NewTransportError(err, "allocate vertex id")
	}
	v := element.NewTransientVertex(id, labels)
	for _, p := range props {
		propID, err := s.vertexIDs.Generate(ctx)
		if err != nil {
			return nil, NewTransportError(err, "allocate vertex property id")
		}
		if _, err := v.SetProperty(p.Cardinality, p.Key, p.Value, propID); err != nil {
			return nil, NewUserInputError("%v", err)
		}
	}
	key := idKey(id)
	s.vertices[key] = v
	s.transientVertices[key] = v
	return v, nil
}

// AddEdge allocates a new identifier and registers a transient edge
// between out and in, both of which must already be registered in
// this session.
func (s *Session) AddEdge(ctx context.Context, label string, out, in *element.Vertex, props ...PropertyInput) (*element.Edge, error) {
	if _, ok := s.vertices[idKey(out.ID)]; !ok {
		return nil, NewUserInputError("out vertex does not belong to this session")
	}
	if _, ok := s.vertices[idKey(in.ID)]; !ok {
		return nil, NewUserInputError("in vertex does not belong to this session")
	}
	ctx = s.withTx(ctx)
	id, err := s.edgeIDs.Generate(ctx)
	if err != nil {
		return nil, NewTransportError(err, "allocate edge id")
	}
	e := element.NewTransientEdge(id, label, out, in)
	for _, p := range props {
		e.SetProperty(p.Key, p.Value)
	}
	key := idKey(id)
	s.edges[key] = e
	s.transientEdges[key] = e
	return e, nil
}

// RemoveVertex marks v and every edge incident to it for deletion.
func (s *Session) RemoveVertex(v *element.Vertex) {
	for _, e := range append(append([]*element.Edge{}, v.OutEdges...), v.InEdges...) {
		s.removeEdge(e)
	}
	key := idKey(v.ID)
	v.Deleted = true
	delete(s.vertexUpdateQueue, key)
	if v.Transient {
		delete(s.vertices, key)
		delete(s.transientVertices, key)
		return
	}
	delete(s.vertices, key)
	s.deletedVertexIDs[key] = struct{}{}
	s.vertexDeleteQueue[key] = v
}

// RemoveEdge marks e for deletion and detaches it from both
// endpoints.
func (s *Session) RemoveEdge(e *element.Edge) {
	s.removeEdge(e)
}

func (s *Session) removeEdge(e *element.Edge) {
	key := idKey(e.ID)
	if e.Deleted {
		return
	}
	e.Deleted = true
	e.Detach()
	delete(s.edgeUpdateQueue, key)
	if e.Transient {
		delete(s.edges, key)
		delete(s.transientEdges, key)
		return
	}
	delete(s.edges, key)
	s.deletedEdgeIDs[key] = struct{}{}
	s.edgeDeleteQueue[key] = e
}

// AddLabel adds label to v, enqueueing v for update if persisted.
func (s *Session) AddLabel(v *element.Vertex, label string) error {
	if err := v.AddLabel(label, s.partition); err != nil {
		return NewUserInputError("%v", err)
	}
	s.markVertexDirty(v)
	return nil
}

// RemoveLabel removes label from v, enqueueing v for update if
// persisted.
func (s *Session) RemoveLabel(v *element.Vertex, label string) error {
	if err := v.RemoveLabel(label, s.partition); err != nil {
		return NewUserInputError("%v", err)
	}
	s.markVertexDirty(v)
	return nil
}

// SetVertexProperty stores value under key on v with the given
// cardinality, enqueueing v for update if persisted.
func (s *Session) SetVertexProperty(ctx context.Context, v *element.Vertex, cardinality element.Cardinality, key string, value graphvalue.Value) (*element.VertexProperty, error) {
	ctx = s.withTx(ctx)
	propID, err := s.vertexIDs.Generate(ctx)
	if err != nil {
		return nil, NewTransportError(err, "allocate vertex property id")
	}
	vp, err := v.SetProperty(cardinality, key, value, propID)
	if err != nil {
		return nil, NewUserInputError("%v", err)
	}
	s.markVertexDirty(v)
	return vp, nil
}

// RemoveVertexProperty deletes every value stored under key on v.
func (s *Session) RemoveVertexProperty(v *element.Vertex, key string) {
	v.RemoveProperty(key)
	s.markVertexDirty(v)
}

// SetEdgeProperty replaces the value stored under key on e,
// enqueueing e for update if persisted.
func (s *Session) SetEdgeProperty(e *element.Edge, key string, value graphvalue.Value) {
	e.SetProperty(key, value)
	s.markEdgeDirty(e)
}

// RemoveEdgeProperty deletes the value stored under key on e.
func (s *Session) RemoveEdgeProperty(e *element.Edge, key string) {
	e.RemoveProperty(key)
	s.markEdgeDirty(e)
}

func (s *Session) markVertexDirty(v *element.Vertex) {
	if v.Transient || v.Deleted {
		return
	}
	s.vertexUpdateQueue[idKey(v.ID)] = v
}

func (s *Session) markEdgeDirty(e *element.Edge) {
	if e.Transient || e.Deleted {
		return
	}
	s.edgeUpdateQueue[idKey(e.ID)] = e
}
