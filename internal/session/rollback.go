package session

import (
	"context"

	"github.com/roach88/graphsession/internal/element"
)

// Rollback discards every pending change made within the current
// transaction and aborts the back-end transaction if one is open.
// Transient elements are discarded; dirty elements are restored to
// their last committed state; deleted elements (and the edges
// detached by cascading vertex deletion) are reinstated with their
// adjacency fully relinked.
func (s *Session) Rollback(ctx context.Context) error {
	hadActivity := len(s.vertexUpdateQueue)+len(s.vertexDeleteQueue)+
		len(s.edgeUpdateQueue)+len(s.edgeDeleteQueue) > 0

	if s.tx != nil {
		_ = s.tx.Failure(ctx)
		_ = s.tx.Close(ctx)
		s.tx = nil
	}

	for key := range s.transientVertices {
		delete(s.vertices, key)
	}
	s.transientVertices = make(map[string]*element.Vertex)

	for key, e := range s.transientEdges {
		e.Detach()
		delete(s.edges, key)
	}
	s.transientEdges = make(map[string]*element.Edge)

	for _, v := range s.vertexUpdateQueue {
		v.Rollback()
	}
	s.vertexUpdateQueue = make(map[string]*element.Vertex)

	for _, e := range s.edgeUpdateQueue {
		e.Rollback()
	}
	s.edgeUpdateQueue = make(map[string]*element.Edge)

	for key, e := range s.edgeDeleteQueue {
		e.Deleted = false
		e.Rollback()
		e.Out.AddOutEdge(e)
		e.In.AddInEdge(e)
		s.edges[key] = e
	}
	s.edgeDeleteQueue = make(map[string]*element.Edge)
	s.deletedEdgeIDs = make(map[string]struct{})

	for key, v := range s.vertexDeleteQueue {
		v.Deleted = false
		v.Rollback()
		s.vertices[key] = v
	}
	s.vertexDeleteQueue = make(map[string]*element.Vertex)
	s.deletedVertexIDs = make(map[string]struct{})

	if hadActivity {
		s.verticesLoaded = false
		s.edgesLoaded = false
	}

	return nil
}
