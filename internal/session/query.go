package session

import (
	"context"

	"github.com/roach88/graphsession/internal/element"
	"github.com/roach88/graphsession/internal/graphdriver"
)

// Query runs an arbitrary statement and loads each returned node or
// relationship into the session's registries, returning a slice
// mixing *element.Vertex and *element.Edge in row order. It is an
// escape hatch for callers who need a query shape the rest of the
// package does not generate.
func (s *Session) Query(ctx context.Context, stmt graphdriver.Statement) ([]any, error) {
	if err := s.requireOpen(); err != nil {
		return nil, err
	}
	rs, err := s.tx.Run(ctx, stmt)
	if err != nil {
		return nil, NewTransportError(err, "run statement %q", stmt.Text)
	}
	defer rs.Close()

	var out []any
	for {
		rec, ok, err := rs.Next(ctx)
		if err != nil {
			return nil, NewTransportError(err, "read query row")
		}
		if !ok {
			break
		}
		val := rec.Get(0)
		if node, ok := val.AsNode(); ok {
			v, err := s.LoadVertex(node)
			if err != nil {
				return nil, err
			}
			if v != nil {
				out = append(out, v)
			}
			continue
		}
		if rel, ok := val.AsRelationship(); ok {
			e, err := s.loadEdgeByRelationship(ctx, rel)
			if err != nil {
				return nil, err
			}
			if e != nil {
				out = append(out, e)
			}
			continue
		}
		out = append(out, val.AsObject())
	}
	return out, nil
}

func (s *Session) loadEdgeByRelationship(ctx context.Context, rel graphdriver.Relationship) (*element.Edge, error) {
	outVertices, err := s.VerticesByIDs(ctx, rel.StartNodeID())
	if err != nil {
		return nil, err
	}
	inVertices, err := s.VerticesByIDs(ctx, rel.EndNodeID())
	if err != nil {
		return nil, err
	}
	if len(outVertices) == 0 || len(inVertices) == 0 {
		return nil, nil
	}
	return s.LoadEdge(rel, outVertices[0], inVertices[0])
}
