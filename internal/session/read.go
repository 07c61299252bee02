package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/graphsession/internal/element"
	"github.com/roach88/graphsession/internal/graphdriver"
)

func (s *Session) requireOpen() error {
	if !s.IsOpen() {
		return NewTransactionStateError("no open transaction")
	}
	return nil
}

// partitionLabelSuffix renders the partition's inlineable pattern
// labels as a MATCH suffix, e.g. ":`Label1`:`Label2`", or "" if the
// partition cannot express its restriction this way.
func partitionLabelSuffix(labels []string) string {
	suffix := ""
	for _, l := range labels {
		suffix += "`" + l + "`:"
	}
	if suffix == "" {
		return ""
	}
	return ":" + strings.TrimSuffix(suffix, ":")
}

func (s *Session) vertexMatchClause(ids []any) (string, map[string]any) {
	text := fmt.Sprintf("MATCH (n%s)", partitionLabelSuffix(s.partition.MatchPatternLabels()))
	params := map[string]any{}
	var where []string
	if len(ids) > 0 {
		where = append(where, fmt.Sprintf("n.%s IN $ids", s.vertexIDs.FieldName()))
		params["ids"] = ids
	}
	if pred := s.partition.MatchPredicate("n"); pred != "" {
		where = append(where, pred)
	}
	if len(where) > 0 {
		text += " WHERE " + strings.Join(where, " AND ")
	}
	text += " RETURN n"
	return text, params
}

func (s *Session) runVertexQuery(ctx context.Context, text string, params map[string]any) ([]*element.Vertex, error) {
	if err := s.requireOpen(); err != nil {
		return nil, err
	}
	rs, err := s.tx.Run(ctx, graphdriver.Statement{Text: text, Params: params})
	if err != nil {
		return nil, NewTransportError(err, "run statement %q", text)
	}
	defer rs.Close()
	var out []*element.Vertex
	for {
		rec, ok, err := rs.Next(ctx)
		if err != nil {
			return nil, NewTransportError(err, "read vertex row")
		}
		if !ok {
			break
		}
		node, ok := rec.Get(0).AsNode()
		if !ok {
			return nil, NewConsistencyError("expected node in vertex query result")
		}
		v, err := s.LoadVertex(node)
		if err != nil {
			return nil, err
		}
		if v != nil {
			out = append(out, v)
		}
	}
	return out, nil
}

// VerticesByIDs returns the vertices identified by ids, fetching any
// not already resident from the back-end. Passing no ids returns
// every vertex in the partition, loading the full set if it has not
// been loaded yet in this transaction.
func (s *Session) VerticesByIDs(ctx context.Context, ids ...any) ([]*element.Vertex, error) {
	if len(ids) == 0 {
		return s.allVertices(ctx)
	}
	if s.verticesLoaded {
		var out []*element.Vertex
		for _, id := range ids {
			if v, ok := s.vertices[idKey(id)]; ok {
				out = append(out, v)
			}
		}
		return out, nil
	}

	var resident []*element.Vertex
	var remote []any
	for _, id := range ids {
		key := idKey(id)
		if v, ok := s.vertices[key]; ok {
			resident = append(resident, v)
			continue
		}
		if _, deleted := s.deletedVertexIDs[key]; deleted {
			continue
		}
		remote = append(remote, id)
	}
	if len(remote) == 0 {
		return resident, nil
	}
	text, params := s.vertexMatchClause(remote)
	fetched, err := s.runVertexQuery(ctx, text, params)
	if err != nil {
		return nil, err
	}
	return append(resident, fetched...), nil
}

func (s *Session) allVertices(ctx context.Context) ([]*element.Vertex, error) {
	if s.verticesLoaded {
		out := make([]*element.Vertex, 0, len(s.vertices))
		for _, v := range s.vertices {
			out = append(out, v)
		}
		return out, nil
	}
	text, params := s.vertexMatchClause(nil)
	fetched, err := s.runVertexQuery(ctx, text, params)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(fetched))
	out := make([]*element.Vertex, 0, len(fetched)+len(s.transientVertices))
	for _, v := range fetched {
		seen[idKey(v.ID)] = struct{}{}
		out = append(out, v)
	}
	for key, v := range s.transientVertices {
		if _, ok := seen[key]; !ok {
			out = append(out, v)
		}
	}
	s.verticesLoaded = true
	return out, nil
}

// EdgesByIDs returns the edges identified by ids, fetching any not
// already resident from the back-end. Passing no ids returns every
// edge whose endpoints both lie in the partition.
func (s *Session) EdgesByIDs(ctx context.Context, ids ...any) ([]*element.Edge, error) {
	if len(ids) == 0 {
		return s.allEdges(ctx)
	}
	var resident []*element.Edge
	var remote []any
	for _, id := range ids {
		key := idKey(id)
		if e, ok := s.edges[key]; ok {
			resident = append(resident, e)
			continue
		}
		if _, deleted := s.deletedEdgeIDs[key]; deleted {
			continue
		}
		remote = append(remote, id)
	}
	if len(remote) == 0 {
		return resident, nil
	}
	if err := s.requireOpen(); err != nil {
		return nil, err
	}
	text, params := s.edgeMatchClause(fmt.Sprintf("r.%s IN $ids", s.edgeIDs.FieldName()))
	params["ids"] = remote
	fetched, err := s.runEdgeQuery(ctx, text, params)
	if err != nil {
		return nil, err
	}
	return append(resident, fetched...), nil
}

// edgeMatchClause builds a "MATCH (a...)-[r]->(b...) WHERE ... RETURN r"
// statement restricting both endpoints to the partition, with extraWhere
// (if non-empty) ANDed into the WHERE clause. The endpoint aliases are
// "a"/"b" rather than "n"/"m" so this statement's text is never
// mistaken for an incident-edge traversal, which is keyed off a
// leading "MATCH (n".
func (s *Session) edgeMatchClause(extraWhere string) (string, map[string]any) {
	labels := s.partition.MatchPatternLabels()
	text := fmt.Sprintf("MATCH (a%s)-[r]->(b%s)", partitionLabelSuffix(labels), partitionLabelSuffix(labels))
	params := map[string]any{}
	var where []string
	if extraWhere != "" {
		where = append(where, extraWhere)
	}
	if pred := s.partition.MatchPredicate("a"); pred != "" {
		where = append(where, pred)
	}
	if pred := s.partition.MatchPredicate("b"); pred != "" {
		where = append(where, pred)
	}
	if len(where) > 0 {
		text += " WHERE " + strings.Join(where, " AND ")
	}
	text += " RETURN r"
	return text, params
}

func (s *Session) allEdges(ctx context.Context) ([]*element.Edge, error) {
	if s.edgesLoaded {
		out := make([]*element.Edge, 0, len(s.edges))
		for _, e := range s.edges {
			out = append(out, e)
		}
		return out, nil
	}
	if err := s.requireOpen(); err != nil {
		return nil, err
	}
	text, params := s.edgeMatchClause("")
	fetched, err := s.runEdgeQuery(ctx, text, params)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(fetched))
	out := make([]*element.Edge, 0, len(fetched)+len(s.transientEdges))
	for _, e := range fetched {
		seen[idKey(e.ID)] = struct{}{}
		out = append(out, e)
	}
	for key, e := range s.transientEdges {
		if _, ok := seen[key]; !ok {
			out = append(out, e)
		}
	}
	s.edgesLoaded = true
	return out, nil
}

func (s *Session) runEdgeQuery(ctx context.Context, text string, params map[string]any) ([]*element.Edge, error) {
	rs, err := s.tx.Run(ctx, graphdriver.Statement{Text: text, Params: params})
	if err != nil {
		return nil, NewTransportError(err, "run statement %q", text)
	}
	defer rs.Close()
	var out []*element.Edge
	for {
		rec, ok, err := rs.Next(ctx)
		if err != nil {
			return nil, NewTransportError(err, "read edge row")
		}
		if !ok {
			break
		}
		rel, ok := rec.Get(0).AsRelationship()
		if !ok {
			return nil, NewConsistencyError("expected relationship in edge query result")
		}
		outVertices, err := s.VerticesByIDs(ctx, rel.StartNodeID())
		if err != nil {
			return nil, err
		}
		inVertices, err := s.VerticesByIDs(ctx, rel.EndNodeID())
		if err != nil {
			return nil, err
		}
		if len(outVertices) == 0 || len(inVertices) == 0 {
			continue
		}
		e, err := s.LoadEdge(rel, outVertices[0], inVertices[0])
		if err != nil {
			return nil, err
		}
		if e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

// IncidentEdges returns the edges touching v in direction d, optionally
// restricted to labels.
func (s *Session) IncidentEdges(ctx context.Context, v *element.Vertex, d element.Direction, labels ...string) ([]*element.Edge, error) {
	loaded, adjacency := directionLoaded(v, d)
	if loaded {
		snapshot := append([]*element.Edge{}, adjacency...)
		return filterEdgesByLabel(snapshot, labels), nil
	}
	if err := s.requireOpen(); err != nil {
		return nil, err
	}
	exclude := excludeIDs(adjacency)
	stmt := element.BuildIncidentEdgesStatement(v, d, labels, exclude, s.vertexIDs.FieldName(), s.partition)
	stmt.Text += " RETURN r"
	fetched, err := s.runIncidentEdgeQuery(ctx, stmt, v, d)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		markDirectionLoaded(v, d)
	}
	merged := append(append([]*element.Edge{}, adjacency...), fetched...)
	return filterEdgesByLabel(merged, labels), nil
}

func (s *Session) runIncidentEdgeQuery(ctx context.Context, stmt graphdriver.Statement, v *element.Vertex, d element.Direction) ([]*element.Edge, error) {
	rs, err := s.tx.Run(ctx, stmt)
	if err != nil {
		return nil, NewTransportError(err, "run statement %q", stmt.Text)
	}
	defer rs.Close()
	var out []*element.Edge
	for {
		rec, ok, err := rs.Next(ctx)
		if err != nil {
			return nil, NewTransportError(err, "read incident edge row")
		}
		if !ok {
			break
		}
		rel, ok := rec.Get(0).AsRelationship()
		if !ok {
			return nil, NewConsistencyError("expected relationship in traversal result")
		}
		var out1, in1 *element.Vertex
		switch {
		case d == element.In:
			in1 = v
			vs, err := s.VerticesByIDs(ctx, rel.StartNodeID())
			if err != nil || len(vs) == 0 {
				continue
			}
			out1 = vs[0]
		case d == element.Out:
			out1 = v
			vs, err := s.VerticesByIDs(ctx, rel.EndNodeID())
			if err != nil || len(vs) == 0 {
				continue
			}
			in1 = vs[0]
		// Both: the row may have v as either endpoint (the statement
		// matches out_id = nid OR in_id = nid), so orient from the
		// record rather than assuming v is always the out-vertex.
		case idKey(rel.StartNodeID()) == idKey(v.ID):
			out1 = v
			vs, err := s.VerticesByIDs(ctx, rel.EndNodeID())
			if err != nil || len(vs) == 0 {
				continue
			}
			in1 = vs[0]
		default:
			in1 = v
			vs, err := s.VerticesByIDs(ctx, rel.StartNodeID())
			if err != nil || len(vs) == 0 {
				continue
			}
			out1 = vs[0]
		}
		e, err := s.LoadEdge(rel, out1, in1)
		if err != nil {
			return nil, err
		}
		if e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

// Neighbors returns the opposite-endpoint vertices of v's incident
// edges in direction d, optionally restricted by edge label.
func (s *Session) Neighbors(ctx context.Context, v *element.Vertex, d element.Direction, labels ...string) ([]*element.Vertex, error) {
	edges, err := s.IncidentEdges(ctx, v, d, labels...)
	if err != nil {
		return nil, err
	}
	out := make([]*element.Vertex, 0, len(edges))
	for _, e := range edges {
		if e.Out == v {
			out = append(out, e.In)
		} else {
			out = append(out, e.Out)
		}
	}
	return out, nil
}

func directionLoaded(v *element.Vertex, d element.Direction) (bool, []*element.Edge) {
	switch d {
	case element.Out:
		return v.OutEdgesLoaded, v.OutEdges
	case element.In:
		return v.InEdgesLoaded, v.InEdges
	default:
		return v.OutEdgesLoaded && v.InEdgesLoaded, append(append([]*element.Edge{}, v.OutEdges...), v.InEdges...)
	}
}

func markDirectionLoaded(v *element.Vertex, d element.Direction) {
	switch d {
	case element.Out:
		v.OutEdgesLoaded = true
	case element.In:
		v.InEdgesLoaded = true
	default:
		v.OutEdgesLoaded = true
		v.InEdgesLoaded = true
	}
}

func excludeIDs(edges []*element.Edge) []any {
	if len(edges) == 0 {
		return nil
	}
	out := make([]any, len(edges))
	for i, e := range edges {
		out[i] = e.ID
	}
	return out
}

func filterEdgesByLabel(edges []*element.Edge, labels []string) []*element.Edge {
	if len(labels) == 0 {
		return edges
	}
	out := make([]*element.Edge, 0, len(edges))
	for _, e := range edges {
		for _, l := range labels {
			if e.Label == l {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
