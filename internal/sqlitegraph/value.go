package sqlitegraph

import (
	"context"

	"github.com/roach88/graphsession/internal/graphdriver"
)

type value struct{ v any }

func (val value) AsLong() (int64, bool) {
	switch t := val.v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	default:
		return 0, false
	}
}

func (val value) AsObject() any { return val.v }

func (val value) AsList() ([]graphdriver.Value, bool) {
	list, ok := val.v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]graphdriver.Value, len(list))
	for i, e := range list {
		out[i] = value{e}
	}
	return out, true
}

func (val value) AsNode() (graphdriver.Node, bool) {
	n, ok := val.v.(*node)
	return n, ok
}

func (val value) AsRelationship() (graphdriver.Relationship, bool) {
	r, ok := val.v.(*relationship)
	return r, ok
}

type node struct {
	id     any
	labels []string
	props  map[string]any
}

func (n *node) Get(key string) graphdriver.Value { return value{n.props[key]} }

func (n *node) Keys() []string {
	out := make([]string, 0, len(n.props))
	for k := range n.props {
		out = append(out, k)
	}
	return out
}

func (n *node) Labels() []string { return n.labels }
func (n *node) ID() any          { return n.id }

type relationship struct {
	id    any
	typ   string
	outID any
	inID  any
	props map[string]any
}

func (r *relationship) Get(key string) graphdriver.Value { return value{r.props[key]} }

func (r *relationship) Keys() []string {
	out := make([]string, 0, len(r.props))
	for k := range r.props {
		out = append(out, k)
	}
	return out
}

func (r *relationship) Type() string        { return r.typ }
func (r *relationship) StartNodeID() any    { return r.outID }
func (r *relationship) EndNodeID() any      { return r.inID }

type record struct{ val graphdriver.Value }

func (r record) Get(i int) graphdriver.Value {
	if i == 0 {
		return r.val
	}
	return value{nil}
}

type stream struct {
	records []graphdriver.Record
	idx     int
}

func newStream(vals []graphdriver.Value) *stream {
	recs := make([]graphdriver.Record, len(vals))
	for i, v := range vals {
		recs[i] = record{val: v}
	}
	return &stream{records: recs}
}

func (s *stream) Next(_ context.Context) (graphdriver.Record, bool, error) {
	if s.idx >= len(s.records) {
		return nil, false, nil
	}
	r := s.records[s.idx]
	s.idx++
	return r, true, nil
}

func (s *stream) Close() error { return nil }
