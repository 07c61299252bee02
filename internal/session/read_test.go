package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphsession/internal/element"
	"github.com/roach88/graphsession/internal/partition"
)

func TestVertexMatchClause_Unrestricted_NoIDs(t *testing.T) {
	s, _ := newTestSession()
	text, params := s.vertexMatchClause(nil)
	assert.Equal(t, "MATCH (n) RETURN n", text)
	assert.Empty(t, params)
}

func TestVertexMatchClause_WithIDs(t *testing.T) {
	s, _ := newTestSession()
	text, params := s.vertexMatchClause([]any{int64(1), int64(2)})
	assert.Equal(t, "MATCH (n) WHERE n.id IN $ids RETURN n", text)
	assert.Equal(t, []any{int64(1), int64(2)}, params["ids"])
}

func TestVertexMatchClause_AllLabelsPartitionInlinesLabels(t *testing.T) {
	d := &fakeDriver{}
	s := New(d, partition.AllLabels("Person"), passthroughIDs{}, passthroughIDs{}, nil)
	text, _ := s.vertexMatchClause(nil)
	assert.Equal(t, "MATCH (n:`Person`) RETURN n", text)
}

func TestVertexMatchClause_AnyLabelMultiplePartitionUsesPredicate(t *testing.T) {
	d := &fakeDriver{}
	s := New(d, partition.AnyLabel("Person", "Company"), passthroughIDs{}, passthroughIDs{}, nil)
	text, _ := s.vertexMatchClause(nil)
	assert.Equal(t, "MATCH (n) WHERE (n:`Company` OR n:`Person`) RETURN n", text)
}

func TestEdgeMatchClause_Unrestricted_NoExtraWhere(t *testing.T) {
	s, _ := newTestSession()
	text, params := s.edgeMatchClause("")
	assert.Equal(t, "MATCH (a)-[r]->(b) RETURN r", text)
	assert.Empty(t, params)
}

func TestEdgeMatchClause_WithExtraWhere(t *testing.T) {
	s, _ := newTestSession()
	text, _ := s.edgeMatchClause("r.id IN $ids")
	assert.Equal(t, "MATCH (a)-[r]->(b) WHERE r.id IN $ids RETURN r", text)
}

func TestEdgeMatchClause_AllLabelsPartitionRestrictsBothEndpoints(t *testing.T) {
	d := &fakeDriver{}
	s := New(d, partition.AllLabels("Person"), passthroughIDs{}, passthroughIDs{}, nil)
	text, _ := s.edgeMatchClause("")
	assert.Equal(t, "MATCH (a:`Person`)-[r]->(b:`Person`) RETURN r", text)
}

func TestEdgeMatchClause_AnyLabelMultiplePartitionRestrictsBothEndpoints(t *testing.T) {
	d := &fakeDriver{}
	s := New(d, partition.AnyLabel("Person", "Company"), passthroughIDs{}, passthroughIDs{}, nil)
	text, _ := s.edgeMatchClause("")
	assert.Equal(t, "MATCH (a)-[r]->(b) WHERE (a:`Company` OR a:`Person`) AND (b:`Company` OR b:`Person`) RETURN r", text)
}

func TestVerticesByIDs_ServesResidentWithoutTouchingDriver(t *testing.T) {
	s, d := newTestSession()
	v := element.NewVertex("v1", []string{"Person"})
	s.vertices[idKey(v.ID)] = v

	got, err := s.VerticesByIDs(context.Background(), "v1")
	require.NoError(t, err)

	assert.Equal(t, []*element.Vertex{v}, got)
	assert.Empty(t, d.ran)
}

func TestVerticesByIDs_SkipsKnownDeletedIDs(t *testing.T) {
	s, d := newTestSession()
	s.deletedVertexIDs[idKey("gone")] = struct{}{}

	got, err := s.VerticesByIDs(context.Background(), "gone")
	require.NoError(t, err)

	assert.Empty(t, got)
	assert.Empty(t, d.ran)
}

func TestIncidentEdges_ReturnsCachedAdjacencyWithoutDriverCall(t *testing.T) {
	s, d := newTestSession()
	out := element.NewVertex("v1", []string{"Person"})
	in := element.NewVertex("v2", []string{"Person"})
	e := element.NewEdge("e1", "Knows", out, in, nil)
	out.OutEdgesLoaded = true

	edges, err := s.IncidentEdges(context.Background(), out, element.Out)
	require.NoError(t, err)

	assert.Equal(t, []*element.Edge{e}, edges)
	assert.Empty(t, d.ran)
}

func TestIncidentEdges_CachedPathReturnsSnapshotNotLiveSlice(t *testing.T) {
	s, _ := newTestSession()
	out := element.NewVertex("v1", []string{"Person"})
	in := element.NewVertex("v2", []string{"Person"})
	knows := element.NewEdge("e1", "Knows", out, in, nil)
	out.OutEdgesLoaded = true
	original := out.OutEdges[0]

	edges, err := s.IncidentEdges(context.Background(), out, element.Out)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	require.Same(t, knows, edges[0])

	// Overwriting the caller's slice in place must not corrupt the
	// vertex's own adjacency: the two must not share a backing array.
	edges[0] = element.NewEdge("e2", "Likes", out, in, nil)
	assert.Same(t, original, out.OutEdges[0])
}

func TestFilterEdgesByLabel(t *testing.T) {
	out := element.NewVertex("v1", []string{"Person"})
	in := element.NewVertex("v2", []string{"Person"})
	knows := element.NewEdge("e1", "Knows", out, in, nil)
	likes := element.NewEdge("e2", "Likes", out, in, nil)

	filtered := filterEdgesByLabel([]*element.Edge{knows, likes}, []string{"Likes"})
	assert.Equal(t, []*element.Edge{likes}, filtered)

	assert.Equal(t, []*element.Edge{knows, likes}, filterEdgesByLabel([]*element.Edge{knows, likes}, nil))
}

func TestDirectionLoaded_Both(t *testing.T) {
	v := element.NewVertex("v1", []string{"Person"})
	loaded, _ := directionLoaded(v, element.Both)
	assert.False(t, loaded)

	v.OutEdgesLoaded = true
	v.InEdgesLoaded = true
	loaded, _ = directionLoaded(v, element.Both)
	assert.True(t, loaded)
}

func TestMarkDirectionLoaded_Both(t *testing.T) {
	v := element.NewVertex("v1", []string{"Person"})
	markDirectionLoaded(v, element.Both)
	assert.True(t, v.OutEdgesLoaded)
	assert.True(t, v.InEdgesLoaded)
}

func TestExcludeIDs(t *testing.T) {
	assert.Nil(t, excludeIDs(nil))

	out := element.NewVertex("v1", []string{"Person"})
	in := element.NewVertex("v2", []string{"Person"})
	e := element.NewEdge("e1", "Knows", out, in, nil)
	assert.Equal(t, []any{"e1"}, excludeIDs([]*element.Edge{e}))
}
