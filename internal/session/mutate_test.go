package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphsession/internal/element"
	"github.com/roach88/graphsession/internal/graphvalue"
	"github.com/roach88/graphsession/internal/idprovider"
	"github.com/roach88/graphsession/internal/partition"
)

func newTestSession() (*Session, *fakeDriver) {
	d := &fakeDriver{}
	s := New(d, partition.Unrestricted(), idprovider.NewNative("id"), idprovider.NewNative("id"), nil)
	return s, d
}

func TestSession_AddVertex_RegistersTransient(t *testing.T) {
	s, _ := newTestSession()
	v, err := s.AddVertex(context.Background(), []string{"Person"},
		PropertyInput{Key: "name", Cardinality: element.Single, Value: graphvalue.NewString("ada")})
	require.NoError(t, err)

	assert.True(t, v.Transient)
	assert.Contains(t, s.vertices, idKey(v.ID))
	assert.Contains(t, s.transientVertices, idKey(v.ID))
	name, err := v.PropertySingle("name")
	require.NoError(t, err)
	assert.True(t, graphvalue.Equal(graphvalue.NewString("ada"), name))
}

func TestSession_AddVertex_AllowsPartitionMembershipLabel(t *testing.T) {
	d := &fakeDriver{}
	s := New(d, partition.AllLabels("System"), idprovider.NewNative("id"), idprovider.NewNative("id"), nil)

	v, err := s.AddVertex(context.Background(), []string{"System"})
	require.NoError(t, err)
	assert.Contains(t, v.Labels, "System")
}

func TestSession_AddLabel_RejectsReservedLabel(t *testing.T) {
	d := &fakeDriver{}
	s := New(d, partition.AllLabels("System"), idprovider.NewNative("id"), idprovider.NewNative("id"), nil)

	v, err := s.AddVertex(context.Background(), []string{"System"})
	require.NoError(t, err)

	err = s.AddLabel(v, "System")
	assert.True(t, IsUserInputError(err))
}

func TestSession_AddEdge_RequiresBothEndpointsRegistered(t *testing.T) {
	s, _ := newTestSession()
	out, err := s.AddVertex(context.Background(), []string{"Person"})
	require.NoError(t, err)
	foreign := element.NewVertex("not-in-session", []string{"Person"})

	_, err = s.AddEdge(context.Background(), "Knows", out, foreign)
	assert.True(t, IsUserInputError(err))
}

func TestSession_AddEdge_RegistersTransientAndLinksEndpoints(t *testing.T) {
	s, _ := newTestSession()
	out, err := s.AddVertex(context.Background(), []string{"Person"})
	require.NoError(t, err)
	in, err := s.AddVertex(context.Background(), []string{"Person"})
	require.NoError(t, err)

	e, err := s.AddEdge(context.Background(), "Knows", out, in)
	require.NoError(t, err)

	assert.Contains(t, out.OutEdges, e)
	assert.Contains(t, in.InEdges, e)
	assert.Contains(t, s.transientEdges, idKey(e.ID))
}

func TestSession_RemoveVertex_CascadesToIncidentEdges(t *testing.T) {
	s, _ := newTestSession()
	out, err := s.AddVertex(context.Background(), []string{"Person"})
	require.NoError(t, err)
	in, err := s.AddVertex(context.Background(), []string{"Person"})
	require.NoError(t, err)
	e, err := s.AddEdge(context.Background(), "Knows", out, in)
	require.NoError(t, err)

	s.RemoveVertex(out)

	assert.True(t, e.Deleted)
	assert.NotContains(t, s.vertices, idKey(out.ID))
	assert.NotContains(t, s.edges, idKey(e.ID))
}

func TestSession_RemoveVertex_TransientVertexVanishesWithoutDeleteQueue(t *testing.T) {
	s, _ := newTestSession()
	v, err := s.AddVertex(context.Background(), []string{"Person"})
	require.NoError(t, err)

	s.RemoveVertex(v)

	assert.NotContains(t, s.vertices, idKey(v.ID))
	assert.Empty(t, s.vertexDeleteQueue)
}

func TestSession_SetVertexProperty_MarksPersistedVertexDirty(t *testing.T) {
	s, _ := newTestSession()
	v := element.NewVertex("v1", []string{"Person"})
	s.vertices[idKey(v.ID)] = v

	_, err := s.SetVertexProperty(context.Background(), v, element.Single, "name", graphvalue.NewString("ada"))
	require.NoError(t, err)

	assert.Contains(t, s.vertexUpdateQueue, idKey(v.ID))
}

func TestSession_SetVertexProperty_DoesNotQueueTransientVertex(t *testing.T) {
	s, _ := newTestSession()
	v, err := s.AddVertex(context.Background(), []string{"Person"})
	require.NoError(t, err)

	_, err = s.SetVertexProperty(context.Background(), v, element.Single, "name", graphvalue.NewString("ada"))
	require.NoError(t, err)

	assert.NotContains(t, s.vertexUpdateQueue, idKey(v.ID))
}

func TestSession_SetEdgeProperty_MarksPersistedEdgeDirty(t *testing.T) {
	s, _ := newTestSession()
	out := element.NewVertex("v1", []string{"Person"})
	in := element.NewVertex("v2", []string{"Person"})
	e := element.NewEdge("e1", "Knows", out, in, nil)
	s.edges[idKey(e.ID)] = e

	s.SetEdgeProperty(e, "since", graphvalue.NewInt(2020))

	assert.Contains(t, s.edgeUpdateQueue, idKey(e.ID))
}
