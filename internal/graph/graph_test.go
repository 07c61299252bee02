package graph

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphsession/internal/element"
	"github.com/roach88/graphsession/internal/graphdriver"
	"github.com/roach88/graphsession/internal/graphvalue"
	"github.com/roach88/graphsession/internal/idprovider"
	"github.com/roach88/graphsession/internal/partition"
	"github.com/roach88/graphsession/internal/session"
	"github.com/roach88/graphsession/internal/sqlitegraph"
)

func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.db")
	driver, err := sqlitegraph.Open(path, "id", partition.Unrestricted())
	require.NoError(t, err)
	t.Cleanup(func() { driver.Close(context.Background()) })

	ids := idprovider.NewSequence(driver, "id", "", 0)
	return New(Config{
		Driver:    driver,
		VertexIDs: ids,
		EdgeIDs:   ids,
	})
}

func TestGraph_AddVertex_PersistsAndIsReadableInNewTransaction(t *testing.T) {
	g := newTestGraph(t)
	ctx := context.Background()

	v, err := g.AddVertex(ctx, []string{"Person"}, session.PropertyInput{
		Key: "name", Cardinality: element.Single, Value: graphvalue.NewString("ada"),
	})
	require.NoError(t, err)
	require.NotNil(t, v)

	got, err := g.Vertices(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	name, err := got[0].PropertySingle("name")
	require.NoError(t, err)
	assert.Equal(t, "ada", graphvalue.ToNative(name))
}

func TestGraph_AddVertex_RejectsCallerSuppliedID(t *testing.T) {
	g := newTestGraph(t)
	_, err := g.AddVertex(context.Background(), []string{"Person"}, session.PropertyInput{
		Key: "id", Cardinality: element.Single, Value: graphvalue.NewString("custom"),
	})
	assert.True(t, session.IsUserInputError(err))
}

func TestGraph_AddEdge_ReloadsEndpointsIntoNewTransaction(t *testing.T) {
	g := newTestGraph(t)
	ctx := context.Background()

	out, err := g.AddVertex(ctx, []string{"Person"})
	require.NoError(t, err)
	in, err := g.AddVertex(ctx, []string{"Person"})
	require.NoError(t, err)

	e, err := g.AddEdge(ctx, "Knows", out, in)
	require.NoError(t, err)
	require.NotNil(t, e)

	edges, err := g.Edges(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
}

func TestGraph_AddEdge_MissingEndpointIsUserInputError(t *testing.T) {
	g := newTestGraph(t)
	ctx := context.Background()

	out, err := g.AddVertex(ctx, []string{"Person"})
	require.NoError(t, err)
	in, err := g.AddVertex(ctx, []string{"Person"})
	require.NoError(t, err)

	// a vertex id the store has never seen
	ghost := *in
	ghost.ID = int64(999999)

	_, err = g.AddEdge(ctx, "Knows", out, &ghost)
	assert.True(t, session.IsUserInputError(err))
}

func TestGraph_CreateIndex_SucceedsAsNoOpOnReferenceDriver(t *testing.T) {
	g := newTestGraph(t)
	require.NoError(t, g.CreateIndex(context.Background(), "Person", "name"))
}

func TestGraph_Query_RunsEscapeHatchStatement(t *testing.T) {
	g := newTestGraph(t)
	ctx := context.Background()

	_, err := g.AddVertex(ctx, []string{"Person"})
	require.NoError(t, err)
	_, err = g.AddVertex(ctx, []string{"Person"})
	require.NoError(t, err)

	rows, err := g.Query(ctx, graphdriver.Statement{Text: "MATCH (n) RETURN n"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestGraph_Vertices_NoIDsReturnsEveryVertexInPartition(t *testing.T) {
	g := newTestGraph(t)
	ctx := context.Background()

	_, err := g.AddVertex(ctx, []string{"Person"})
	require.NoError(t, err)
	_, err = g.AddVertex(ctx, []string{"Company"})
	require.NoError(t, err)

	all, err := g.Vertices(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
