package graph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/graphsession/internal/element"
	"github.com/roach88/graphsession/internal/graphdriver"
	"github.com/roach88/graphsession/internal/graphtx"
	"github.com/roach88/graphsession/internal/idprovider"
	"github.com/roach88/graphsession/internal/partition"
	"github.com/roach88/graphsession/internal/session"
)

// Graph is the shared, immutable-after-construction handle an
// application builds once. Every goroutine that needs to mutate or
// read the graph obtains its own Transaction via Tx.
type Graph struct {
	driver    graphdriver.Driver
	partition partition.Partition
	vertexIDs idprovider.Provider
	edgeIDs   idprovider.Provider
	logger    *slog.Logger
}

// Config holds the dependencies a Graph is constructed from.
type Config struct {
	Driver    graphdriver.Driver
	Partition partition.Partition
	VertexIDs idprovider.Provider
	EdgeIDs   idprovider.Provider
	Logger    *slog.Logger
}

// New constructs a Graph from cfg. A nil Partition falls back to
// partition.Unrestricted, and a nil Logger to slog.Default.
func New(cfg Config) *Graph {
	part := cfg.Partition
	if part == nil {
		part = partition.Unrestricted()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Graph{
		driver:    cfg.Driver,
		partition: part,
		vertexIDs: cfg.VertexIDs,
		edgeIDs:   cfg.EdgeIDs,
		logger:    logger,
	}
}

// Tx opens a new Transaction bound to a fresh Session. The caller is
// responsible for calling Commit, Rollback, or Close on the returned
// Transaction.
func (g *Graph) Tx(_ context.Context) (*graphtx.Transaction, error) {
	s := session.New(g.driver, g.partition, g.vertexIDs, g.edgeIDs, g.logger)
	return graphtx.New(s), nil
}

// withTx runs fn against a fresh, single-use Transaction, committing
// on success and rolling back (then propagating the original error)
// on failure.
func (g *Graph) withTx(ctx context.Context, fn func(tx *graphtx.Transaction) error) error {
	tx, err := g.Tx(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// AddVertex allocates a new identifier and persists a vertex carrying
// labels and props in a single-use transaction. It rejects a
// caller-supplied value for the vertex id property.
func (g *Graph) AddVertex(ctx context.Context, labels []string, props ...session.PropertyInput) (*element.Vertex, error) {
	if err := g.rejectUserSuppliedID(g.vertexIDs, props); err != nil {
		return nil, err
	}
	var v *element.Vertex
	err := g.withTx(ctx, func(tx *graphtx.Transaction) error {
		var err error
		v, err = tx.AddVertex(ctx, labels, props...)
		return err
	})
	return v, err
}

// AddEdge allocates a new identifier and persists an edge between out
// and in in a single-use transaction. out and in must have been
// obtained from a transaction that has already committed; AddEdge
// reloads them by id into the new transaction's session.
func (g *Graph) AddEdge(ctx context.Context, label string, out, in *element.Vertex, props ...session.PropertyInput) (*element.Edge, error) {
	if err := g.rejectUserSuppliedID(g.edgeIDs, props); err != nil {
		return nil, err
	}
	var e *element.Edge
	err := g.withTx(ctx, func(tx *graphtx.Transaction) error {
		outs, err := tx.Vertices(ctx, out.ID)
		if err != nil || len(outs) == 0 {
			return session.NewUserInputError("out vertex %v not found", out.ID)
		}
		ins, err := tx.Vertices(ctx, in.ID)
		if err != nil || len(ins) == 0 {
			return session.NewUserInputError("in vertex %v not found", in.ID)
		}
		e, err = tx.AddEdge(ctx, label, outs[0], ins[0], props...)
		return err
	})
	return e, err
}

func (g *Graph) rejectUserSuppliedID(provider idprovider.Provider, props []session.PropertyInput) error {
	for _, p := range props {
		if p.Key == provider.FieldName() {
			return session.NewUserInputError("id property %q is assigned by the provider, not the caller", p.Key)
		}
	}
	return nil
}

// Vertices returns the vertices identified by ids, or every vertex in
// the partition if ids is empty, in a single-use read transaction.
func (g *Graph) Vertices(ctx context.Context, ids ...any) ([]*element.Vertex, error) {
	var out []*element.Vertex
	err := g.withTx(ctx, func(tx *graphtx.Transaction) error {
		var err error
		out, err = tx.Vertices(ctx, ids...)
		return err
	})
	return out, err
}

// Edges returns the edges identified by ids, or every edge if ids is
// empty, in a single-use read transaction.
func (g *Graph) Edges(ctx context.Context, ids ...any) ([]*element.Edge, error) {
	var out []*element.Edge
	err := g.withTx(ctx, func(tx *graphtx.Transaction) error {
		var err error
		out, err = tx.Edges(ctx, ids...)
		return err
	})
	return out, err
}

// Query runs statement in a single-use transaction, loading each
// returned row through the session's vertex/edge registries. It is an
// escape hatch for query shapes the rest of this package does not
// generate.
func (g *Graph) Query(ctx context.Context, statement graphdriver.Statement) ([]any, error) {
	s := session.New(g.driver, g.partition, g.vertexIDs, g.edgeIDs, g.logger)
	if err := s.Open(ctx); err != nil {
		return nil, err
	}
	rows, err := s.Query(ctx, statement)
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	if err := s.Close(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateIndex emits a back-end index-creation statement over property
// for every vertex carrying label.
func (g *Graph) CreateIndex(ctx context.Context, label, property string) error {
	s := session.New(g.driver, g.partition, g.vertexIDs, g.edgeIDs, g.logger)
	if err := s.Open(ctx); err != nil {
		return err
	}
	stmt := graphdriver.Statement{Text: fmt.Sprintf("CREATE INDEX ON :`%s`(%s)", label, property)}
	if _, err := s.Query(ctx, stmt); err != nil {
		_ = s.Close(ctx)
		return err
	}
	return s.Close(ctx)
}
