package graphtx

import (
	"context"

	"github.com/roach88/graphsession/internal/element"
	"github.com/roach88/graphsession/internal/graphvalue"
	"github.com/roach88/graphsession/internal/session"
)

// Transaction is a per-caller handle over a session.Session, exposing
// an explicit begin/commit/rollback protocol on top of the session's
// implicit "open on first I/O" behavior. Every mutation and read
// method here opens the underlying back-end transaction lazily if one
// is not already open, so a caller that never calls Open directly
// still gets a correctly scoped transaction bounded by its first
// Commit or Rollback.
type Transaction struct {
	session *session.Session
}

// New wraps s in a Transaction.
func New(s *session.Session) *Transaction {
	return &Transaction{session: s}
}

// readWrite opens the underlying transaction if one is not already
// open. It is called before every operation that touches the session.
func (t *Transaction) readWrite(ctx context.Context) error {
	if t.session.IsOpen() {
		return nil
	}
	return t.session.Open(ctx)
}

// Open begins the underlying back-end transaction if one is not
// already open.
func (t *Transaction) Open(ctx context.Context) error {
	return t.session.Open(ctx)
}

// IsOpen reports whether the underlying back-end transaction is open.
func (t *Transaction) IsOpen() bool { return t.session.IsOpen() }

// Commit persists every pending change and closes the underlying
// transaction. See session.Session.Commit for the exact statement
// ordering.
func (t *Transaction) Commit(ctx context.Context) error {
	return t.session.Commit(ctx)
}

// Rollback discards every pending change and aborts the underlying
// transaction.
func (t *Transaction) Rollback(ctx context.Context) error {
	return t.session.Rollback(ctx)
}

// Close rolls back any still-open transaction and releases session
// resources. Safe to call more than once.
func (t *Transaction) Close(ctx context.Context) error {
	return t.session.Close(ctx)
}

// AddVertex allocates a new identifier and registers a transient
// vertex carrying labels and props.
func (t *Transaction) AddVertex(ctx context.Context, labels []string, props ...session.PropertyInput) (*element.Vertex, error) {
	if err := t.readWrite(ctx); err != nil {
		return nil, err
	}
	return t.session.AddVertex(ctx, labels, props...)
}

// AddEdge allocates a new identifier and registers a transient edge
// between out and in.
func (t *Transaction) AddEdge(ctx context.Context, label string, out, in *element.Vertex, props ...session.PropertyInput) (*element.Edge, error) {
	if err := t.readWrite(ctx); err != nil {
		return nil, err
	}
	return t.session.AddEdge(ctx, label, out, in, props...)
}

// RemoveVertex marks v and every edge incident to it for deletion.
func (t *Transaction) RemoveVertex(ctx context.Context, v *element.Vertex) error {
	if err := t.readWrite(ctx); err != nil {
		return err
	}
	t.session.RemoveVertex(v)
	return nil
}

// RemoveEdge marks e for deletion.
func (t *Transaction) RemoveEdge(ctx context.Context, e *element.Edge) error {
	if err := t.readWrite(ctx); err != nil {
		return err
	}
	t.session.RemoveEdge(e)
	return nil
}

// AddLabel adds label to v.
func (t *Transaction) AddLabel(ctx context.Context, v *element.Vertex, label string) error {
	if err := t.readWrite(ctx); err != nil {
		return err
	}
	return t.session.AddLabel(v, label)
}

// RemoveLabel removes label from v.
func (t *Transaction) RemoveLabel(ctx context.Context, v *element.Vertex, label string) error {
	if err := t.readWrite(ctx); err != nil {
		return err
	}
	return t.session.RemoveLabel(v, label)
}

// SetVertexProperty stores value under key on v with the given
// cardinality.
func (t *Transaction) SetVertexProperty(ctx context.Context, v *element.Vertex, cardinality element.Cardinality, key string, value graphvalue.Value) (*element.VertexProperty, error) {
	if err := t.readWrite(ctx); err != nil {
		return nil, err
	}
	return t.session.SetVertexProperty(ctx, v, cardinality, key, value)
}

// RemoveVertexProperty deletes every value stored under key on v.
func (t *Transaction) RemoveVertexProperty(ctx context.Context, v *element.Vertex, key string) error {
	if err := t.readWrite(ctx); err != nil {
		return err
	}
	t.session.RemoveVertexProperty(v, key)
	return nil
}

// SetEdgeProperty replaces the value stored under key on e.
func (t *Transaction) SetEdgeProperty(ctx context.Context, e *element.Edge, key string, value graphvalue.Value) error {
	if err := t.readWrite(ctx); err != nil {
		return err
	}
	t.session.SetEdgeProperty(e, key, value)
	return nil
}

// RemoveEdgeProperty deletes the value stored under key on e.
func (t *Transaction) RemoveEdgeProperty(ctx context.Context, e *element.Edge, key string) error {
	if err := t.readWrite(ctx); err != nil {
		return err
	}
	t.session.RemoveEdgeProperty(e, key)
	return nil
}

// Vertices returns the vertices identified by ids, or every vertex in
// the partition if ids is empty.
func (t *Transaction) Vertices(ctx context.Context, ids ...any) ([]*element.Vertex, error) {
	if err := t.readWrite(ctx); err != nil {
		return nil, err
	}
	return t.session.VerticesByIDs(ctx, ids...)
}

// Edges returns the edges identified by ids, or every edge if ids is
// empty.
func (t *Transaction) Edges(ctx context.Context, ids ...any) ([]*element.Edge, error) {
	if err := t.readWrite(ctx); err != nil {
		return nil, err
	}
	return t.session.EdgesByIDs(ctx, ids...)
}

// IncidentEdges returns the edges touching v in direction d, optionally
// restricted to labels.
func (t *Transaction) IncidentEdges(ctx context.Context, v *element.Vertex, d element.Direction, labels ...string) ([]*element.Edge, error) {
	if err := t.readWrite(ctx); err != nil {
		return nil, err
	}
	return t.session.IncidentEdges(ctx, v, d, labels...)
}

// Neighbors returns the opposite-endpoint vertices of v's incident
// edges in direction d, optionally restricted by edge label.
func (t *Transaction) Neighbors(ctx context.Context, v *element.Vertex, d element.Direction, labels ...string) ([]*element.Vertex, error) {
	if err := t.readWrite(ctx); err != nil {
		return nil, err
	}
	return t.session.Neighbors(ctx, v, d, labels...)
}
