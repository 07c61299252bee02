package graphdriver

import "context"

// Driver opens transactions against a back-end and is shared,
// immutably, across every Session produced by a Graph.
type Driver interface {
	BeginTx(ctx context.Context) (Tx, error)
	Close(ctx context.Context) error
}

// Statement is a parameterized query-language statement. Text never
// contains interpolated values; every value flows through Params.
type Statement struct {
	Text   string
	Params map[string]any
}

// Tx is a single back-end transaction. Exactly one of Success or
// Failure must be called before Close.
type Tx interface {
	Run(ctx context.Context, stmt Statement) (RecordStream, error)
	Success(ctx context.Context) error
	Failure(ctx context.Context) error
	Close(ctx context.Context) error
	IsOpen() bool
}

type txContextKey struct{}

// ContextWithTx embeds tx in ctx so code reached later in the same
// call chain (an idprovider.Refiller invoked by a Provider.Generate,
// say) can recover and reuse the transaction already open on this
// connection instead of opening a second one.
func ContextWithTx(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFromContext recovers the Tx embedded by ContextWithTx, if any.
func TxFromContext(ctx context.Context) (Tx, bool) {
	tx, ok := ctx.Value(txContextKey{}).(Tx)
	return tx, ok
}

// RecordStream is a finite, single-pass cursor over the rows
// returned by Run. Callers must call Close once done, even after an
// error from Next.
type RecordStream interface {
	Next(ctx context.Context) (Record, bool, error)
	Close() error
}

// Record is one row of a RecordStream, indexed positionally in the
// order the statement's RETURN (or equivalent) clause requested.
type Record interface {
	Get(i int) Value
}

// Value is a single cell of a Record. Exactly one of the As* accessors
// applies to a given Value; the others report ok=false.
type Value interface {
	AsLong() (int64, bool)
	AsObject() any
	AsList() ([]Value, bool)
	AsNode() (Node, bool)
	AsRelationship() (Relationship, bool)
}

// Node is a vertex row as surfaced by the driver: its back-end
// identity, labels, and property map.
type Node interface {
	Get(key string) Value
	Keys() []string
	Labels() []string
	ID() any
}

// Relationship is an edge row as surfaced by the driver: its back-end
// identity, type, endpoint identities, and property map.
type Relationship interface {
	Get(key string) Value
	Keys() []string
	Type() string
	StartNodeID() any
	EndNodeID() any
}
