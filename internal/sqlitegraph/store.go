package sqlitegraph

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/graphsession/internal/graphdriver"
	"github.com/roach88/graphsession/internal/partition"
)

//go:embed schema.sql
var schemaSQL string

// DefaultSequenceLabel names the sequences row used when a caller
// does not specify one, mirroring idprovider.DefaultSequenceNodeLabel.
const DefaultSequenceLabel = "UniqueIdentifierGenerator"

// Driver is a graphdriver.Driver backed by a SQLite database file.
// Because this is a reference/test double standing in for a real
// remote back-end, it is constructed with the same partition.Partition
// the owning graph.Graph enforces client-side, and re-applies it when
// scanning for vertices that are not looked up by a known id.
type Driver struct {
	db        *sql.DB
	idField   string
	partition partition.Partition
}

// Open creates or opens a SQLite database at path and applies the
// schema. idField names the property every statement template uses to
// carry element identifiers (typically "id").
func Open(path string, idField string, part partition.Partition) (*Driver, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitegraph: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitegraph: connect: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitegraph: pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitegraph: apply schema: %w", err)
	}
	if idField == "" {
		idField = "id"
	}
	if part == nil {
		part = partition.Unrestricted()
	}
	return &Driver{db: db, idField: idField, partition: part}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("exec %q: %w", p, err)
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (d *Driver) Close(_ context.Context) error {
	return d.db.Close()
}

// BeginTx implements graphdriver.Driver.
func (d *Driver) BeginTx(ctx context.Context) (graphdriver.Tx, error) {
	sqltx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlitegraph: begin: %w", err)
	}
	return &tx{driver: d, sqltx: sqltx, open: true}, nil
}

// sqlExecer is the subset of *sql.Tx (and *sql.DB) reserveIDPool
// needs, so it can run against either a connection it opened itself
// or one handed to it by an already-open caller transaction.
type sqlExecer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ReserveIDPool implements idprovider.Refiller. The single-connection
// pool (SetMaxOpenConns(1)) means a fresh d.db.BeginTx deadlocks if a
// caller session already holds that connection's only transaction, so
// when ctx carries that session's graphdriver.Tx (via
// graphdriver.ContextWithTx, as Session.AddVertex and Session.AddEdge
// do before generating ids) the
// reservation runs on it directly instead of opening a second one;
// only a standalone caller with no open session transaction gets its
// own short-lived transaction here.
func (d *Driver) ReserveIDPool(ctx context.Context, sequenceLabel string, poolSize int64) (int64, error) {
	if sequenceLabel == "" {
		sequenceLabel = DefaultSequenceLabel
	}
	if callerTx, ok := graphdriver.TxFromContext(ctx); ok {
		if t, ok := callerTx.(*tx); ok && t.driver == d {
			return reserveIDPool(ctx, t.sqltx, sequenceLabel, poolSize)
		}
	}
	sqltx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	nextID, err := reserveIDPool(ctx, sqltx, sequenceLabel, poolSize)
	if err != nil {
		sqltx.Rollback()
		return 0, err
	}
	if err := sqltx.Commit(); err != nil {
		return 0, err
	}
	return nextID, nil
}

func reserveIDPool(ctx context.Context, ex sqlExecer, sequenceLabel string, poolSize int64) (int64, error) {
	var nextID int64
	row := ex.QueryRowContext(ctx, "SELECT next_id FROM sequences WHERE name = ?", sequenceLabel)
	err := row.Scan(&nextID)
	switch {
	case err == sql.ErrNoRows:
		// Mirrors the back-end's ON CREATE SET g.nextId = 1 branch:
		// the very first reservation for a sequence starts at 1,
		// with poolSize only added on subsequent reservations.
		nextID = 1
		if _, err := ex.ExecContext(ctx, "INSERT INTO sequences(name, next_id) VALUES (?, ?)", sequenceLabel, nextID); err != nil {
			return 0, err
		}
	case err != nil:
		return 0, err
	default:
		nextID += poolSize
		if _, err := ex.ExecContext(ctx, "UPDATE sequences SET next_id = ? WHERE name = ?", nextID, sequenceLabel); err != nil {
			return 0, err
		}
	}
	return nextID, nil
}
