package session

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/roach88/graphsession/internal/element"
	"github.com/roach88/graphsession/internal/graphdriver"
	"github.com/roach88/graphsession/internal/idprovider"
	"github.com/roach88/graphsession/internal/partition"
)

// Session is the transactional working set for one caller. It tracks
// every vertex and edge the caller has touched or fetched within the
// current back-end transaction and reconciles them with the back-end
// at Commit.
type Session struct {
	driver    graphdriver.Driver
	partition partition.Partition
	vertexIDs idprovider.Provider
	edgeIDs   idprovider.Provider
	logger    *slog.Logger

	tx graphdriver.Tx

	vertices map[string]*element.Vertex
	edges    map[string]*element.Edge

	deletedVertexIDs  map[string]struct{}
	deletedEdgeIDs    map[string]struct{}
	transientVertices map[string]*element.Vertex
	transientEdges    map[string]*element.Edge

	vertexUpdateQueue map[string]*element.Vertex
	edgeUpdateQueue   map[string]*element.Edge
	vertexDeleteQueue map[string]*element.Vertex
	edgeDeleteQueue   map[string]*element.Edge

	verticesLoaded bool
	edgesLoaded    bool

	closed bool
}

// New constructs an empty Session bound to driver, restricted to
// part, allocating vertex and edge identifiers from the given
// providers. A nil logger falls back to slog.Default().
func New(driver graphdriver.Driver, part partition.Partition, vertexIDs, edgeIDs idprovider.Provider, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		driver:            driver,
		partition:         part,
		vertexIDs:         vertexIDs,
		edgeIDs:           edgeIDs,
		logger:            logger,
		vertices:          make(map[string]*element.Vertex),
		edges:             make(map[string]*element.Edge),
		deletedVertexIDs:  make(map[string]struct{}),
		deletedEdgeIDs:    make(map[string]struct{}),
		transientVertices: make(map[string]*element.Vertex),
		transientEdges:    make(map[string]*element.Edge),
		vertexUpdateQueue: make(map[string]*element.Vertex),
		edgeUpdateQueue:   make(map[string]*element.Edge),
		vertexDeleteQueue: make(map[string]*element.Vertex),
		edgeDeleteQueue:   make(map[string]*element.Edge),
	}
	runtime.SetFinalizer(s, (*Session).warnIfLeaked)
	return s
}

// warnIfLeaked runs as a finalizer for a Session that was never
// explicitly Closed. It only logs: a finalizer runs at an
// unpredictable time on an unpredictable goroutine, so it must not
// perform back-end I/O.
func (s *Session) warnIfLeaked() {
	if !s.closed {
		s.logger.Error("session: garbage collected without Close being called, transaction may be left open")
	}
}

func idKey(id any) string { return fmt.Sprintf("%v", id) }

// withTx embeds the session's open transaction, if any, into ctx so
// a driver's idprovider.Refiller can reuse it instead of opening a
// second connection while this one is already checked out.
func (s *Session) withTx(ctx context.Context) context.Context {
	if s.tx == nil {
		return ctx
	}
	return graphdriver.ContextWithTx(ctx, s.tx)
}

// IsOpen reports whether a back-end transaction is currently open.
func (s *Session) IsOpen() bool { return s.tx != nil && s.tx.IsOpen() }

// Open begins a back-end transaction if one is not already open.
func (s *Session) Open(ctx context.Context) error {
	if s.IsOpen() {
		return nil
	}
	tx, err := s.driver.BeginTx(ctx)
	if err != nil {
		return NewTransportError(err, "begin transaction")
	}
	s.tx = tx
	s.logger.Debug("session: transaction opened")
	return nil
}

// Close rolls back any open transaction and releases driver
// resources. It is safe to call Close more than once.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	runtime.SetFinalizer(s, nil)
	if s.IsOpen() {
		s.logger.Warn("session: closing with an open transaction, rolling back")
		return s.Rollback(ctx)
	}
	return nil
}
