package session

import (
	"context"

	"github.com/roach88/graphsession/internal/element"
	"github.com/roach88/graphsession/internal/graphdriver"
)

func (s *Session) exec(ctx context.Context, stmt graphdriver.Statement) error {
	rs, err := s.tx.Run(ctx, stmt)
	if err != nil {
		return NewTransportError(err, "run statement %q", stmt.Text)
	}
	defer rs.Close()
	for {
		_, ok, err := rs.Next(ctx)
		if err != nil {
			return NewTransportError(err, "read statement result")
		}
		if !ok {
			break
		}
	}
	return nil
}

// Commit persists every pending change in the fixed order: delete
// edges, delete vertices, create vertices, create edges, update
// edges, update vertices. On any statement error the back-end
// transaction is left open and untouched; the caller must call
// Rollback to discard the in-memory changes and abort the
// transaction.
func (s *Session) Commit(ctx context.Context) error {
	if !s.IsOpen() {
		return NewTransactionStateError("commit: no open transaction")
	}

	for _, e := range s.edgeDeleteQueue {
		if err := s.exec(ctx, e.DeleteStatement(s.edgeIDs.FieldName())); err != nil {
			return err
		}
	}
	for _, v := range s.vertexDeleteQueue {
		if err := s.exec(ctx, v.DeleteStatement(s.vertexIDs.FieldName())); err != nil {
			return err
		}
	}
	for _, v := range s.transientVertices {
		if err := s.exec(ctx, v.InsertStatement(s.vertexIDs.FieldName())); err != nil {
			return err
		}
	}
	for _, e := range s.transientEdges {
		if e.Out.Deleted || e.In.Deleted {
			return NewConsistencyError("edge %v references a deleted endpoint", e.ID)
		}
		if err := s.exec(ctx, e.InsertStatement(s.edgeIDs.FieldName())); err != nil {
			return err
		}
	}
	for _, e := range s.edgeUpdateQueue {
		if stmt, ok := e.UpdateStatement(s.edgeIDs.FieldName()); ok {
			if err := s.exec(ctx, stmt); err != nil {
				return err
			}
		}
	}
	for _, v := range s.vertexUpdateQueue {
		if stmt, ok := v.UpdateStatement(s.vertexIDs.FieldName()); ok {
			if err := s.exec(ctx, stmt); err != nil {
				return err
			}
		}
	}

	if err := s.tx.Success(ctx); err != nil {
		return NewTransportError(err, "commit transaction")
	}
	closeErr := s.tx.Close(ctx)
	s.tx = nil
	if closeErr != nil {
		return NewTransportError(closeErr, "close committed transaction")
	}

	s.finalizeCommit()
	return nil
}

func (s *Session) finalizeCommit() {
	for _, v := range s.transientVertices {
		v.FinalizeCommit()
	}
	s.transientVertices = make(map[string]*element.Vertex)

	for _, e := range s.transientEdges {
		e.FinalizeCommit()
	}
	s.transientEdges = make(map[string]*element.Edge)

	for _, v := range s.vertexUpdateQueue {
		v.FinalizeCommit()
	}
	s.vertexUpdateQueue = make(map[string]*element.Vertex)

	for _, e := range s.edgeUpdateQueue {
		e.FinalizeCommit()
	}
	s.edgeUpdateQueue = make(map[string]*element.Edge)

	s.vertexDeleteQueue = make(map[string]*element.Vertex)
	s.edgeDeleteQueue = make(map[string]*element.Edge)
	s.deletedVertexIDs = make(map[string]struct{})
	s.deletedEdgeIDs = make(map[string]struct{})
}
