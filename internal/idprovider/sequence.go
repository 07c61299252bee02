package idprovider

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// DefaultSequenceFieldName is the property name under which a
// Sequence-allocated identifier is stored.
const DefaultSequenceFieldName = "id"

// DefaultSequenceNodeLabel labels the back-end row that holds the
// sequence counter.
const DefaultSequenceNodeLabel = "UniqueIdentifierGenerator"

// DefaultPoolSize is the number of identifiers reserved per refill.
const DefaultPoolSize = 1000

// Refiller executes the back-end statement that atomically advances
// the sequence counter by poolSize and returns its new top value.
// An implementation may run it on the caller's transaction carried in
// ctx (graphdriver.TxFromContext) or in a short-lived transaction of
// its own.
type Refiller interface {
	ReserveIDPool(ctx context.Context, sequenceLabel string, poolSize int64) (nextTop int64, err error)
}

// Sequence is an idprovider.Provider that allocates identifiers from a
// local counter backed by a pool reserved from the back-end. The fast
// path (counter still inside the current pool) never touches the
// back-end; only a pool-exhausted allocation takes the monitor and
// issues one statement.
type Sequence struct {
	fieldName     string
	sequenceLabel string
	poolSize      int64
	refiller      Refiller

	counter atomic.Int64
	maximum atomic.Int64
	monitor sync.Mutex
}

// NewSequence constructs a Sequence provider. An empty fieldName or
// sequenceLabel, or a non-positive poolSize, fall back to the package
// defaults.
func NewSequence(refiller Refiller, fieldName, sequenceLabel string, poolSize int64) *Sequence {
	if fieldName == "" {
		fieldName = DefaultSequenceFieldName
	}
	if sequenceLabel == "" {
		sequenceLabel = DefaultSequenceNodeLabel
	}
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	return &Sequence{
		fieldName:     fieldName,
		sequenceLabel: sequenceLabel,
		poolSize:      poolSize,
		refiller:      refiller,
	}
}

// FieldName implements Provider.
func (s *Sequence) FieldName() string { return s.fieldName }

// Generate implements Provider, allocating the next identifier from
// the local pool and transparently refilling it from the back-end
// when exhausted.
func (s *Sequence) Generate(ctx context.Context) (any, error) {
	max := s.maximum.Load()
	id := s.counter.Add(1)
	for id > max {
		s.monitor.Lock()
		// Re-check: another goroutine may have refilled while we
		// were waiting for the monitor.
		max = s.maximum.Load()
		id = s.counter.Add(1)
		if id > max {
			nextTop, err := s.refiller.ReserveIDPool(ctx, s.sequenceLabel, s.poolSize)
			if err != nil {
				s.monitor.Unlock()
				return nil, fmt.Errorf("idprovider: reserve pool: %w", err)
			}
			// The window is (max, nextTop], not (nextTop-poolSize,
			// nextTop]: the back-end's first-ever reservation for a
			// sequence returns next_id = 1 literally rather than
			// 1 + poolSize, so the window it grants is narrower than
			// poolSize until the counter has been primed once.
			s.counter.Store(max)
			s.maximum.Store(nextTop)
			max = s.maximum.Load()
			id = s.counter.Add(1)
		}
		s.monitor.Unlock()
	}
	return id, nil
}

// Canonicalize implements Provider, accepting any of the integer
// forms a driver might surface and normalizing to int64.
func (s *Sequence) Canonicalize(raw any) (any, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return nil, fmt.Errorf("idprovider: cannot canonicalize sequence id of type %T", raw)
	}
}
