package element

import "github.com/roach88/graphsession/internal/graphvalue"

// VertexProperty is a single key/value entry owned by a Vertex. It
// carries its own identifier, allocated independently of the owning
// vertex's identifier, but has no meta-properties of its own.
type VertexProperty struct {
	ID    any
	Key   string
	Value graphvalue.Value
	Owner *Vertex
}
