// Package session implements the transactional working set layered
// over a graphdriver.Driver: registries of live, deleted, and
// transient elements; a bridge between back-end query results and the
// in-memory element graph; and commit/rollback orchestration that
// emits statements in the fixed order delete-edges, delete-vertices,
// create-vertices, create-edges, update-edges, update-vertices.
//
// A Session is not safe for concurrent mutation. Each caller obtains
// its own Session from a shared, immutable graph.Graph.
package session
