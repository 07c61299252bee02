// Package graphtx binds a session.Session's implicit transaction
// lifecycle to an explicit begin/commit/rollback protocol, opening the
// underlying back-end transaction lazily at the first read or write.
package graphtx
