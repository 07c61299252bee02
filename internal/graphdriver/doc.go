// Package graphdriver defines the boundary between the session and
// the back-end: the minimal set of operations a transport must offer
// (begin a transaction, run a parameterized statement, commit or
// abort, close) and the typed row/value accessors the session needs
// to interpret results. Package sqlitegraph provides a reference
// implementation for tests, examples, and the CLI.
package graphdriver
