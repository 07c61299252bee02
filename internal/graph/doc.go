// Package graph is the entry point for this module: a per-caller
// session factory holding the driver, read partition, and identifier
// providers an application constructs once and shares across
// goroutines.
package graph
