// Package config loads a YAML document describing a graph connection
// and validates it against an embedded CUE schema before handing the
// caller a Spec it can use to construct a graph.Graph. It follows the
// same "parse then schema-validate" shape the reference implementation
// uses for its own spec documents, substituting YAML for the
// document format since a graph connection has no reason to carry
// CUE's richer constraint language itself.
package config
