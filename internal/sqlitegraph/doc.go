// Package sqlitegraph is a reference graphdriver.Driver implementation
// backed by github.com/mattn/go-sqlite3. It stands in for a remote
// graph back-end in tests, examples, and the CLI: real SQL statements
// against a real embedded database, persisting vertices and edges as
// rows and recognizing the fixed, small set of statement shapes this
// module's session and element packages generate.
//
// sqlitegraph is not a general query-language engine: it classifies
// each incoming graphdriver.Statement by the literal template that
// produced it and executes the corresponding SQL, rather than parsing
// arbitrary query text. Because every statement this module ever
// sends is generated by one of a handful of functions in package
// element, this is sufficient to exercise the full session lifecycle
// against durable storage.
package sqlitegraph
