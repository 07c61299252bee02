// Package partition declares which vertices a Session may observe and
// generates the MATCH-pattern fragments needed to restrict queries to
// that subset. Three constructors are provided: Unrestricted (no
// filtering), AllLabels (a vertex must carry every given label), and
// AnyLabel (a vertex must carry at least one given label).
package partition
