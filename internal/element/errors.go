package element

import "errors"

// ErrMultipleProperties is returned by Vertex.PropertySingle when the
// requested key holds more than one value (List or Set cardinality).
var ErrMultipleProperties = errors.New("element: key has multiple properties")

// ErrNoSuchProperty is returned by Vertex.PropertySingle when the
// requested key has no value.
var ErrNoSuchProperty = errors.New("element: no such property")

// ErrCardinalityConflict is returned when SetProperty is called for a
// key with a cardinality different from the one already recorded for
// it.
var ErrCardinalityConflict = errors.New("element: cardinality conflict for existing property")

// ErrLabelRejected is returned when AddLabel or RemoveLabel is called
// with a label the partition reserves for membership.
var ErrLabelRejected = errors.New("element: label is reserved by the read partition")
