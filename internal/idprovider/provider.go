package idprovider

import "context"

// Provider allocates and canonicalizes element identifiers.
// Implementations must be safe for concurrent use: a single Provider
// is shared by every Session obtained from a Graph.
type Provider interface {
	// FieldName is the property name under which the back-end
	// stores this provider's identifier for an element.
	FieldName() string
	// Generate returns a new, never-before-issued identifier.
	Generate(ctx context.Context) (any, error)
	// Canonicalize converts a raw value read back from the driver
	// into the canonical Go representation this provider uses, so
	// that identifiers compare equal regardless of the concrete
	// type the driver surfaced them as.
	Canonicalize(raw any) (any, error)
}
