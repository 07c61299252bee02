// Package graphvalue defines the tagged variant used to carry property
// values across the session, the statement builders, and the driver
// boundary. Null is never a stored value: an absent property is simply
// missing from its owning element, not represented as Null.
package graphvalue
