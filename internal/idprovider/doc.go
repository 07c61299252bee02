// Package idprovider allocates element identifiers for vertices and
// edges. Two strategies are provided: Native, which defers to a
// client-generated UUID when the back-end has no identity concept of
// its own, and Sequence, which pools a range of integer identifiers
// from a counter row maintained by the back-end so that most
// allocations never round-trip.
package idprovider
