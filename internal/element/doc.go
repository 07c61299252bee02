// Package element implements the state machines for vertices, edges,
// and vertex properties that back a Session's transactional working
// set: dirty/transient/deleted lifecycle tracking, and the
// parameterized MATCH/CREATE/MERGE/DELETE statement templates used to
// persist them at commit.
//
// Elements do not call back into the session that owns them; Session
// drives mutation through these types and reacts to the dirty flags
// they expose, keeping the dependency one-directional.
package element
