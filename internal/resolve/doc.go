// Package resolve defines the typed object model for the host grading
// application's scripting surface.
//
// The host owns every object reachable from Host: projects, timelines,
// timeline items with their node graphs, and the media pool. Callers request
// references, invoke methods, and discard the references when done; nothing
// here manages host object lifecycles. Implementations live in the bridge
// subpackage (live host over a unix socket) and resolvetest (in-memory fake
// for tests).
//
// Host calls that the scripting surface reports as failed (a false or nil
// return) surface as ErrHostRefused wrapped with the operation name.
package resolve
