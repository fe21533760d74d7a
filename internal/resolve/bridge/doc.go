// Package bridge implements the resolve object model against a live host.
//
// The host only exposes its scripting objects in-process, so a small helper
// script (scripts/resolve-bridge.py) runs inside the host's scripting runtime
// and serves JSON-RPC over a unix domain socket. Every host object is
// addressed by an opaque handle string; a single Bridge.Invoke method carries
// {handle, method, args} and returns the raw JSON result. The helper
// normalizes host quirks on its side (frame-keyed marker maps become arrays,
// render job dicts use stable snake_case keys) so this package only decodes.
//
// Handles are owned by the bridge session. They become invalid when the
// connection closes; callers fetch fresh references on every run, matching
// how the scripting surface is meant to be used.
package bridge
