// Package cdl models ASC CDL color corrections and their XML interchange
// format.
//
// A ColorCorrection carries the slope/offset/power triples and saturation
// value that the host exposes per node. The XML codec reads and writes
// ColorCorrectionCollection documents so grades can round-trip with
// Baselight, Nuke, and other CDL-aware tools.
package cdl
