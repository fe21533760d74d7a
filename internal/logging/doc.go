// Package logging builds slog loggers for the CLI.
//
// Commands print their primary output to stdout directly; loggers carry the
// diagnostic stream (bridge traffic, render polling, doctor detail) and
// honour the configured level and format. Console output uses a compact
// text handler, json output a line-delimited handler suitable for piping.
package logging
