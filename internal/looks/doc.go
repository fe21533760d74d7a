// Package looks persists the local look library in SQLite.
//
// A look is a named CDL correction with a description. The store seeds a set
// of builtin cinematic looks on first open; user-saved looks live alongside
// them. Builtins can be applied and inspected but not overwritten or
// deleted. The database is owned entirely by gradectl; the host never reads
// it — applying a look writes plain node color data through the host API.
package looks
