// Package formdef exposes the public contracts for reading legacy form
// definitions: Source describes where a definition lives, Loader fetches it
// into a Document, and Parser decodes the Document into the Definition model
// the migration pipeline consumes. Implementations live under
// internal/formdef so decoding details stay out of the public surface, as
// laid out in go-formport.md:48-95.
package formdef
