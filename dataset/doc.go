// Package dataset holds the row-level primitives shared by the engine:
// feature vectors, schemas, and the lazy single-pass Source contract used
// for both the rows being explained and the background (sampling) rows.
//
// A Source is pulled one row at a time and may block on I/O inside Next.
// Callers own the Source and must Close it on every exit path; the engine's
// producers do so for the sources handed to them.
package dataset
