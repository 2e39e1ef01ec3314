// Package sqlite implements the VariantStore port over an embedded
// SQLite engine (modernc.org/sqlite, pure Go).
//
// The dataset arrives as an opaque byte image of a SQLite database
// holding one table, "variants". Open materialises the image into a
// private temp file and opens it read-only; from then on the store
// serves the two supported query shapes, exact-key batch lookup and
// dynamic filtered count+page, until Close removes the file.
package sqlite
