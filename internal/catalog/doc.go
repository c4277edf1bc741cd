// Package catalog defines the game collection data model.
//
// This package contains the record types shared by every other internal
// package; catalog imports nothing internal. It also owns the small pieces
// of domain logic that belong to the model itself:
//   - the closed Console enumeration and its lenient parser
//   - the data URL codec used to carry binary artwork through JSON
//   - the monotonic Clock that stamps CreatedAt/UpdatedAt
//   - the ID generators
//
// Artwork is a mutually exclusive union: a record holds either a local
// Image (Jacket) or a remote URL (JacketURL), never both. The editor and the
// importer enforce this; the store persists whatever it is given.
package catalog
