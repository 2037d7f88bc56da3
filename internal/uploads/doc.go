// Package uploads defines the upload record model and its in-memory SQLite
// store. Records move through a fixed stage sequence with monotonic status
// transitions; the store lists them newest first and prunes terminal history
// past a configured retention limit.
package uploads
