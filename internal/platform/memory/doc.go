// Package memory provides in-memory implementations of the storage
// interfaces defined in the internal/store package. They serve local
// development mode and tests; the composition root swaps them for the
// PostgreSQL implementations in production.
package memory
