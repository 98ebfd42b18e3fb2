// Package memory provides in-memory implementations of the driven storage
// ports, used in tests and as a reference for the persistent adapters.
package memory
