// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the relational store, the vector index and
// the embedding service.
package driven
