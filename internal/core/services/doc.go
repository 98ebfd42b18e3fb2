// Package services contains the core business logic: hybrid retrieval
// (vector search merged with relational filtering) and the ingestion path
// that keeps the relational store and the vector collection in step.
package services
