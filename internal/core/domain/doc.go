// Package domain contains the core entities of the legal assistant:
// legal documents, their articles, amendments, and the search types
// shared between the retrieval services and the adapters.
package domain
