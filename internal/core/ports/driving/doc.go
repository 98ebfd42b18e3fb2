// Package driving provides interfaces for external actors (primary/inbound
// ports): retrieval and ingestion as exposed to the CLI and other front
// ends.
package driving
