// Package driven defines the outbound ports of the retrieval pipeline:
// interfaces for the text extractor, object store, embedding service,
// vector index and completion service. Core services depend only on
// these interfaces; adapters provide the implementations, and tests
// substitute fakes.
package driven
