// Package indexer builds the course vector index from the catalog.
//
// Every course is rendered to its full document text, embedded in batches,
// normalized to unit length and upserted into a storage.VectorIndex keyed by
// course string. A course whose document hash matches the stored entry is
// skipped unless Config.Force is set, so rerunning the indexer after a
// catalog refresh only embeds what changed. Embedding calls are retried with
// exponential backoff.
package indexer
