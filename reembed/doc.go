// Package reembed regenerates the embedding vectors of stored similarity
// records, for use after switching embedding models.
//
// Records are processed in batches with progress reporting, retry with
// exponential backoff on embedding failures, and vector normalization so the
// results work with cosine similarity search.
package reembed
