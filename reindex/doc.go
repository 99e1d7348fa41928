// Package reindex provides functionality for regenerating the embeddings
// of every chunk already stored in a flow's collection, typically after
// switching to a different embedding model.
//
// This package supports batch processing of stored points, progress
// tracking, and retry logic with exponential backoff.
package reindex
