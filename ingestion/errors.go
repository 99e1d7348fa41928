package ingestion

import "errors"

var (
	// ErrStoreRequired is returned when a vector store is not provided.
	ErrStoreRequired = errors.New("vector store required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrExtractorRequired is returned when a content extractor is not provided.
	ErrExtractorRequired = errors.New("content extractor required")

	// ErrTrackerRequired is returned when a processing tracker is not provided.
	ErrTrackerRequired = errors.New("processing tracker required")

	// ErrDuplicateFile indicates the file is already indexed in the
	// target collection. Re-uploads must be deleted first.
	ErrDuplicateFile = errors.New("file already indexed in collection")

	// ErrFileNotIndexed indicates a delete request for a file with no
	// points in the target collection.
	ErrFileNotIndexed = errors.New("file not indexed in collection")
)
