package tracker

// Status describes how far an ingestion job has progressed.
type Status string

const (
	// StatusProcessing is the initial state, set when a job is accepted
	// but has not yet been picked up by a worker.
	StatusProcessing Status = "processing"
	// StatusReadingFile is set while the document is being extracted.
	StatusReadingFile Status = "reading_file"
	// StatusCreatingChunks is set while the extracted text is split.
	StatusCreatingChunks Status = "creating_chunks"
	// StatusGeneratingEmbeddings is set while chunk vectors are computed.
	StatusGeneratingEmbeddings Status = "generating_embeddings"
	// StatusUploading is set while vectors are written to the store.
	StatusUploading Status = "uploading"
	// StatusFailed is terminal. Failed entries stay visible until
	// explicitly removed or expired by CleanupStale.
	StatusFailed Status = "failed"
)

// order maps each non-terminal status to its position in the pipeline.
var order = map[Status]int{
	StatusProcessing:           0,
	StatusReadingFile:          1,
	StatusCreatingChunks:       2,
	StatusGeneratingEmbeddings: 3,
	StatusUploading:            4,
}

// CanTransition reports whether a job may move from one status to
// another. Progress is strictly forward through the pipeline stages,
// any stage may fail, and failed is terminal.
func CanTransition(from, to Status) bool {
	if from == StatusFailed {
		return false
	}
	if to == StatusFailed {
		return true
	}
	fromPos, ok := order[from]
	if !ok {
		return false
	}
	toPos, ok := order[to]
	if !ok {
		return false
	}
	return toPos == fromPos+1
}
