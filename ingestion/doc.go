// Package ingestion provides pipeline orchestration for indexing
// documents into the vector store.
//
// The Pipeline type manages the ingestion workflow for uploaded files,
// including:
//   - File-type detection and duplicate rejection up front
//   - Content extraction, chunking and embedding in the background
//   - Progress tracking observable while a document processes
//
// Background work runs on a bounded worker pool. A failed job leaves a
// failed tracker entry behind for inspection; a successful job removes
// its entry and deletes the source file.
package ingestion
