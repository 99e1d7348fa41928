// Package chunk splits extracted document text into fixed-size
// overlapping windows suitable for embedding.
package chunk

import "strings"

// Default window parameters, applied when a caller passes zero values
// through the ingestion pipeline.
const (
	DefaultSize    = 1000
	DefaultOverlap = 200
)

// Validate checks window parameters without splitting anything.
// Returns ErrInvalidSize if size is not positive, and ErrInvalidStride
// if overlap is negative or overlap >= size.
func Validate(size, overlap int) error {
	if size <= 0 {
		return ErrInvalidSize
	}
	if overlap < 0 || overlap >= size {
		return ErrInvalidStride
	}
	return nil
}

// Split cuts text into windows of at most size bytes, each starting
// stride bytes after the previous one, where stride = size - overlap.
// Consecutive windows therefore share overlap bytes of context.
// Windows containing only whitespace are dropped.
func Split(text string, size, overlap int) ([]string, error) {
	if err := Validate(size, overlap); err != nil {
		return nil, err
	}

	stride := size - overlap
	chunks := make([]string, 0, (len(text)+stride-1)/max(stride, 1))
	for off := 0; off < len(text); off += stride {
		end := off + size
		if end > len(text) {
			end = len(text)
		}
		window := text[off:end]
		if strings.TrimSpace(window) == "" {
			continue
		}
		chunks = append(chunks, window)
	}
	return chunks, nil
}
