package ingestion

import (
	"context"

	"github.com/poiesic/flowdex/core"
)

// Extractor converts files into plain text. Satisfied by
// *extract.Extractor; tests substitute lightweight doubles.
type Extractor interface {
	// DetectType reports the file type of path without reading it fully.
	DetectType(path string) core.FileType

	// Extract converts the file at path into plain text, describing
	// embedded images when includeImages is set.
	Extract(ctx context.Context, path string, includeImages bool) (string, core.FileType, error)
}
