package core

// FileType identifies the format of an uploaded document.
// It drives extractor dispatch and is stored alongside every vector
// so that search results can report the origin format.
type FileType string

const (
	// FileTypeText covers plain-text formats (txt, markdown, source code, csv).
	FileTypeText FileType = "text"
	// FileTypePDF is a PDF document.
	FileTypePDF FileType = "pdf"
	// FileTypePPTX is a PowerPoint presentation.
	FileTypePPTX FileType = "pptx"
	// FileTypeXLSX is an Excel workbook.
	FileTypeXLSX FileType = "xlsx"
	// FileTypeDOCX is a Word document.
	FileTypeDOCX FileType = "docx"
	// FileTypeImage is a standalone raster image.
	FileTypeImage FileType = "image"
	// FileTypeUnknown is a file whose format could not be determined.
	// Unknown files are rejected before any processing starts.
	FileTypeUnknown FileType = "unknown"
)

// KnownFileTypes lists every type the pipeline can process.
// FileTypeUnknown is deliberately excluded.
var KnownFileTypes = []FileType{
	FileTypeText,
	FileTypePDF,
	FileTypePPTX,
	FileTypeXLSX,
	FileTypeDOCX,
	FileTypeImage,
}

// Valid reports whether the file type is one the pipeline can process.
func (t FileType) Valid() bool {
	for _, known := range KnownFileTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t FileType) String() string { return string(t) }

// Scope identifies the tenant boundary a document belongs to.
// Every vector-store operation is confined to a single scope.
type Scope struct {
	// UserID optionally namespaces collections per user.
	UserID string
	// FlowID identifies the flow the document was uploaded to.
	FlowID string
}

// CollectionName derives the vector-store collection name for this scope.
// With a UserID the name is "<userID>_<flowID>", otherwise just the flow ID.
func (s Scope) CollectionName() string {
	if s.UserID != "" {
		return s.UserID + "_" + s.FlowID
	}
	return s.FlowID
}
