package extract

import (
	"bytes"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/flowdex/core"
)

// extTypes maps well-known extensions straight to a file type. This is
// the first and cheapest detection stage.
var extTypes = map[string]core.FileType{
	".txt":  core.FileTypeText,
	".md":   core.FileTypeText,
	".py":   core.FileTypeText,
	".js":   core.FileTypeText,
	".html": core.FileTypeText,
	".css":  core.FileTypeText,
	".json": core.FileTypeText,
	".xml":  core.FileTypeText,
	".csv":  core.FileTypeText,

	".pdf":  core.FileTypePDF,
	".pptx": core.FileTypePPTX,
	".xlsx": core.FileTypeXLSX,
	".docx": core.FileTypeDOCX,

	".jpg":  core.FileTypeImage,
	".jpeg": core.FileTypeImage,
	".png":  core.FileTypeImage,
	".gif":  core.FileTypeImage,
	".bmp":  core.FileTypeImage,
	".tiff": core.FileTypeImage,
	".webp": core.FileTypeImage,
}

// DetectType determines the file type of path using three stages in
// order: the extension map, the platform MIME table, and finally a
// content probe. Files that fail all three stages are unknown.
func DetectType(path string) core.FileType {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extTypes[ext]; ok {
		return t
	}

	if t, ok := typeFromMIME(mime.TypeByExtension(ext)); ok {
		return t
	}

	return probeContent(path)
}

// typeFromMIME maps a MIME type string onto a file type.
func typeFromMIME(mimeType string) (core.FileType, bool) {
	if mimeType == "" {
		return core.FileTypeUnknown, false
	}
	// strip parameters like "; charset=utf-8"
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	mimeType = strings.TrimSpace(mimeType)

	switch {
	case mimeType == "application/pdf":
		return core.FileTypePDF, true
	case mimeType == "application/vnd.openxmlformats-officedocument.presentationml.presentation":
		return core.FileTypePPTX, true
	case mimeType == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return core.FileTypeXLSX, true
	case mimeType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return core.FileTypeDOCX, true
	case strings.HasPrefix(mimeType, "image/"):
		return core.FileTypeImage, true
	case strings.HasPrefix(mimeType, "text/"):
		return core.FileTypeText, true
	default:
		return core.FileTypeUnknown, false
	}
}

// probeContent inspects the leading bytes of the file. PDFs are
// recognized by their signature; anything that decodes as UTF-8 is
// treated as text.
func probeContent(path string) core.FileType {
	f, err := os.Open(path)
	if err != nil {
		return core.FileTypeUnknown
	}
	defer f.Close()

	buf := make([]byte, 8192)
	n, err := f.Read(buf)
	if n == 0 || (err != nil && n <= 0) {
		return core.FileTypeUnknown
	}
	buf = buf[:n]

	if bytes.HasPrefix(buf, []byte("%PDF-")) {
		return core.FileTypePDF
	}
	if isLikelyText(buf) {
		return core.FileTypeText
	}
	return core.FileTypeUnknown
}

// isLikelyText reports whether buf decodes as UTF-8 without NUL bytes.
// The final rune may be cut off by the read boundary, so a trailing
// invalid sequence shorter than utf8.UTFMax is tolerated.
func isLikelyText(buf []byte) bool {
	if bytes.IndexByte(buf, 0) >= 0 {
		return false
	}
	for i := 0; i < len(buf); {
		r, size := utf8.DecodeRune(buf[i:])
		if r == utf8.RuneError && size == 1 {
			return len(buf)-i < utf8.UTFMax
		}
		i += size
	}
	return true
}
