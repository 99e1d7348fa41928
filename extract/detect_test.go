package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/flowdex/core"
)

func TestDetectTypeByExtension(t *testing.T) {
	tests := []struct {
		path string
		want core.FileType
	}{
		{path: "notes.txt", want: core.FileTypeText},
		{path: "README.md", want: core.FileTypeText},
		{path: "script.PY", want: core.FileTypeText},
		{path: "data.csv", want: core.FileTypeText},
		{path: "report.pdf", want: core.FileTypePDF},
		{path: "deck.pptx", want: core.FileTypePPTX},
		{path: "sheet.xlsx", want: core.FileTypeXLSX},
		{path: "memo.docx", want: core.FileTypeDOCX},
		{path: "photo.JPG", want: core.FileTypeImage},
		{path: "diagram.webp", want: core.FileTypeImage},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectType(tt.path))
		})
	}
}

func TestDetectTypeContentProbe(t *testing.T) {
	dir := t.TempDir()

	textFile := filepath.Join(dir, "noext")
	require.NoError(t, os.WriteFile(textFile, []byte("plain utf-8 content\n"), 0o644))
	assert.Equal(t, core.FileTypeText, DetectType(textFile))

	pdfFile := filepath.Join(dir, "doc")
	require.NoError(t, os.WriteFile(pdfFile, []byte("%PDF-1.7\n..."), 0o644))
	assert.Equal(t, core.FileTypePDF, DetectType(pdfFile))
}

func TestDetectTypeUnknown(t *testing.T) {
	dir := t.TempDir()

	// binary junk with NUL bytes and no recognizable extension
	exe := filepath.Join(dir, "tool.exe")
	require.NoError(t, os.WriteFile(exe, []byte{0x4d, 0x5a, 0x00, 0x01, 0x02, 0x00}, 0o644))
	assert.Equal(t, core.FileTypeUnknown, DetectType(exe))

	assert.Equal(t, core.FileTypeUnknown, DetectType(filepath.Join(dir, "does-not-exist")))
}

func TestIsLikelyText(t *testing.T) {
	assert.True(t, isLikelyText([]byte("hello")))
	assert.True(t, isLikelyText([]byte("héllo wörld")))
	assert.False(t, isLikelyText([]byte{'a', 0x00, 'b'}))
	assert.False(t, isLikelyText([]byte{0xff, 0xfe, 0xfd, 0xfc, 0xfb}))

	// a multibyte rune cut at the read boundary is still text
	truncated := []byte("hé")[:2]
	assert.True(t, isLikelyText(truncated))
}
