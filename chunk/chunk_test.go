package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitWindowPlacement(t *testing.T) {
	text := strings.Repeat("a", 2500)

	chunks, err := Split(text, 1000, 200)
	require.NoError(t, err)
	require.Len(t, chunks, 4)

	// stride is 800, so windows start at 0, 800, 1600 and 2400
	assert.Len(t, chunks[0], 1000)
	assert.Len(t, chunks[1], 1000)
	assert.Len(t, chunks[2], 900)
	assert.Len(t, chunks[3], 100)
}

func TestSplitCoversEveryByte(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 300; i++ {
		sb.WriteString("word")
		sb.WriteByte(byte('a' + i%26))
	}
	text := sb.String()

	size, overlap := 128, 32
	chunks, err := Split(text, size, overlap)
	require.NoError(t, err)

	stride := size - overlap
	for i, c := range chunks {
		start := i * stride
		end := start + size
		if end > len(text) {
			end = len(text)
		}
		assert.Equal(t, text[start:end], c, "chunk %d", i)
	}
	// the final window must reach the end of the input
	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(text, last))
}

func TestSplitShortText(t *testing.T) {
	chunks, err := Split("tiny", 1000, 200)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "tiny", chunks[0])
}

func TestSplitEmptyText(t *testing.T) {
	chunks, err := Split("", 1000, 200)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplitDropsWhitespaceWindows(t *testing.T) {
	text := "hello" + strings.Repeat(" ", 10) + "world"

	chunks, err := Split(text, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "world"}, chunks)
}

func TestSplitInvalidParameters(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr error
	}{
		{name: "zero size", size: 0, overlap: 0, wantErr: ErrInvalidSize},
		{name: "negative size", size: -5, overlap: 0, wantErr: ErrInvalidSize},
		{name: "negative overlap", size: 100, overlap: -1, wantErr: ErrInvalidStride},
		{name: "overlap equals size", size: 100, overlap: 100, wantErr: ErrInvalidStride},
		{name: "overlap exceeds size", size: 100, overlap: 150, wantErr: ErrInvalidStride},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split("some text", tt.size, tt.overlap)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
