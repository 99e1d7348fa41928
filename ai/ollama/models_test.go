package ollama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/flowdex/ai"
)

func testConfig(host string) *ai.Config {
	return ai.NewConfig(ai.WithHost(host))
}

func TestModelClientModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/tags", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"models":[{"name":"nomic-embed-text","size":274302450},{"name":"llava:7b","size":4733363377}]}`))
	}))
	defer srv.Close()

	client := newModelClient(testConfig(srv.URL))
	models, err := client.Models(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "nomic-embed-text", models[0].Name)
	assert.Equal(t, int64(274302450), models[0].Size)
}

func TestModelClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newModelClient(testConfig(srv.URL))
	_, err := client.Models(context.Background())
	assert.ErrorIs(t, err, ai.ErrInference)
}

func TestModelClientUnreachable(t *testing.T) {
	client := newModelClient(testConfig("http://127.0.0.1:1"))
	_, err := client.Models(context.Background())
	assert.ErrorIs(t, err, ai.ErrInference)
}

func TestSniffImageMIME(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "jpeg", data: []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}, want: "image/jpeg"},
		{name: "png", data: []byte("\x89PNG\r\n\x1a\n"), want: "image/png"},
		{name: "gif87", data: []byte("GIF87a......"), want: "image/gif"},
		{name: "gif89", data: []byte("GIF89a......"), want: "image/gif"},
		{name: "webp", data: []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), want: "image/webp"},
		{name: "unknown", data: []byte("not an image"), want: "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sniffImageMIME(tt.data))
		})
	}
}
