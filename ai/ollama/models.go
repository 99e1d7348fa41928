package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/poiesic/flowdex/ai"
)

// modelClient calls the Ollama tags endpoint directly. langchaingo has
// no surface for model discovery, so this stays a small hand-rolled
// HTTP client.
type modelClient struct {
	host   string
	client *http.Client
}

func newModelClient(config *ai.Config) *modelClient {
	return &modelClient{
		host:   config.Host,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type tagsResponse struct {
	Models []ai.ModelInfo `json:"models"`
}

// Models lists the models available on the server.
func (c *modelClient) Models(ctx context.Context) ([]ai.ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrInference, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: tags returned status %d: %s", ai.ErrInference, resp.StatusCode, string(body))
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("%w: decode tags response: %w", ai.ErrMalformedResponse, err)
	}
	return tags.Models, nil
}
