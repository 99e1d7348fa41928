// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ollama

import (
	"context"
	"log/slog"

	"github.com/poiesic/flowdex/ai"
)

// Provider implements ai.Provider backed by an Ollama server.
// It manages embedder and describer instances sharing one configuration.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	describer *Describer
	models    *modelClient
	logger    *slog.Logger
}

// NewProvider creates a new AI provider backed by Ollama.
// The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to Ollama-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	describer, err := newDescriber(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:    config,
		embedder:  embedder,
		describer: describer,
		models:    newModelClient(config),
		logger:    slog.Default().With("component", "ollama-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Describer returns the image description service.
func (p *Provider) Describer() ai.ImageDescriber {
	return p.describer
}

// Models lists the models available on the Ollama server.
func (p *Provider) Models(ctx context.Context) ([]ai.ModelInfo, error) {
	return p.models.Models(ctx)
}

// CheckConnection reports whether the Ollama server answers the tags
// endpoint.
func (p *Provider) CheckConnection(ctx context.Context) bool {
	_, err := p.models.Models(ctx)
	return err == nil
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing ollama provider")
	return nil
}
