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


package mock

import (
	"context"

	"github.com/poiesic/flowdex/ai"
)

// MockProvider is a test double for ai.Provider.
// It aggregates mock embedder and describer instances.
type MockProvider struct {
	embedder  *MockEmbedder
	describer *MockDescriber

	// ModelList is returned by Models. Defaults to a small fixed set.
	ModelList []ai.ModelInfo
	// Connected is returned by CheckConnection.
	Connected bool
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns the concrete type so tests can reach the underlying mocks for
// behavior injection and call-count assertions.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		describer: NewMockDescriber(),
		ModelList: []ai.ModelInfo{
			{Name: "nomic-embed-text"},
			{Name: "llava:7b"},
		},
		Connected: true,
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(embedder *MockEmbedder, describer *MockDescriber) *MockProvider {
	return &MockProvider{
		embedder:  embedder,
		describer: describer,
		Connected: true,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Describer returns the mock describer.
func (p *MockProvider) Describer() ai.ImageDescriber {
	return p.describer
}

// Models returns the configured model list.
func (p *MockProvider) Models(ctx context.Context) ([]ai.ModelInfo, error) {
	return p.ModelList, nil
}

// CheckConnection returns the configured connectivity flag.
func (p *MockProvider) CheckConnection(ctx context.Context) bool {
	return p.Connected
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockDescriber returns the underlying mock describer for test assertions.
func (p *MockProvider) GetMockDescriber() *MockDescriber {
	return p.describer
}
