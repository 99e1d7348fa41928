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


package flowdex

import (
	"log/slog"

	"github.com/poiesic/flowdex/ai"
	"github.com/poiesic/flowdex/ai/ollama"
	"github.com/poiesic/flowdex/extract"
	"github.com/poiesic/flowdex/ingestion"
	"github.com/poiesic/flowdex/store"
	"github.com/poiesic/flowdex/store/qdrant"
	"github.com/poiesic/flowdex/tracker"
)

// Service wires the vector store, model provider, extractor and tracker
// into one handle. It is the usual entry point for embedding flowdex
// into another program.
type Service struct {
	store     store.Store
	provider  ai.Provider
	extractor *extract.Extractor
	tracker   *tracker.Tracker
	logger    *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig      *ai.Config
	qdrantAPIKey  string
	cacheCapacity int
	provider      ai.Provider
}

// WithAIConfig overrides the default model provider configuration.
func WithAIConfig(cfg *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.aiConfig = cfg
	}
}

// WithQdrantAPIKey sets the api-key header sent with every store request.
func WithQdrantAPIKey(key string) ServiceOption {
	return func(o *serviceOptions) {
		o.qdrantAPIKey = key
	}
}

// WithCacheCapacity sets the image description cache size.
func WithCacheCapacity(n int) ServiceOption {
	return func(o *serviceOptions) {
		o.cacheCapacity = n
	}
}

// WithProvider substitutes a pre-built model provider, bypassing the
// Ollama connection entirely. Mainly useful for tests.
func WithProvider(p ai.Provider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = p
	}
}

func NewService(qdrantURL string, opts ...ServiceOption) (*Service, error) {
	// Apply options
	options := &serviceOptions{
		aiConfig:      ai.DefaultConfig(), // Default if not provided
		cacheCapacity: extract.DefaultCacheCapacity,
	}
	for _, opt := range opts {
		opt(options)
	}

	// Connect to the vector store
	var storeOpts []qdrant.Option
	if options.qdrantAPIKey != "" {
		storeOpts = append(storeOpts, qdrant.WithAPIKey(options.qdrantAPIKey))
	}
	st, err := qdrant.NewClient(qdrantURL, storeOpts...)
	if err != nil {
		return nil, err
	}

	// Create the model provider with configured settings
	provider := options.provider
	if provider == nil {
		provider, err = ollama.NewProvider(options.aiConfig)
		if err != nil {
			st.Close()
			return nil, err
		}
	}

	// Create the extractor with a shared description cache
	cache, err := extract.NewImageDescriptionCache(options.cacheCapacity)
	if err != nil {
		provider.Close()
		st.Close()
		return nil, err
	}
	extractor, err := extract.New(provider.Describer(), extract.WithCache(cache))
	if err != nil {
		provider.Close()
		st.Close()
		return nil, err
	}

	return &Service{
		store:     st,
		provider:  provider,
		extractor: extractor,
		tracker:   tracker.New(),
		logger:    slog.Default(),
	}, nil
}

func (s *Service) Close() error {
	// Close the model provider first
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing model provider", "err", err)
	}

	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing vector store", "err", err)
		return err
	}
	return nil
}

func (s *Service) Store() store.Store {
	return s.store
}

func (s *Service) Provider() ai.Provider {
	return s.provider
}

func (s *Service) Extractor() *extract.Extractor {
	return s.extractor
}

func (s *Service) Tracker() *tracker.Tracker {
	return s.tracker
}

func (s *Service) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(s.store, s.provider, s.extractor, s.tracker, opts...)
}
