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


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for AI service providers.
type Config struct {
	// Host is the base URL of the inference server.
	// Example: "http://localhost:11434" for a local Ollama instance.
	Host string

	// EmbeddingModel is the model identifier used for text embeddings.
	// Example: "nomic-embed-text"
	EmbeddingModel string

	// VisionModel is the model identifier used for image description.
	// Example: "llava:7b"
	VisionModel string

	// EmbedTimeout bounds a single embedding request.
	// Default: 30s
	EmbedTimeout time.Duration

	// VisionTimeout bounds a single image description request.
	// Vision inference is far slower than embedding, hence the
	// larger default of 120s.
	VisionTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the inference server base URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithVisionModel sets the vision model identifier.
func WithVisionModel(model string) ConfigOption {
	return func(c *Config) {
		c.VisionModel = model
	}
}

// WithEmbedTimeout sets the per-request embedding timeout.
func WithEmbedTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.EmbedTimeout = d
	}
}

// WithVisionTimeout sets the per-request vision timeout.
func WithVisionTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.VisionTimeout = d
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// Ollama instance.
func DefaultConfig() *Config {
	return &Config{
		Host:           "http://localhost:11434",
		EmbeddingModel: "nomic-embed-text",
		VisionModel:    "llava:7b",
		EmbedTimeout:   30 * time.Second,
		VisionTimeout:  120 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("http://ollama.internal:11434"),
//	    ai.WithEmbeddingModel("mxbai-embed-large"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// Trailing slashes are stripped from the host so that request paths
// can be appended directly.
func (c *Config) Normalize() {
	c.Host = strings.TrimSuffix(c.Host, "/")
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.VisionModel == "" {
		return errors.New("ai config: VisionModel is required")
	}
	if c.EmbedTimeout <= 0 {
		return errors.New("ai config: EmbedTimeout must be positive")
	}
	if c.VisionTimeout <= 0 {
		return errors.New("ai config: VisionTimeout must be positive")
	}
	return nil
}
