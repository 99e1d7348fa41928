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


// Package ai provides abstractions for the inference services used by
// Flowdex.
//
// This package defines interfaces for text embedding and image
// description. It follows the dependency inversion principle, allowing
// the ingestion pipeline to depend on abstractions rather than concrete
// implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: generates vector embeddings from text and reports the
//     model's vector dimensionality
//   - ImageDescriber: produces text descriptions of images via a vision
//     model
//   - Provider: aggregates the services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/ollama: production implementation backed by an Ollama server
//   - ai/mock: test doubles for unit testing without external services
//
// # Constructor Return Type Pattern
//
// Public constructors (ollama.NewProvider) return INTERFACE types to
// enforce abstraction and prevent accidental coupling to concrete
// implementations. Test utility constructors (mock.NewMockEmbedder,
// mock.NewMockDescriber) return CONCRETE types to enable behavior
// injection via their function fields and call-count assertions.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := ollama.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "Hello world")
//	desc, err := provider.Describer().DescribeImage(ctx, pngBytes, "")
package ai
