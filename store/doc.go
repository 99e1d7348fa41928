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


// Package store provides the vector storage abstraction for flowdex.
//
// This package defines the Store interface that decouples the ingestion
// pipeline from the concrete vector database. Collections are scoped
// per flow (optionally per user) and every point carries the metadata
// needed to address a document's vectors by file path.
//
// # Constructor Return Type Pattern
//
// Public constructors of implementation packages return the store.Store
// interface to enforce abstraction:
//
//	s, err := qdrant.NewClient("http://localhost:6333")  // returns store.Store
//
// Test doubles return concrete types so tests can inspect state.
package store
