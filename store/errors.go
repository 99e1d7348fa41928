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


package store

import "errors"

var (
	// ErrCollectionNotFound indicates an operation targeted a collection
	// that does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrDimensionMismatch indicates an existing collection is configured
	// with a different vector size than requested.
	ErrDimensionMismatch = errors.New("collection vector size mismatch")

	// ErrRequestFailed indicates the vector store rejected a request or
	// was unreachable.
	ErrRequestFailed = errors.New("vector store request failed")
)
