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

import "errors"

var (
	// ErrInference indicates the inference server returned an error or
	// was unreachable.
	ErrInference = errors.New("inference request failed")

	// ErrTimeout indicates an inference request exceeded its configured
	// time bound.
	ErrTimeout = errors.New("inference request timed out")

	// ErrMalformedResponse indicates the inference server answered but
	// the response carried no usable payload, such as an empty embedding
	// vector or a blank image description.
	ErrMalformedResponse = errors.New("malformed inference response")
)
