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


package core

import "fmt"

// ValidateFileType validates that the file type is one the pipeline
// can process. FileTypeUnknown is rejected.
func ValidateFileType(t FileType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFileType, t)
	}
	return nil
}

// ValidateScope validates a Scope according to domain rules.
//
// Validation rules:
//   - FlowID must not be empty
//   - UserID is optional (empty means single-tenant collection naming)
func ValidateScope(s Scope) error {
	if s.FlowID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidScope, ErrEmptyFlowID)
	}
	return nil
}
