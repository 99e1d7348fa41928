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


package extract

import "errors"

var (
	// ErrUnsupportedFileType indicates the file's format could not be
	// determined or is not one the pipeline can process.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrDecode indicates a file claimed a supported format but could
	// not be parsed as one, for example a corrupt PDF or a text file
	// that is not valid UTF-8.
	ErrDecode = errors.New("failed to decode file")
)
