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


// Package extract turns uploaded documents into plain text ready for
// chunking and embedding.
//
// The package handles file-type detection (extension, MIME, content
// probing) and per-format extraction for plain text, PDF, Word,
// PowerPoint, Excel and standalone images. When image extraction is
// enabled, embedded raster images are described through a vision model
// and the descriptions are appended to the document text in a fixed
// appendix section. Descriptions are memoized in a content-addressed
// LRU cache so that re-uploads and shared assets (logos, letterheads)
// cost one vision call instead of many.
package extract
