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

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/flowdex/ai"
	"github.com/poiesic/flowdex/core"
)

// failedDescription replaces the description of an embedded image whose
// vision call failed. The document still ingests; only the one image
// loses detail. The fallback is cached like any other description so a
// broken image is not retried for every page it appears on.
const failedDescription = "Failed to describe this image."

// Extractor converts documents into plain text, optionally describing
// embedded images through a vision model.
type Extractor struct {
	describer ai.ImageDescriber
	cache     *ImageDescriptionCache
	logger    *slog.Logger
}

// Option is a functional option for configuring an Extractor.
type Option func(*Extractor) error

// WithCache shares a preexisting description cache, e.g. one whose
// stats are exported elsewhere.
func WithCache(cache *ImageDescriptionCache) Option {
	return func(e *Extractor) error {
		if cache == nil {
			return errors.New("cache cannot be nil")
		}
		e.cache = cache
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		e.logger = logger
		return nil
	}
}

// New creates an Extractor that uses describer for image content.
func New(describer ai.ImageDescriber, opts ...Option) (*Extractor, error) {
	if describer == nil {
		return nil, errors.New("describer is required")
	}

	e := &Extractor{
		describer: describer,
		logger:    slog.Default().With("component", "extractor"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.cache == nil {
		cache, err := NewImageDescriptionCache(DefaultCacheCapacity)
		if err != nil {
			return nil, err
		}
		e.cache = cache
	}
	return e, nil
}

// Cache exposes the description cache for stats reporting.
func (e *Extractor) Cache() *ImageDescriptionCache {
	return e.cache
}

// DetectType reports the file type of path. See the package-level
// DetectType for the detection stages.
func (e *Extractor) DetectType(path string) core.FileType {
	return DetectType(path)
}

// Extract converts the file at path into plain text. For container
// formats with includeImages set, embedded raster images are described
// through the vision model and appended in an appendix section.
func (e *Extractor) Extract(ctx context.Context, path string, includeImages bool) (string, core.FileType, error) {
	fileType := DetectType(path)

	var (
		text string
		err  error
	)
	switch fileType {
	case core.FileTypeText:
		text, err = extractText(path)
	case core.FileTypePDF:
		text, err = e.extractPDF(ctx, path, includeImages)
	case core.FileTypeDOCX:
		text, err = e.extractDOCX(ctx, path, includeImages)
	case core.FileTypePPTX:
		text, err = e.extractPPTX(ctx, path, includeImages)
	case core.FileTypeXLSX:
		text, err = e.extractXLSX(ctx, path, includeImages)
	case core.FileTypeImage:
		text, err = e.extractImage(ctx, path)
	default:
		return "", core.FileTypeUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFileType, filepath.Ext(path))
	}
	if err != nil {
		return "", fileType, err
	}
	return text, fileType, nil
}

// extractText reads a plain-text file, rejecting invalid UTF-8.
func extractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: not valid UTF-8", ErrDecode)
	}
	return string(data), nil
}

// extractImage describes a standalone image file. Unlike embedded
// images there is no surrounding document text, so a vision failure
// fails the extraction.
func (e *Extractor) extractImage(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	if desc, ok := e.cache.Get(data); ok && desc != failedDescription {
		return desc, nil
	}
	desc, err := e.describer.DescribeImage(ctx, data, "")
	if err != nil {
		return "", fmt.Errorf("describe image: %w", err)
	}
	e.cache.Put(data, desc)
	return desc, nil
}

// embeddedImage is one image pulled out of a container document,
// tagged with its location, e.g. "[Image from page 3]".
type embeddedImage struct {
	data []byte
	tag  string
}

// imageAppendix describes every embedded image and renders the fixed
// appendix section. Duplicate image bytes within one document are
// described once and skipped afterwards.
func (e *Extractor) imageAppendix(ctx context.Context, images []embeddedImage) string {
	if len(images) == 0 {
		return ""
	}

	seen := make(map[[sha256.Size]byte]bool)
	var sb strings.Builder
	sb.WriteString("\n\n=== EMBEDDED IMAGES ===\n\n")

	n := 0
	for _, img := range images {
		sum := sha256.Sum256(img.data)
		if seen[sum] {
			continue
		}
		seen[sum] = true
		n++
		sb.WriteString(fmt.Sprintf("Image %d: %s: %s\n\n", n, img.tag, e.describeEmbedded(ctx, img.data)))
	}
	return sb.String()
}

// describeEmbedded resolves an embedded image's description through the
// cache, falling back to a fixed placeholder when the vision model
// fails so that one bad image never sinks the whole document.
func (e *Extractor) describeEmbedded(ctx context.Context, data []byte) string {
	if desc, ok := e.cache.Get(data); ok {
		return desc
	}

	desc, err := e.describer.DescribeImage(ctx, data, "")
	if err != nil {
		e.logger.Warn("failed to describe embedded image", "bytes", len(data), "err", err)
		desc = failedDescription
	}
	e.cache.Put(data, desc)
	return desc
}

// rasterExts filters container media entries down to formats the vision
// model can consume. Vector formats like EMF and WMF are skipped.
var rasterExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".webp": true,
}

func isRaster(name string) bool {
	return rasterExts[strings.ToLower(filepath.Ext(name))]
}
