package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// extractPDF pulls per-page text and, optionally, embedded images.
func (e *Extractor) extractPDF(ctx context.Context, path string, includeImages bool) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat file: %w", err)
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("skipping unreadable pdf page", "page", i, "err", err)
			continue
		}
		if strings.TrimSpace(pageText) != "" {
			pages = append(pages, pageText)
		}
	}

	text := strings.Join(pages, "\n\n")

	var appendix string
	if includeImages {
		images, err := e.pdfImages(path)
		if err != nil {
			e.logger.Warn("failed to extract pdf images", "err", err)
		} else {
			appendix = e.imageAppendix(ctx, images)
		}
	}

	if strings.TrimSpace(text) == "" && appendix == "" {
		return "No text content found in PDF.", nil
	}
	return text + appendix, nil
}

// pdfImageName matches pdfcpu's extracted image file naming of
// <basename>_<page>_<objectID>.<ext>.
var pdfImageName = regexp.MustCompile(`_(\d+)_[^_]+\.\w+$`)

// pdfImages extracts embedded raster images into a temp directory and
// tags each with the page it came from.
func (e *Extractor) pdfImages(path string) ([]embeddedImage, error) {
	tmpDir, err := os.MkdirTemp("", "flowdex-pdf-images-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := api.ExtractImagesFile(path, tmpDir, nil, nil); err != nil {
		return nil, fmt.Errorf("extract images: %w", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return nil, fmt.Errorf("read temp dir: %w", err)
	}

	type pageImage struct {
		page int
		name string
		data []byte
	}
	var found []pageImage
	for _, entry := range entries {
		if entry.IsDir() || !isRaster(entry.Name()) {
			continue
		}
		m := pdfImageName.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		page, _ := strconv.Atoi(m[1])
		data, err := os.ReadFile(filepath.Join(tmpDir, entry.Name()))
		if err != nil {
			continue
		}
		found = append(found, pageImage{page: page, name: entry.Name(), data: data})
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].page != found[j].page {
			return found[i].page < found[j].page
		}
		return found[i].name < found[j].name
	})

	images := make([]embeddedImage, 0, len(found))
	for _, pi := range found {
		images = append(images, embeddedImage{
			data: pi.data,
			tag:  fmt.Sprintf("[Image from page %d]", pi.page),
		})
	}
	return images, nil
}
