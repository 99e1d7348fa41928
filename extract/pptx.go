package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var slideName = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// extractPPTX renders each slide as a "=== SLIDE N ===" section with
// shape text and "TABLE:" blocks, optionally describing the images
// referenced by each slide.
func (e *Extractor) extractPPTX(ctx context.Context, filePath string, includeImages bool) (string, error) {
	r, err := zip.OpenReader(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer r.Close()

	byName := make(map[string]*zip.File, len(r.File))
	var slideNums []int
	for _, f := range r.File {
		byName[f.Name] = f
		if m := slideName.FindStringSubmatch(f.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			slideNums = append(slideNums, n)
		}
	}
	sort.Ints(slideNums)

	var (
		sections []string
		images   []embeddedImage
		hasText  bool
	)
	for _, n := range slideNums {
		f := byName[fmt.Sprintf("ppt/slides/slide%d.xml", n)]
		data, err := readZipFile(f)
		if err != nil {
			e.logger.Warn("skipping unreadable slide", "slide", n, "err", err)
			continue
		}

		body, err := linearizeOOXML(string(data), "TABLE:")
		if err != nil {
			e.logger.Warn("skipping malformed slide", "slide", n, "err", err)
			continue
		}

		section := fmt.Sprintf("=== SLIDE %d ===", n)
		if body != "" {
			section += "\n" + body
			hasText = true
		}
		sections = append(sections, section)

		if includeImages {
			images = append(images, e.slideImages(byName, n)...)
		}
	}

	appendix := e.imageAppendix(ctx, images)
	if !hasText && appendix == "" {
		return "No text content found in PowerPoint file.", nil
	}
	return strings.Join(sections, "\n\n") + appendix, nil
}

type relationships struct {
	Rels []relationship `xml:"Relationship"`
}

type relationship struct {
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// slideImages resolves the images referenced by slide n through its
// relationships part, preserving reference order.
func (e *Extractor) slideImages(byName map[string]*zip.File, n int) []embeddedImage {
	relsFile, ok := byName[fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n)]
	if !ok {
		return nil
	}
	data, err := readZipFile(relsFile)
	if err != nil {
		return nil
	}

	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		e.logger.Warn("skipping malformed slide rels", "slide", n, "err", err)
		return nil
	}

	var images []embeddedImage
	for _, rel := range rels.Rels {
		if !strings.HasSuffix(rel.Type, "/image") || !isRaster(rel.Target) {
			continue
		}
		// targets are relative to ppt/slides/
		target := path.Clean(path.Join("ppt/slides", rel.Target))
		mediaFile, ok := byName[target]
		if !ok {
			continue
		}
		imgData, err := readZipFile(mediaFile)
		if err != nil {
			continue
		}
		images = append(images, embeddedImage{
			data: imgData,
			tag:  fmt.Sprintf("[Image from slide %d]", n),
		})
	}
	return images
}
