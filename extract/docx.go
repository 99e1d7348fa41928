package extract

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// extractDOCX linearizes a Word document into paragraphs and table
// blocks, optionally describing embedded images.
func (e *Extractor) extractDOCX(ctx context.Context, path string, includeImages bool) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer r.Close()

	text, err := linearizeOOXML(r.Editable().GetContent(), "=== TABLE ===")
	if err != nil {
		return "", err
	}

	var appendix string
	if includeImages {
		media, _, err := zipMedia(path, "word/media/")
		if err != nil {
			e.logger.Warn("failed to read docx media", "err", err)
		} else {
			images := make([]embeddedImage, 0, len(media))
			for _, data := range media {
				images = append(images, embeddedImage{data: data, tag: "[Word embedded image]"})
			}
			appendix = e.imageAppendix(ctx, images)
		}
	}

	if strings.TrimSpace(text) == "" && appendix == "" {
		return "No text content found in Word document.", nil
	}
	return text + appendix, nil
}

// linearizeOOXML walks a WordprocessingML or DrawingML body, emitting
// paragraphs as lines and tables as header-prefixed blocks with
// " | "-joined rows. Both dialects use the same local element names
// (p, t, tbl, tr, tc), so one walker serves docx bodies and pptx
// slides alike.
func linearizeOOXML(content, tableHeader string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		blocks     []string
		para       strings.Builder
		cell       strings.Builder
		row        []string
		table      []string
		tableDepth int
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrDecode, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
				if tableDepth == 1 {
					table = nil
				}
			case "tr":
				if tableDepth > 0 {
					row = nil
				}
			case "tc":
				if tableDepth > 0 {
					cell.Reset()
				}
			case "p":
				if tableDepth == 0 {
					para.Reset()
				}
			case "t":
				inText = true
			}
		case xml.CharData:
			if inText {
				if tableDepth > 0 {
					cell.Write(t)
				} else {
					para.Write(t)
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if tableDepth == 0 {
					if s := strings.TrimSpace(para.String()); s != "" {
						blocks = append(blocks, s)
					}
				}
			case "tc":
				if tableDepth > 0 {
					row = append(row, strings.TrimSpace(cell.String()))
				}
			case "tr":
				if tableDepth > 0 {
					if line := tableRow(row); line != "" {
						table = append(table, line)
					}
				}
			case "tbl":
				tableDepth--
				if tableDepth == 0 && len(table) > 0 {
					blocks = append(blocks, tableHeader+"\n"+strings.Join(table, "\n"))
				}
			}
		}
	}
	return strings.Join(blocks, "\n"), nil
}
