package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractXLSX renders each worksheet as a "=== WORKSHEET: name ==="
// section with " | "-joined rows, optionally describing embedded images.
func (e *Extractor) extractXLSX(ctx context.Context, path string, includeImages bool) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer f.Close()

	var sections []string
	hasData := false
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			e.logger.Warn("skipping unreadable worksheet", "sheet", sheet, "err", err)
			continue
		}

		var lines []string
		for _, row := range rows {
			if line := tableRow(row); line != "" {
				lines = append(lines, line)
			}
		}

		section := fmt.Sprintf("=== WORKSHEET: %s ===", sheet)
		if len(lines) == 0 {
			section += "\n(Empty worksheet)"
		} else {
			section += "\n" + strings.Join(lines, "\n")
			hasData = true
		}
		sections = append(sections, section)
	}

	var appendix string
	if includeImages {
		media, _, err := zipMedia(path, "xl/media/")
		if err != nil {
			e.logger.Warn("failed to read xlsx media", "err", err)
		} else {
			images := make([]embeddedImage, 0, len(media))
			for _, data := range media {
				images = append(images, embeddedImage{data: data, tag: "[Excel embedded image]"})
			}
			appendix = e.imageAppendix(ctx, images)
		}
	}

	if !hasData && appendix == "" {
		return "No data found in Excel file.", nil
	}
	return strings.Join(sections, "\n\n") + appendix, nil
}
