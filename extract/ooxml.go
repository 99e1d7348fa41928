package extract

import (
	"archive/zip"
	"fmt"
	"io"
	"sort"
	"strings"
)

// zipMedia reads every raster image under dir ("word/media/",
// "xl/media/") from the OOXML container at path. Entries come back in
// name order so appendix numbering is stable.
func zipMedia(path, dir string) ([][]byte, []string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer r.Close()

	var names []string
	byName := make(map[string]*zip.File)
	for _, f := range r.File {
		if strings.HasPrefix(f.Name, dir) && isRaster(f.Name) {
			names = append(names, f.Name)
			byName[f.Name] = f
		}
	}
	sort.Strings(names)

	var images [][]byte
	var kept []string
	for _, name := range names {
		data, err := readZipFile(byName[name])
		if err != nil {
			continue
		}
		images = append(images, data)
		kept = append(kept, name)
	}
	return images, kept, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// tableRow renders one table row, joining trimmed cells with " | "
// after dropping trailing empty cells.
func tableRow(cells []string) string {
	for len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
		cells = cells[:len(cells)-1]
	}
	if len(cells) == 0 {
		return ""
	}
	trimmed := make([]string, len(cells))
	for i, cell := range cells {
		trimmed[i] = strings.TrimSpace(cell)
	}
	return strings.Join(trimmed, " | ")
}
