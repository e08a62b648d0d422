package textextract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractXlsx renders each non-empty sheet as "Sheet: <name>" followed by
// its rows, space-joined per row, matching the original extractor's layout.
func extractXlsx(content []byte) (string, bool) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", false
	}
	defer f.Close()

	var sections []string
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}

		var sheetLines []string
		for _, row := range rows {
			var cells []string
			for _, cell := range row {
				if cell != "" {
					cells = append(cells, cell)
				}
			}
			if line := strings.Join(cells, " "); line != "" {
				sheetLines = append(sheetLines, line)
			}
		}

		if len(sheetLines) > 0 {
			sections = append(sections, fmt.Sprintf("Sheet: %s\n%s", sheetName, strings.Join(sheetLines, "\n")))
		}
	}

	return joinSections(sections)
}
