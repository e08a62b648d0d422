package textextract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF concatenates the extracted text of every page with newlines,
// mirroring the page-by-page join the original extractor performs.
func extractPDF(content []byte) (string, bool) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", false
	}

	var parts []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "\n"), true
}
