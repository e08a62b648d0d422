// Package textextract pulls comparable text out of file content for the
// superset/subset and near-duplicate detectors (spec.md §4.2). Extraction is
// best-effort: a file that cannot be parsed simply has no text, and detection
// falls back to metadata-only signals for it.
package textextract

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Extract returns the plain-text content of a file, dispatching on MIME type
// with a filename-extension fallback exactly as spec.md §4.2 describes.
// ok is false when the file type is not textual or extraction failed; text is
// always empty in that case.
func Extract(content []byte, mimeType, filename string) (text string, ok bool) {
	lower := strings.ToLower(filename)

	switch {
	case mimeType == "application/pdf" || strings.HasSuffix(lower, ".pdf"):
		return extractPDF(content)

	case isDocx(mimeType, lower):
		return extractDocx(content)

	case isLegacyDoc(mimeType, lower):
		return extractLegacyDoc(content)

	case isXlsx(mimeType, lower):
		return extractXlsx(content)

	case isLegacyXls(mimeType, lower):
		return extractLegacyXls(content)

	case isPptx(mimeType, lower):
		return extractPptx(content)

	case mimeType == "text/plain" || strings.HasSuffix(lower, ".txt"):
		return extractPlainText(content)

	case mimeType == "text/html" || strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm"):
		return extractHTML(content)
	}

	// No extension/MIME match: sniff the content itself before giving up,
	// since cloud providers sometimes report a generic octet-stream type.
	if sniffed := mimetype.Detect(content); sniffed != nil {
		if strings.HasPrefix(sniffed.String(), "text/plain") {
			return extractPlainText(content)
		}
	}
	return "", false
}

func isDocx(mimeType, lowerName string) bool {
	return mimeType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" ||
		strings.HasSuffix(lowerName, ".docx")
}

func isLegacyDoc(mimeType, lowerName string) bool {
	return mimeType == "application/msword" || strings.HasSuffix(lowerName, ".doc")
}

func isXlsx(mimeType, lowerName string) bool {
	return mimeType == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" ||
		strings.HasSuffix(lowerName, ".xlsx")
}

func isLegacyXls(mimeType, lowerName string) bool {
	return mimeType == "application/vnd.ms-excel" || strings.HasSuffix(lowerName, ".xls")
}

func isPptx(mimeType, lowerName string) bool {
	return mimeType == "application/vnd.openxmlformats-officedocument.presentationml.presentation" ||
		strings.HasSuffix(lowerName, ".pptx")
}

// joinSections joins non-empty text sections with a blank line between them,
// matching the original extractor's "\n\n".join(...) convention for
// multi-sheet/multi-slide documents.
func joinSections(sections []string) (string, bool) {
	if len(sections) == 0 {
		return "", false
	}
	return strings.Join(sections, "\n\n"), true
}
