package textextract

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

func extractPlainText(content []byte) (string, bool) {
	return decodeText(content)
}

// decodeText tries UTF-8 first, then falls back to Latin-1 (ISO-8859-1),
// matching the original extractor's utf-8 -> latin-1 fallback chain. Latin-1
// maps every byte to a codepoint, so the fallback never itself fails.
func decodeText(content []byte) (string, bool) {
	if len(content) == 0 {
		return "", false
	}
	if utf8.Valid(content) {
		return string(content), true
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}
