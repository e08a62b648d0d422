package textextract

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/richardlehane/mscfb"
)

// Legacy .doc/.xls files are binary OLE2/CFB containers (no clean text part
// the way OOXML has). mscfb gives us stream enumeration; since a full
// FIB/BIFF parser is out of scope here, text is recovered heuristically by
// scanning the document streams for runs of printable ASCII and UTF-16LE
// text above a minimum length — good enough for duplicate-text comparison,
// not a faithful rendering of the document.
const minLegacyRunLength = 4

func extractLegacyDoc(content []byte) (string, bool) {
	return extractLegacyCFB(content, "WordDocument")
}

func extractLegacyXls(content []byte) (string, bool) {
	return extractLegacyCFB(content, "Workbook", "Book")
}

func extractLegacyCFB(content []byte, preferredStreams ...string) (string, bool) {
	doc, err := mscfb.New(bytes.NewReader(content))
	if err != nil {
		return "", false
	}

	var best []byte
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if !matchesAny(entry.Name, preferredStreams) {
			continue
		}
		buf, readErr := io.ReadAll(doc)
		if readErr != nil {
			continue
		}
		if len(buf) > len(best) {
			best = buf
		}
	}

	if len(best) == 0 {
		return "", false
	}

	runs := extractTextRuns(best)
	if len(runs) == 0 {
		return "", false
	}
	return strings.Join(runs, "\n"), true
}

func matchesAny(name string, candidates []string) bool {
	for _, c := range candidates {
		if name == c {
			return true
		}
	}
	return false
}

// extractTextRuns scans raw stream bytes for printable ASCII runs and
// printable UTF-16LE runs, both at least minLegacyRunLength characters.
func extractTextRuns(buf []byte) []string {
	var runs []string
	runs = append(runs, asciiRuns(buf)...)
	runs = append(runs, utf16Runs(buf)...)
	return runs
}

func asciiRuns(buf []byte) []string {
	var runs []string
	var cur []byte
	flush := func() {
		if len(cur) >= minLegacyRunLength {
			runs = append(runs, string(cur))
		}
		cur = nil
	}
	for _, b := range buf {
		if isPrintableASCII(b) {
			cur = append(cur, b)
		} else {
			flush()
		}
	}
	flush()
	return runs
}

func isPrintableASCII(b byte) bool {
	return (b >= 0x20 && b < 0x7F) || b == '\t'
}

func utf16Runs(buf []byte) []string {
	var runs []string
	var cur []uint16
	flush := func() {
		if len(cur) >= minLegacyRunLength {
			decoded := utf16.Decode(cur)
			if utf8.ValidString(string(decoded)) {
				runs = append(runs, string(decoded))
			}
		}
		cur = nil
	}
	for i := 0; i+1 < len(buf); i += 2 {
		u := uint16(buf[i]) | uint16(buf[i+1])<<8
		if u >= 0x20 && u < 0x7F {
			cur = append(cur, u)
		} else {
			flush()
		}
	}
	flush()
	return runs
}
