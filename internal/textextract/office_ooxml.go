package textextract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// OOXML (.docx/.pptx) is a zip archive of XML parts. No library in the
// reference pack parses it, so this reads the archive and the relevant part
// directly — see DESIGN.md for why this stays on the standard library
// instead of a third-party dependency.

// wordBody is the minimal shape of word/document.xml needed to pull out run
// text of body paragraphs and of paragraphs inside body-level table cells.
// extractDocx emits all paragraph text first and table text after it, so a
// table's text does not keep its position among the paragraphs.
type wordBody struct {
	XMLName xml.Name   `xml:"document"`
	Body    wordBodyEl `xml:"body"`
}

type wordBodyEl struct {
	Paragraphs []wordParagraph `xml:"p"`
	Tables     []wordTable     `xml:"tbl"`
}

type wordParagraph struct {
	Runs []wordRun `xml:"r"`
}

type wordRun struct {
	Text string `xml:"t"`
}

type wordTable struct {
	Rows []wordTableRow `xml:"tr"`
}

type wordTableRow struct {
	Cells []wordTableCell `xml:"tc"`
}

type wordTableCell struct {
	Paragraphs []wordParagraph `xml:"p"`
}

func (p wordParagraph) text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func extractDocx(content []byte) (string, bool) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", false
	}

	raw, err := readZipPart(zr, "word/document.xml")
	if err != nil {
		return "", false
	}

	var doc wordBody
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return "", false
	}

	var parts []string
	for _, p := range doc.Body.Paragraphs {
		if t := strings.TrimSpace(p.text()); t != "" {
			parts = append(parts, p.text())
		}
	}
	for _, tbl := range doc.Body.Tables {
		for _, row := range tbl.Rows {
			var cellTexts []string
			for _, cell := range row.Cells {
				for _, p := range cell.Paragraphs {
					if t := strings.TrimSpace(p.text()); t != "" {
						cellTexts = append(cellTexts, t)
					}
				}
			}
			if rowText := strings.Join(cellTexts, " "); rowText != "" {
				parts = append(parts, rowText)
			}
		}
	}

	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "\n"), true
}

// pptxSlideText is the minimal shape of ppt/slides/slideN.xml needed to pull
// out the run text of a slide's top-level shapes; text inside grouped shapes
// and graphic frames (tables, charts) is not read.
type pptxSlideText struct {
	XMLName xml.Name      `xml:"sld"`
	Texts   []pptxRunText `xml:"cSld>spTree>sp>txBody>p>r>t"`
}

type pptxRunText struct {
	Text string `xml:",chardata"`
}

func extractPptx(content []byte) (string, bool) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", false
	}

	slideNames := slideFileNames(zr)
	if len(slideNames) == 0 {
		return "", false
	}

	var parts []string
	for i, name := range slideNames {
		raw, err := readZipPart(zr, name)
		if err != nil {
			continue
		}
		var slide pptxSlideText
		if err := xml.Unmarshal(raw, &slide); err != nil {
			continue
		}
		var runs []string
		for _, r := range slide.Texts {
			if strings.TrimSpace(r.Text) != "" {
				runs = append(runs, r.Text)
			}
		}
		if len(runs) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("Slide %d:\n%s", i+1, strings.Join(runs, "\n")))
	}

	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "\n\n"), true
}

// slideFileNames returns ppt/slides/slideN.xml entries in numeric slide
// order (slide2.xml before slide10.xml — a plain string sort would not).
func slideFileNames(zr *zip.Reader) []string {
	var names []string
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			names = append(names, f.Name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return slideNumber(names[i]) < slideNumber(names[j])
	})
	return names
}

func slideNumber(name string) int {
	trimmed := strings.TrimPrefix(name, "ppt/slides/slide")
	trimmed = strings.TrimSuffix(trimmed, ".xml")
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0
	}
	return n
}

func readZipPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("part not found: %s", name)
}
