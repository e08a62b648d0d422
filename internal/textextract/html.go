package textextract

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// htmlStripper has an empty policy: every tag is dropped, only the text
// nodes survive. Built once and reused — bluemonday policies are safe for
// concurrent use and expensive enough to construct that per-call creation
// would show up under load.
var htmlStripper = bluemonday.StrictPolicy()

func extractHTML(content []byte) (string, bool) {
	text, ok := decodeText(content)
	if !ok {
		return "", false
	}
	stripped := htmlStripper.Sanitize(text)
	stripped = strings.TrimSpace(stripped)
	if stripped == "" {
		return "", false
	}
	return stripped, true
}
