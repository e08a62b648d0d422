// Package supersetdetector finds superset/subset relationships: a smaller
// file whose text content is (almost) entirely contained within a larger
// file's text, per spec.md §4.4.
package supersetdetector

import (
	"regexp"
	"strings"
)

// sentencesPerChunk is the number of sentences grouped into one comparison
// unit before scoring, per spec.md §4.4.
const sentencesPerChunk = 5

// fixedChunkSize is the character-window fallback size used when text has
// neither sentence punctuation nor newlines to split on.
const fixedChunkSize = 500

var sentenceSplit = regexp.MustCompile(`[.!?]+\s+`)

// Chunk splits text into comparison units: sentence groups when the text has
// a sentence terminator followed by whitespace, otherwise newline-delimited
// lines, otherwise fixed 500-character windows, matching the chunking
// fallback order in the original scanner.
func Chunk(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	var sentences []string
	if sentenceSplit.MatchString(trimmed) {
		sentences = splitNonEmpty(sentenceSplit.Split(trimmed, -1))
	}
	if len(sentences) == 0 {
		if strings.Contains(trimmed, "\n") {
			sentences = splitNonEmpty(strings.Split(trimmed, "\n"))
		} else {
			sentences = fixedWindows(trimmed, fixedChunkSize)
		}
	}

	chunks := groupIntoChunks(sentences, sentencesPerChunk)
	if len(chunks) == 0 {
		return []string{trimmed}
	}
	return chunks
}

func splitNonEmpty(parts []string) []string {
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func fixedWindows(text string, size int) []string {
	var windows []string
	runes := []rune(text)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		windows = append(windows, string(runes[i:end]))
	}
	return windows
}

func groupIntoChunks(sentences []string, perChunk int) []string {
	var chunks []string
	for i := 0; i < len(sentences); i += perChunk {
		end := i + perChunk
		if end > len(sentences) {
			end = len(sentences)
		}
		chunk := strings.TrimSpace(strings.Join(sentences[i:end], " "))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}
