package digest

import (
	"strings"
	"unicode/utf8"
)

// MaxChunkSize is the practical per-message limit of the delivery channel.
const MaxChunkSize = 4000

// Chunk splits text into pieces not exceeding limit bytes, breaking at
// the last newline before the limit so lines stay intact. When a
// single line exceeds the limit, a hard cut at a rune boundary is the
// last resort.
func Chunk(text string, limit int) []string {
	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut <= 0 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimLeft(text[cut:], "\n\t ")
	}
	return append(chunks, text)
}
