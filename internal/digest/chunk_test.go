package digest

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunk_ShortTextStaysWhole(t *testing.T) {
	chunks := Chunk("short digest", MaxChunkSize)
	if len(chunks) != 1 || chunks[0] != "short digest" {
		t.Errorf("Expected single untouched chunk, got %v", chunks)
	}
}

func TestChunk_BreaksAtNewline(t *testing.T) {
	text := strings.Repeat("line one\n", 5)
	chunks := Chunk(text, 30)

	for i, c := range chunks {
		if len(c) > 30 {
			t.Errorf("Chunk %d exceeds limit: %d bytes", i, len(c))
		}
	}
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}
	// Joining the chunks back must preserve every line.
	joined := strings.Join(chunks, "\n")
	if strings.Count(joined, "line one") != 5 {
		t.Errorf("Lines lost during chunking:\n%q", chunks)
	}
	for i, c := range chunks[:len(chunks)-1] {
		if strings.HasSuffix(c, "\n") {
			t.Errorf("Chunk %d keeps a trailing newline", i)
		}
	}
}

func TestChunk_HardCutRespectsRuneBoundaries(t *testing.T) {
	// One long line of Cyrillic text, no newline to break at.
	text := strings.Repeat("Дайджест", 20)
	chunks := Chunk(text, 50)

	var rebuilt strings.Builder
	for i, c := range chunks {
		if len(c) > 50 {
			t.Errorf("Chunk %d exceeds limit: %d bytes", i, len(c))
		}
		if !utf8.ValidString(c) {
			t.Errorf("Chunk %d splits a rune: %q", i, c)
		}
		rebuilt.WriteString(c)
	}
	if rebuilt.String() != text {
		t.Error("Hard-cut chunking lost text")
	}
}

func TestChunk_EmptyText(t *testing.T) {
	chunks := Chunk("", MaxChunkSize)
	if len(chunks) != 1 || chunks[0] != "" {
		t.Errorf("Chunk(\"\") = %v, want single empty chunk", chunks)
	}
}
