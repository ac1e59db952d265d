package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
)

func TestSplitShortText(t *testing.T) {
	chunks, err := Split("note.txt", "tiny document", Config{ChunkSize: 500, Overlap: 50})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "tiny document" {
		t.Errorf("Expected full text back, got %q", chunks[0].Text)
	}
	if chunks[0].SourceDocument != "note.txt" || chunks[0].Sequence != 0 {
		t.Errorf("Bad chunk identity: %+v", chunks[0])
	}
}

func TestSplitEmptyText(t *testing.T) {
	chunks, err := Split("note.txt", "", Config{ChunkSize: 500, Overlap: 50})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("Expected zero chunks for empty text, got %d", len(chunks))
	}
}

func TestSplitInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero chunk size", Config{ChunkSize: 0, Overlap: 0}},
		{"negative chunk size", Config{ChunkSize: -5, Overlap: 0}},
		{"negative overlap", Config{ChunkSize: 100, Overlap: -1}},
		{"overlap equals chunk size", Config{ChunkSize: 100, Overlap: 100}},
		{"overlap exceeds chunk size", Config{ChunkSize: 100, Overlap: 150}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Split("doc", "some text", tc.cfg)
			if !errors.Is(err, searchModel.ErrInvalidConfiguration) {
				t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestSplitReconstruction(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog. " +
		"Pack my box with five dozen liquor jugs.\n\n" +
		"Sphinx of black quartz, judge my vow. " +
		"How vexingly quick daft zebras jump! " +
		"The five boxing wizards jump quickly over the fence near the river."
	cfg := Config{ChunkSize: 60, Overlap: 10}

	chunks, err := Split("pangrams.txt", text, cfg)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}

	// Strip the overlap off every chunk after the first and the pieces
	// must concatenate back to the original document.
	rebuilt := chunks[0].Text
	for i := 1; i < len(chunks); i++ {
		runes := []rune(chunks[i].Text)
		if len(runes) <= cfg.Overlap {
			t.Fatalf("Chunk %d shorter than overlap: %q", i, chunks[i].Text)
		}
		rebuilt += string(runes[cfg.Overlap:])
	}
	if rebuilt != text {
		t.Errorf("Reconstruction mismatch:\nwant %q\ngot  %q", text, rebuilt)
	}

	for i, c := range chunks {
		if len([]rune(c.Text)) > cfg.ChunkSize {
			t.Errorf("Chunk %d exceeds size limit: %d runes", i, len([]rune(c.Text)))
		}
		if !strings.Contains(text, c.Text) {
			t.Errorf("Chunk %d is not an exact substring: %q", i, c.Text)
		}
		if c.Sequence != i {
			t.Errorf("Expected sequence %d, got %d", i, c.Sequence)
		}
	}
}

func TestSplitOverlapShared(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta epsilon zeta eta theta iota kappa. ", 8)
	cfg := Config{ChunkSize: 80, Overlap: 15}

	chunks, err := Split("words.txt", text, cfg)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(chunks) < 3 {
		t.Fatalf("Expected at least 3 chunks, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		cur := []rune(chunks[i].Text)
		tail := string(prev[len(prev)-cfg.Overlap:])
		head := string(cur[:cfg.Overlap])
		if tail != head {
			t.Errorf("Chunk %d overlap mismatch: tail %q head %q", i, tail, head)
		}
	}
}

func TestSplitPrefersSeparators(t *testing.T) {
	text := "First paragraph about mammals and their habits.\n\n" +
		"Second paragraph about birds and their migrations across continents."
	chunks, err := Split("doc.txt", text, Config{ChunkSize: 60, Overlap: 5})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}
	// The paragraph break sits inside the first window, the cut lands on it
	if !strings.HasSuffix(chunks[0].Text, "\n\n") {
		t.Errorf("Expected first chunk to end on the paragraph break, got %q", chunks[0].Text)
	}
}

func TestSplitHardCutProgresses(t *testing.T) {
	// No separators anywhere, the splitter must still terminate and cover everything
	text := strings.Repeat("x", 1000)
	cfg := Config{ChunkSize: 100, Overlap: 20}

	chunks, err := Split("wall.txt", text, cfg)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	rebuilt := chunks[0].Text
	for i := 1; i < len(chunks); i++ {
		rebuilt += chunks[i].Text[cfg.Overlap:]
	}
	if rebuilt != text {
		t.Errorf("Hard-cut reconstruction failed, got %d runes back", len(rebuilt))
	}
}

func TestSplitMultibyteSafe(t *testing.T) {
	text := strings.Repeat("日本語のテキストを分割する。", 20)
	chunks, err := Split("jp.txt", text, Config{ChunkSize: 50, Overlap: 10})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for i, c := range chunks {
		if !strings.Contains(text, c.Text) {
			t.Errorf("Chunk %d broke a rune boundary: %q", i, c.Text)
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("determinism matters for index rebuilds. ", 30)
	cfg := Config{ChunkSize: 120, Overlap: 25}

	first, err := Split("doc", text, cfg)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := Split("doc", text, cfg)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("Chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Chunk %d differs across runs", i)
		}
	}
}
