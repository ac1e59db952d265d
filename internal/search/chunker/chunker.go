package chunker

import (
	"fmt"
	"strings"

	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
)

// Config carries the splitter parameters. Overlap is the number of
// characters each chunk shares with its predecessor.
type Config struct {
	ChunkSize int
	Overlap   int
}

func (c Config) validate() error {
	if c.ChunkSize < 1 {
		return fmt.Errorf("%w: chunk size must be at least 1, got %d", searchModel.ErrInvalidConfiguration, c.ChunkSize)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap cannot be negative, got %d", searchModel.ErrInvalidConfiguration, c.Overlap)
	}
	if c.Overlap >= c.ChunkSize {
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", searchModel.ErrInvalidConfiguration, c.Overlap, c.ChunkSize)
	}
	return nil
}

// Separators ordered from "best" to "worst" for semantic meaning
var separators = []string{"\n\n", "\n", ". ", " "}

// Split cuts text into ordered chunks of at most ChunkSize characters.
// Every chunk is an exact substring of text, consecutive chunks share
// exactly Overlap characters, and concatenating the chunks minus the
// overlaps reconstructs the document. Cuts prefer paragraph, line,
// sentence and word boundaries before falling back to a hard cut.
func Split(sourceDocument string, text string, cfg Config) ([]searchModel.Chunk, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	// Rune indexing so multi-byte characters never get cut in half
	runes := []rune(text)

	// If text is already small enough, just return it
	if len(runes) <= cfg.ChunkSize {
		return []searchModel.Chunk{{
			SourceDocument: sourceDocument,
			Sequence:       0,
			Text:           text,
		}}, nil
	}

	var chunks []searchModel.Chunk
	start := 0
	for start < len(runes) {
		end := start + cfg.ChunkSize
		if end >= len(runes) {
			chunks = append(chunks, searchModel.Chunk{
				SourceDocument: sourceDocument,
				Sequence:       len(chunks),
				Text:           string(runes[start:]),
			})
			break
		}

		end = breakpoint(runes, start, end, cfg.Overlap)
		chunks = append(chunks, searchModel.Chunk{
			SourceDocument: sourceDocument,
			Sequence:       len(chunks),
			Text:           string(runes[start:end]),
		})
		start = end - cfg.Overlap
	}

	return chunks, nil
}

// breakpoint picks the cut position for the chunk spanning runes[start:limit].
// It takes the rightmost separator inside the window, but never cuts so early
// that the next chunk (starting at cut-overlap) fails to advance past start.
func breakpoint(runes []rune, start int, limit int, overlap int) int {
	floor := start + overlap + 1
	window := string(runes[start:limit])

	for _, sep := range separators {
		idx := strings.LastIndex(window, sep)
		if idx < 0 {
			continue
		}
		// LastIndex is a byte offset, the cut needs rune positions
		cut := start + len([]rune(window[:idx])) + len([]rune(sep))
		if cut >= floor {
			return cut
		}
	}

	// No usable separator, hard cut at the size limit
	return limit
}
