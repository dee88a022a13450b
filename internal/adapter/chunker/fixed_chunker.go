package chunker

import (
	"fmt"
	"strings"

	"neurabase/internal/domain"
)

const (
	// DefaultChunkSize is the default number of characters per chunk.
	DefaultChunkSize = 500

	// DefaultChunkOverlap is the default number of characters shared by
	// consecutive chunks.
	DefaultChunkOverlap = 50
)

// FixedChunker splits text into fixed-size windows that overlap by a fixed
// number of characters. Sizes count Unicode code points, not bytes.
type FixedChunker struct {
	size    int
	overlap int
}

// NewFixedChunker creates a chunker. The overlap must be smaller than the
// size, otherwise the window would never advance.
func NewFixedChunker(size, overlap int) (*FixedChunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap %d must be in [0, %d)", domain.ErrInvalidConfig, overlap, size)
	}
	return &FixedChunker{size: size, overlap: overlap}, nil
}

// NewDefaultChunker returns a chunker with the default size and overlap.
func NewDefaultChunker() *FixedChunker {
	return &FixedChunker{size: DefaultChunkSize, overlap: DefaultChunkOverlap}
}

func (c *FixedChunker) Size() int    { return c.size }
func (c *FixedChunker) Overlap() int { return c.overlap }

// Chunk splits text into windows [off, off+size) with off advancing by
// size-overlap until off reaches the end of the text. Text no longer than
// size is a single window. Whitespace-only windows are dropped and the
// remaining chunks are numbered by output position.
func (c *FixedChunker) Chunk(source string, text string) ([]domain.Chunk, error) {
	runes := []rune(text)
	step := c.size - c.overlap

	chunks := make([]domain.Chunk, 0, len(runes)/step+1)
	add := func(piece string) {
		if strings.TrimSpace(piece) == "" {
			return
		}
		idx := len(chunks)
		chunks = append(chunks, domain.Chunk{
			ID:     domain.ChunkID(source, idx),
			Source: source,
			Index:  idx,
			Text:   piece,
		})
	}

	if len(runes) <= c.size {
		add(text)
	} else {
		for off := 0; off < len(runes); off += step {
			end := off + c.size
			if end > len(runes) {
				end = len(runes)
			}
			add(string(runes[off:end]))
		}
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no valid text chunks created from %s", domain.ErrEmptyContent, source)
	}
	return chunks, nil
}
