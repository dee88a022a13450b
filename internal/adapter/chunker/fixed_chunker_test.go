package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neurabase/internal/domain"
)

func TestNewFixedChunker_RejectsOverlapNotBelowSize(t *testing.T) {
	tests := []struct {
		size, overlap int
	}{
		{500, 500},
		{500, 501},
		{10, 50},
		{0, 0},
		{100, -1},
	}
	for _, tt := range tests {
		_, err := NewFixedChunker(tt.size, tt.overlap)
		assert.ErrorIs(t, err, domain.ErrInvalidConfig, "size=%d overlap=%d", tt.size, tt.overlap)
	}
}

func TestChunk_DocIDsFor1200Chars(t *testing.T) {
	c := NewDefaultChunker()

	chunks, err := c.Chunk("doc.txt", strings.Repeat("A", 1200))
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "doc.txt_chunk_0", chunks[0].ID)
	assert.Equal(t, "doc.txt_chunk_1", chunks[1].ID)
	assert.Equal(t, "doc.txt_chunk_2", chunks[2].ID)

	assert.Len(t, chunks[0].Text, 500)
	assert.Len(t, chunks[1].Text, 500)
	assert.Len(t, chunks[2].Text, 300)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.Index)
		assert.Equal(t, "doc.txt", ch.Source)
	}
}

func TestChunk_ShortTextIsOneChunk(t *testing.T) {
	c := NewDefaultChunker()

	for _, n := range []int{1, 30, 451, 499, 500} {
		text := strings.Repeat("b", n)
		chunks, err := c.Chunk("short.txt", text)
		require.NoError(t, err)
		require.Len(t, chunks, 1, "length %d", n)
		assert.Equal(t, text, chunks[0].Text)
	}
}

func TestChunk_KeepsTrailingWindow(t *testing.T) {
	c := NewDefaultChunker()

	tests := []struct {
		length   int
		expected int
		lastLen  int
	}{
		{480, 1, 480},
		{501, 2, 51},
		{950, 3, 50},
		{1200, 3, 300},
		{1400, 4, 50},
	}
	for _, tt := range tests {
		chunks, err := c.Chunk("tail.txt", strings.Repeat("x", tt.length))
		require.NoError(t, err)
		require.Len(t, chunks, tt.expected, "length %d", tt.length)
		assert.Len(t, chunks[len(chunks)-1].Text, tt.lastLen, "length %d", tt.length)
	}
}

func TestChunk_CountAndCoverage(t *testing.T) {
	configs := []struct{ size, overlap int }{
		{500, 50},
		{10, 3},
		{10, 9},
		{7, 0},
		{100, 99},
	}
	alphabet := "abcdefghijklmnopqrstuvwxyz0123456789"

	for _, cfg := range configs {
		c, err := NewFixedChunker(cfg.size, cfg.overlap)
		require.NoError(t, err)
		step := cfg.size - cfg.overlap

		for _, length := range []int{1, cfg.size - 1, cfg.size, cfg.size + 1, 3*cfg.size + 7, 1234} {
			if length <= 0 {
				continue
			}
			var sb strings.Builder
			for i := 0; i < length; i++ {
				sb.WriteByte(alphabet[i%len(alphabet)])
			}
			text := sb.String()

			chunks, err := c.Chunk("p.txt", text)
			require.NoError(t, err)

			expected := 1
			if length > cfg.size {
				expected = (length + step - 1) / step
			}
			require.Len(t, chunks, expected, "size=%d overlap=%d length=%d", cfg.size, cfg.overlap, length)

			if cfg.overlap <= step {
				approx := 1
				if length > cfg.overlap {
					approx = (length - cfg.overlap + step - 1) / step
				}
				assert.InDelta(t, approx, len(chunks), 1, "size=%d overlap=%d length=%d", cfg.size, cfg.overlap, length)
			}

			// Every chunk is the window at its offset, consecutive windows
			// touch or overlap, and the last one reaches the end.
			covered := 0
			for i, ch := range chunks {
				off := i * step
				assert.LessOrEqual(t, off, covered)
				assert.LessOrEqual(t, len(ch.Text), cfg.size)
				require.Equal(t, text[off:off+len(ch.Text)], ch.Text)
				if end := off + len(ch.Text); end > covered {
					covered = end
				}
			}
			assert.Equal(t, length, covered)
		}
	}
}

func TestChunk_DropsWhitespaceWindowsAndRenumbers(t *testing.T) {
	c, err := NewFixedChunker(10, 0)
	require.NoError(t, err)

	text := "first part" + strings.Repeat(" ", 20) + "third part"
	chunks, err := c.Chunk("gap.txt", text)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "first part", chunks[0].Text)
	assert.Equal(t, "third part", chunks[1].Text)
	assert.Equal(t, "gap.txt_chunk_1", chunks[1].ID)
	assert.Equal(t, 1, chunks[1].Index)
}

func TestChunk_EmptyContent(t *testing.T) {
	c := NewDefaultChunker()

	for _, text := range []string{"", "   ", "\n\t\n"} {
		_, err := c.Chunk("blank.txt", text)
		assert.ErrorIs(t, err, domain.ErrEmptyContent)
	}
}

func TestChunk_CountsRunesNotBytes(t *testing.T) {
	c, err := NewFixedChunker(4, 1)
	require.NoError(t, err)

	chunks, err := c.Chunk("utf8.txt", "héllo wörld")
	require.NoError(t, err)

	for _, ch := range chunks {
		assert.LessOrEqual(t, len([]rune(ch.Text)), 4)
		assert.True(t, strings.ToValidUTF8(ch.Text, "?") == ch.Text)
	}
	assert.Equal(t, "héll", chunks[0].Text)
}
