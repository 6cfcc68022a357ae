package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextSplitterValidation(t *testing.T) {
	_, err := NewTextSplitter(0, 0)
	assert.Error(t, err)

	_, err = NewTextSplitter(100, 100)
	assert.Error(t, err)

	_, err = NewTextSplitter(100, -1)
	assert.Error(t, err)

	_, err = NewTextSplitter(100, 20)
	assert.NoError(t, err)
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	splitter, err := NewTextSplitter(1000, 200)
	require.NoError(t, err)

	chunks := splitter.Split("a short document")
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short document", chunks[0])
}

func TestSplitEmptyText(t *testing.T) {
	splitter, err := NewTextSplitter(1000, 200)
	require.NoError(t, err)

	assert.Empty(t, splitter.Split(""))
	assert.Empty(t, splitter.Split("   \n\n  "))
}

func TestSplitSeparatorFreeText(t *testing.T) {
	splitter, err := NewTextSplitter(1000, 200)
	require.NoError(t, err)

	text := strings.Repeat("x", 2500)
	chunks := splitter.Split(text)

	require.Len(t, chunks, 3)
	assert.Equal(t, 1000, len(chunks[0]))
	assert.Equal(t, 1000, len(chunks[1]))
	assert.Equal(t, 900, len(chunks[2]))
}

func TestSplitChunksNeverExceedSize(t *testing.T) {
	splitter, err := NewTextSplitter(100, 20)
	require.NoError(t, err)

	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 50)
	for _, chunk := range splitter.Split(text) {
		assert.LessOrEqual(t, len([]rune(chunk)), 100)
	}
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	splitter, err := NewTextSplitter(100, 20)
	require.NoError(t, err)

	para1 := strings.Repeat("a", 60)
	para2 := strings.Repeat("b", 60)
	chunks := splitter.Split(para1 + "\n\n" + para2)

	require.GreaterOrEqual(t, len(chunks), 2)
	// First cut lands on the paragraph break rather than mid-word.
	assert.True(t, strings.HasSuffix(chunks[0], "\n\n"), "chunk %q should end at the paragraph break", chunks[0])
}

// reconstruct rebuilds the original text from overlapping chunks by
// dropping the first overlap runes of every chunk after the first.
func reconstruct(chunks []string, overlap int) string {
	var b strings.Builder
	for i, chunk := range chunks {
		runes := []rune(chunk)
		if i == 0 {
			b.WriteString(chunk)
			continue
		}
		b.WriteString(string(runes[overlap:]))
	}
	return b.String()
}

func TestSplitReconstruction(t *testing.T) {
	cases := map[string]string{
		"separator free": strings.Repeat("y", 2500),
		"paragraphs":     strings.Repeat(strings.Repeat("word ", 40)+"\n\n", 20),
		"newlines":       strings.Repeat("one line of text here\n", 120),
		"unicode":        strings.Repeat("héllo wörld ünïcode tëxt ", 150),
	}

	splitter, err := NewTextSplitter(300, 60)
	require.NoError(t, err)

	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			chunks := splitter.Split(text)
			require.NotEmpty(t, chunks)
			assert.Equal(t, text, reconstruct(chunks, 60))
		})
	}
}

func TestSplitOverlapIsExact(t *testing.T) {
	splitter, err := NewTextSplitter(100, 25)
	require.NoError(t, err)

	text := strings.Repeat("z", 500)
	chunks := splitter.Split(text)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		curr := []rune(chunks[i])
		assert.Equal(t, string(prev[len(prev)-25:]), string(curr[:25]),
			"chunk %d should start with the last 25 runes of chunk %d", i, i-1)
	}
}

func TestSplitZeroOverlap(t *testing.T) {
	splitter, err := NewTextSplitter(100, 0)
	require.NoError(t, err)

	text := strings.Repeat("q", 350)
	chunks := splitter.Split(text)
	require.Len(t, chunks, 4)
	assert.Equal(t, text, strings.Join(chunks, ""))
}
