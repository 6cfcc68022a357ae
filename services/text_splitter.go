package services

import (
	"fmt"
	"strings"
)

// separators in priority order; character-level cut is the last resort.
var splitSeparators = []string{"\n\n", "\n", " "}

// TextSplitter splits extracted document text into overlapping chunks.
// Chunks are contiguous windows over the input: each chunk after the
// first starts exactly `overlap` characters before the previous chunk
// ends, so concatenating the first chunk with every later chunk's suffix
// (after dropping the leading `overlap` characters) reproduces the input
// exactly. Split points prefer the latest separator boundary that fits
// the window; no chunk exceeds chunkSize characters.
type TextSplitter struct {
	chunkSize int
	overlap   int
}

// NewTextSplitter validates the chunking parameters. Overlap must be
// strictly smaller than the chunk size or the window cannot advance.
func NewTextSplitter(chunkSize, overlap int) (*TextSplitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap must be in [0, chunk size), got %d with chunk size %d", overlap, chunkSize)
	}
	return &TextSplitter{chunkSize: chunkSize, overlap: overlap}, nil
}

// Split returns the ordered chunks of text. Empty input yields no chunks.
func (s *TextSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= s.chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for {
		if len(runes)-start <= s.chunkSize {
			chunks = append(chunks, string(runes[start:]))
			return chunks
		}
		end := s.splitPoint(runes, start)
		chunks = append(chunks, string(runes[start:end]))
		start = end - s.overlap
	}
}

// splitPoint picks the end of the chunk starting at start. It scans the
// separators in priority order for the latest boundary inside the window
// that still advances the window past the overlap region; without one,
// the chunk is cut at the size limit.
func (s *TextSplitter) splitPoint(runes []rune, start int) int {
	limit := start + s.chunkSize
	// The next chunk starts at end-overlap, so end must clear the overlap
	// region or the splitter would stall.
	min := start + s.overlap + 1

	window := string(runes[start:limit])
	for _, sep := range splitSeparators {
		idx := strings.LastIndex(window, sep)
		for idx >= 0 {
			end := start + len([]rune(window[:idx])) + len([]rune(sep))
			if end >= min && end <= limit {
				return end
			}
			idx = strings.LastIndex(window[:idx], sep)
		}
	}
	return limit
}
