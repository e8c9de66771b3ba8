package indexer

import "strings"

// Chunker splits preprocessed text into overlapping character windows
// measured in runes.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker. Overlap is clamped below size.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split returns the chunk texts of text. A window ends after the last '.',
// '!' or '?' past its midpoint, else at the last space past its midpoint, else
// at the size limit. The next window starts overlap runes before the previous
// end and always moves forward.
func (c *Chunker) Split(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= c.size {
		return []string{string(runes)}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := min(start+c.size, len(runes))
		if end < len(runes) {
			end = c.boundary(runes, start, end)
		}
		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= len(runes) {
			break
		}
		next := end - c.overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

func (c *Chunker) boundary(runes []rune, start, end int) int {
	mid := start + c.size/2
	for i := end - 1; i > mid; i-- {
		switch runes[i] {
		case '.', '!', '?':
			return i + 1
		}
	}
	for i := end - 1; i > mid; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return end
}
