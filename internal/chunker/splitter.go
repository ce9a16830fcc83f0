package chunker

import "strings"

// Splitter divides a description into overlapping character-bounded chunks,
// preferring to break at paragraph, then sentence, then space boundaries
// before falling back to a hard cut.
type Splitter struct {
	chunkSize int
	overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 300
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 50
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}
}

// Split returns the chunks of text in order. Text at most chunkSize long
// comes back as a single chunk; empty text yields no chunks.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= s.chunkSize {
		return []string{text}
	}
	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + s.chunkSize
		if end >= len(runes) {
			chunk := strings.TrimSpace(string(runes[start:]))
			if chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}
		cut := s.boundary(runes, start, end)
		chunk := strings.TrimSpace(string(runes[start:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		next := cut - s.overlap
		if next <= start {
			next = cut
		}
		start = next
	}
	return chunks
}

// boundary looks backwards from end for the best break point within the
// window, in priority order. The window floor keeps a pathological text from
// producing tiny chunks.
func (s *Splitter) boundary(runes []rune, start, end int) int {
	window := string(runes[start:end])
	floor := s.chunkSize / 2
	for _, sep := range []string{"\n\n", ". ", "! ", "? ", " "} {
		if idx := strings.LastIndex(window, sep); idx >= floor {
			return start + len([]rune(window[:idx+len(sep)]))
		}
	}
	return end
}
