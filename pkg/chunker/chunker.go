package chunker

import "strings"

const (
	// DefaultChunkSize is the chunk window in words.
	DefaultChunkSize = 512
	// DefaultOverlap is the number of words shared by consecutive chunks.
	DefaultOverlap = 50
)

// Chunk is a contiguous word-bounded slice of a document's text.
type Chunk struct {
	Text      string
	Index     int // 0-based, contiguous per document
	StartWord int
	WordCount int
}

// Chunker splits normalized text into overlapping word windows.
// It is a pure function of its input: same text, same chunks.
type Chunker struct {
	chunkSize int
	overlap   int
}

// New builds a Chunker. Invalid parameters fall back to the defaults;
// overlap must be strictly less than chunkSize.
func New(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

// Split produces successive windows starting at 0, chunkSize-overlap,
// 2*(chunkSize-overlap), ... until the start index passes the word count.
// Text shorter than chunkSize yields exactly one chunk equal to the whole text.
func (c *Chunker) Split(text string) []Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	if len(words) <= c.chunkSize {
		return []Chunk{{
			Text:      strings.Join(words, " "),
			Index:     0,
			StartWord: 0,
			WordCount: len(words),
		}}
	}

	step := c.chunkSize - c.overlap
	var chunks []Chunk
	for start := 0; start < len(words); start += step {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}

		chunks = append(chunks, Chunk{
			Text:      strings.Join(words[start:end], " "),
			Index:     len(chunks),
			StartWord: start,
			WordCount: end - start,
		})

		if end == len(words) {
			break
		}
	}

	return chunks
}

// ChunkSize returns the configured window size in words.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured overlap in words.
func (c *Chunker) Overlap() int { return c.overlap }
