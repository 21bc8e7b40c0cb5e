package chunker

import (
	"fmt"
	"strings"
	"testing"
)

func wordsText(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		chunkSize  int
		overlap    int
		wordCount  int
		wantChunks int
		wantStarts []int
	}{
		{
			name:       "empty text",
			chunkSize:  512,
			overlap:    50,
			wordCount:  0,
			wantChunks: 0,
		},
		{
			name:       "shorter than window",
			chunkSize:  512,
			overlap:    50,
			wordCount:  100,
			wantChunks: 1,
			wantStarts: []int{0},
		},
		{
			name:       "exactly window size",
			chunkSize:  512,
			overlap:    50,
			wordCount:  512,
			wantChunks: 1,
			wantStarts: []int{0},
		},
		{
			name:       "1000 words default window",
			chunkSize:  512,
			overlap:    50,
			wordCount:  1000,
			wantChunks: 3,
			wantStarts: []int{0, 462, 924},
		},
		{
			name:       "small window",
			chunkSize:  10,
			overlap:    3,
			wordCount:  25,
			wantChunks: 4,
			wantStarts: []int{0, 7, 14, 21},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.chunkSize, tt.overlap)
			chunks := c.Split(wordsText(tt.wordCount))

			if len(chunks) != tt.wantChunks {
				t.Fatalf("chunk count = %d, want %d", len(chunks), tt.wantChunks)
			}

			for i, chunk := range chunks {
				if chunk.Index != i {
					t.Errorf("chunk %d: Index = %d, want %d", i, chunk.Index, i)
				}
				if chunk.StartWord != tt.wantStarts[i] {
					t.Errorf("chunk %d: StartWord = %d, want %d", i, chunk.StartWord, tt.wantStarts[i])
				}
				if got := len(strings.Fields(chunk.Text)); got != chunk.WordCount {
					t.Errorf("chunk %d: WordCount = %d but text has %d words", i, chunk.WordCount, got)
				}
				if chunk.WordCount > tt.chunkSize {
					t.Errorf("chunk %d: WordCount = %d exceeds window %d", i, chunk.WordCount, tt.chunkSize)
				}
			}
		})
	}
}

func TestSplitOverlapSharesWords(t *testing.T) {
	c := New(10, 3)
	chunks := c.Split(wordsText(25))

	for i := 1; i < len(chunks); i++ {
		prev := strings.Fields(chunks[i-1].Text)
		cur := strings.Fields(chunks[i].Text)

		tail := prev[len(prev)-3:]
		head := cur[:3]
		for j := range tail {
			if tail[j] != head[j] {
				t.Fatalf("chunk %d does not share overlap with predecessor: tail %v, head %v", i, tail, head)
			}
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	c := New(10, 3)
	text := wordsText(47)

	a := c.Split(text)
	b := c.Split(text)

	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestNewFallbacks(t *testing.T) {
	tests := []struct {
		name          string
		chunkSize     int
		overlap       int
		wantChunkSize int
		wantOverlap   int
	}{
		{"zero size uses defaults", 0, -1, DefaultChunkSize, DefaultOverlap},
		{"overlap >= size halves window", 100, 100, 100, 50},
		{"valid passthrough", 256, 32, 256, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.chunkSize, tt.overlap)
			if c.ChunkSize() != tt.wantChunkSize {
				t.Errorf("ChunkSize() = %d, want %d", c.ChunkSize(), tt.wantChunkSize)
			}
			if c.Overlap() != tt.wantOverlap {
				t.Errorf("Overlap() = %d, want %d", c.Overlap(), tt.wantOverlap)
			}
		})
	}
}
