package extractor

import (
	"context"
	"testing"
)

func TestTxtExtractor(t *testing.T) {
	e := NewTxtExtractor()

	tests := []struct {
		name        string
		input       Input
		wantTitle   string
		wantPartial bool
		wantText    string
	}{
		{
			name:      "short first line becomes title",
			input:     Input{Filename: "notes.txt", Content: []byte("Meeting Notes\n\nDiscussed the roadmap.")},
			wantTitle: "Meeting Notes",
			wantText:  "Meeting Notes\n\nDiscussed the roadmap.",
		},
		{
			name:      "markdown heading prefix stripped from title",
			input:     Input{Filename: "readme.md", Content: []byte("# Getting Started\n\nInstall the tool.")},
			wantTitle: "Getting Started",
			wantText:  "# Getting Started\n\nInstall the tool.",
		},
		{
			name: "long first line is truncated",
			input: Input{
				Filename: "essay.txt",
				Content:  []byte("This opening sentence is far too long to be repurposed as a document title.\nBody."),
			},
			wantTitle: "This opening sentence is far too long to be repurp",
			wantText:  "This opening sentence is far too long to be repurposed as a document title.\nBody.",
		},
		{
			name:        "empty file is partial",
			input:       Input{Filename: "empty.txt", Content: []byte("   \n  ")},
			wantTitle:   "empty",
			wantPartial: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := e.Extract(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.IsPartial != tt.wantPartial {
				t.Fatalf("IsPartial = %v, want %v (message: %q)", result.IsPartial, tt.wantPartial, result.ErrorMessage)
			}
			if result.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", result.Title, tt.wantTitle)
			}
			if !tt.wantPartial && result.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", result.Text, tt.wantText)
			}
			if tt.wantPartial && result.ErrorMessage == "" {
				t.Error("partial result missing ErrorMessage")
			}
		})
	}
}

func TestTxtExtractorWindows1252(t *testing.T) {
	e := NewTxtExtractor()

	// 0x93/0x94 are curly quotes in Windows-1252 and invalid UTF-8.
	content := []byte{'S', 'a', 'i', 'd', ' ', 0x93, 'h', 'i', 0x94}
	result, err := e.Extract(context.Background(), Input{Filename: "legacy.txt", Content: content})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.IsPartial {
		t.Fatalf("windows-1252 input should decode, got partial: %q", result.ErrorMessage)
	}
	if result.Metadata["encoding"] != "windows-1252" {
		t.Errorf("encoding = %v, want windows-1252", result.Metadata["encoding"])
	}
	if result.Text != "Said “hi”" {
		t.Errorf("Text = %q, want %q", result.Text, "Said “hi”")
	}
}
