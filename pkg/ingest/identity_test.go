package ingest

import (
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"lowercases scheme and host", "HTTPS://Example.COM/Docs", "https://example.com/Docs"},
		{"drops fragment", "https://example.com/page#section-2", "https://example.com/page"},
		{"trims trailing slash", "https://example.com/page/", "https://example.com/page"},
		{"keeps query", "https://example.com/page?v=2", "https://example.com/page?v=2"},
		{"path case preserved", "https://example.com/Docs/Intro", "https://example.com/Docs/Intro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.raw); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDocumentIDForURLStableAcrossSpellings(t *testing.T) {
	a := DocumentIDForURL("https://Example.com/docs/intro/")
	b := DocumentIDForURL("https://example.com/docs/intro#top")

	if a != b {
		t.Errorf("equivalent urls produced different ids: %s vs %s", a, b)
	}

	c := DocumentIDForURL("https://example.com/docs/other")
	if a == c {
		t.Error("distinct urls produced the same id")
	}
}

func TestDocumentIDForContent(t *testing.T) {
	hash := ContentHash([]byte("hello world"))

	a := DocumentIDForContent(KindPDF, hash, map[string]string{"team": "eng", "project": "alpha"})
	b := DocumentIDForContent(KindPDF, hash, map[string]string{"project": "alpha", "team": "eng"})
	if a != b {
		t.Error("metadata key order changed the document id")
	}

	c := DocumentIDForContent(KindTxt, hash, map[string]string{"team": "eng", "project": "alpha"})
	if a == c {
		t.Error("different kinds produced the same id")
	}

	d := DocumentIDForContent(KindPDF, hash, map[string]string{"team": "eng"})
	if a == d {
		t.Error("different metadata produced the same id")
	}
}

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("same bytes"))
	b := ContentHash([]byte("same bytes"))
	c := ContentHash([]byte("other bytes"))

	if a != b {
		t.Error("identical content hashed differently")
	}
	if a == c {
		t.Error("distinct content hashed identically")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}
