package extractor

import (
	"context"
	"testing"

	"ai-knowledge-be/pkg/ingest"
)

func TestPDFExtractorCorruptInputIsPartial(t *testing.T) {
	e := NewPDFExtractor()

	result, err := e.Extract(context.Background(), Input{
		Filename: "broken.pdf",
		Content:  []byte("%PDF-1.4 this is not a real pdf body"),
	})
	if err != nil {
		t.Fatalf("corrupt pdf should not error, got: %v", err)
	}

	if !result.IsPartial {
		t.Fatal("expected partial result for corrupt pdf")
	}
	if result.Title != "broken" {
		t.Errorf("Title = %q, want %q", result.Title, "broken")
	}
	if result.ErrorMessage == "" {
		t.Error("partial result missing ErrorMessage")
	}
}

func TestDocxExtractorCorruptInputIsPartial(t *testing.T) {
	e := NewDocxExtractor()

	result, err := e.Extract(context.Background(), Input{
		Filename: "broken.docx",
		Content:  []byte("not a zip archive at all"),
	})
	if err != nil {
		t.Fatalf("corrupt docx should not error, got: %v", err)
	}

	if !result.IsPartial {
		t.Fatal("expected partial result for corrupt docx")
	}
	if result.Title != "broken" {
		t.Errorf("Title = %q, want %q", result.Title, "broken")
	}
}

func TestRegistryCoversAllKinds(t *testing.T) {
	r := NewRegistry()

	kinds := []ingest.SourceKind{
		ingest.KindPDF,
		ingest.KindDocx,
		ingest.KindTxt,
		ingest.KindURL,
		ingest.KindNotion,
		ingest.KindConfluence,
	}
	for _, kind := range kinds {
		if _, err := r.ForKind(kind); err != nil {
			t.Errorf("ForKind(%q) error: %v", kind, err)
		}
	}

	if _, err := r.ForKind(ingest.SourceKind("csv")); err == nil {
		t.Error("expected error for unregistered kind")
	}
}
