package extractor

import (
	"context"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html lang="en">
<head>
  <title>Release Notes - Acme</title>
  <meta name="description" content="What changed in v2.">
</head>
<body>
  <nav>Home | Docs | Pricing</nav>
  <main>
    <h1>Release Notes</h1>
    <p>Version 2 ships faster indexing.</p>
    <ul><li>New storage engine</li><li>Smaller memory footprint</li></ul>
    <script>trackPageView();</script>
  </main>
  <footer>Copyright Acme</footer>
</body>
</html>`

func TestHTMLExtractor(t *testing.T) {
	e := NewHTMLExtractor()

	result, err := e.Extract(context.Background(), Input{
		Content:   []byte(samplePage),
		SourceURL: "https://acme.com/releases",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.IsPartial {
		t.Fatalf("unexpected partial result: %q", result.ErrorMessage)
	}
	if result.Title != "Release Notes - Acme" {
		t.Errorf("Title = %q", result.Title)
	}

	if !strings.Contains(result.Text, "Version 2 ships faster indexing.") {
		t.Errorf("Text missing paragraph content: %q", result.Text)
	}
	if strings.Contains(result.Text, "trackPageView") {
		t.Error("script content leaked into extracted text")
	}
	if strings.Contains(result.Text, "Home | Docs") {
		t.Error("nav content leaked into extracted text")
	}
	if strings.Contains(result.Text, "Copyright Acme") {
		t.Error("footer content outside main leaked into extracted text")
	}

	if result.Structure["headings"] != 1 {
		t.Errorf("headings = %v, want 1", result.Structure["headings"])
	}
	if result.Structure["lists"] != 1 {
		t.Errorf("lists = %v, want 1", result.Structure["lists"])
	}
	if result.Metadata["description"] != "What changed in v2." {
		t.Errorf("description = %v", result.Metadata["description"])
	}
	if result.Metadata["language"] != "en" {
		t.Errorf("language = %v", result.Metadata["language"])
	}
	if result.Metadata["source_url"] != "https://acme.com/releases" {
		t.Errorf("source_url = %v", result.Metadata["source_url"])
	}
}

func TestHTMLExtractorEmptyPageIsPartial(t *testing.T) {
	e := NewHTMLExtractor()

	result, err := e.Extract(context.Background(), Input{
		Content: []byte(`<html><head><title>Blank</title></head><body><script>x()</script></body></html>`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.IsPartial {
		t.Fatal("expected partial result for page with no text")
	}
	if result.Title != "Blank" {
		t.Errorf("Title = %q, want %q", result.Title, "Blank")
	}
}
