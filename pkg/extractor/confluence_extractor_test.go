package extractor

import (
	"context"
	"strings"
	"testing"
)

const sampleConfluencePage = `<!DOCTYPE html>
<html>
<head>
  <title>Deployment Guide - Engineering - Acme Wiki</title>
  <meta name="ajs-page-id" content="98304">
  <meta name="ajs-space-key" content="ENG">
</head>
<body>
  <div id="title-text">Deployment Guide</div>
  <div class="page-metadata">Created by <a class="confluence-userlink" href="#">Dana Smith</a></div>
  <div id="main-content">
    <h2>Rolling out</h2>
    <p>Deploys go through staging first.</p>
    <table><tr><th>Env</th><th>Branch</th></tr><tr><td>prod</td><td>main</td></tr></table>
  </div>
  <div class="label-list">
    <a class="aui-label" href="#">deploys</a>
    <a class="aui-label" href="#">runbook</a>
  </div>
</body>
</html>`

func TestConfluenceExtractor(t *testing.T) {
	e := NewConfluenceExtractor()

	result, err := e.Extract(context.Background(), Input{
		Content:   []byte(sampleConfluencePage),
		SourceURL: "https://confluence.acme.com/display/ENG/Deployment+Guide",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.IsPartial {
		t.Fatalf("unexpected partial result: %q", result.ErrorMessage)
	}
	if result.Title != "Deployment Guide" {
		t.Errorf("Title = %q, want %q", result.Title, "Deployment Guide")
	}

	if !strings.Contains(result.Text, "Deploys go through staging first.") {
		t.Errorf("Text missing body paragraph: %q", result.Text)
	}
	if strings.Contains(result.Text, "runbook") {
		t.Error("label list leaked into extracted text")
	}

	if result.Structure["tables"] != 1 {
		t.Errorf("tables = %v, want 1", result.Structure["tables"])
	}
	if result.Metadata["page_id"] != "98304" {
		t.Errorf("page_id = %v", result.Metadata["page_id"])
	}
	if result.Metadata["space_key"] != "ENG" {
		t.Errorf("space_key = %v", result.Metadata["space_key"])
	}
	if result.Metadata["author"] != "Dana Smith" {
		t.Errorf("author = %v, want %q", result.Metadata["author"], "Dana Smith")
	}

	labels, ok := result.Metadata["labels"].([]string)
	if !ok || len(labels) != 2 {
		t.Fatalf("labels = %v, want two entries", result.Metadata["labels"])
	}
	if labels[0] != "deploys" || labels[1] != "runbook" {
		t.Errorf("labels = %v", labels)
	}
}

func TestConfluenceTitleStripsSpaceSuffix(t *testing.T) {
	e := NewConfluenceExtractor()

	result, err := e.Extract(context.Background(), Input{
		Content: []byte(`<html><head><title>Runbook - Engineering</title></head><body><p>Steps here.</p></body></html>`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Title != "Runbook" {
		t.Errorf("Title = %q, want %q", result.Title, "Runbook")
	}
}

func TestConfluenceMissingContainerFallsBackPartial(t *testing.T) {
	e := NewConfluenceExtractor()

	result, err := e.Extract(context.Background(), Input{
		Content: []byte(`<html><head><title>Old Export</title></head><body><p>Body text only.</p></body></html>`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.IsPartial {
		t.Error("whole-page fallback should be marked partial")
	}
	if result.ErrorMessage == "" {
		t.Error("fallback result should carry an error message")
	}
	if !strings.Contains(result.Text, "Body text only.") {
		t.Errorf("Text = %q", result.Text)
	}
}
