package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type htmlExtractor struct{}

// NewHTMLExtractor extracts readable text from a generic web page.
func NewHTMLExtractor() Extractor {
	return &htmlExtractor{}
}

func (e *htmlExtractor) Extract(ctx context.Context, in Input) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(in.Content))
	if err != nil {
		return partialResult("Untitled Page", fmt.Sprintf("html parse failed: %v", err)), nil
	}

	stripNonContent(doc)
	title := pageTitle(doc, "Untitled Page")

	container := mainContainer(doc)
	text := selectionText(container)
	if strings.TrimSpace(text) == "" {
		return partialResult(title, "page contains no extractable text"), nil
	}

	metadata := map[string]interface{}{}
	if in.SourceURL != "" {
		metadata["source_url"] = in.SourceURL
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		if d := strings.TrimSpace(desc); d != "" {
			metadata["description"] = d
		}
	}
	if lang, ok := doc.Find("html").Attr("lang"); ok && lang != "" {
		metadata["language"] = lang
	}

	return &Result{
		Title:     title,
		Text:      text,
		Structure: countStructure(container),
		Metadata:  metadata,
	}, nil
}

// mainContainer prefers the page's semantic content root over the full
// body, which avoids pulling in sidebars and comment widgets.
func mainContainer(doc *goquery.Document) *goquery.Selection {
	for _, selector := range []string{"main", "article", "#content", ".content", "#main"} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	return doc.Find("body")
}
