package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// confluenceContentSelectors are tried in order; the first match is
// treated as the page body.
var confluenceContentSelectors = []string{
	"#main-content",
	".wiki-content",
	".confluence-content",
	"#content .page-content",
}

type confluenceExtractor struct{}

// NewConfluenceExtractor extracts text and page metadata from
// Confluence wiki pages.
func NewConfluenceExtractor() Extractor {
	return &confluenceExtractor{}
}

func (e *confluenceExtractor) Extract(ctx context.Context, in Input) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(in.Content))
	if err != nil {
		return partialResult("Untitled Confluence Page", fmt.Sprintf("html parse failed: %v", err)), nil
	}

	stripNonContent(doc)
	title := confluenceTitle(doc)

	container, found := confluenceContainer(doc)
	text := selectionText(container)
	if strings.TrimSpace(text) == "" {
		return partialResult(title, "confluence page contains no extractable text"), nil
	}

	metadata := map[string]interface{}{}
	if in.SourceURL != "" {
		metadata["source_url"] = in.SourceURL
	}
	if pageID, ok := doc.Find(`meta[name="ajs-page-id"]`).Attr("content"); ok && pageID != "" {
		metadata["page_id"] = pageID
	}
	if spaceKey, ok := doc.Find(`meta[name="ajs-space-key"]`).Attr("content"); ok && spaceKey != "" {
		metadata["space_key"] = spaceKey
	}
	if author := confluenceAuthor(doc); author != "" {
		metadata["author"] = author
	}
	if labels := pageLabels(doc); len(labels) > 0 {
		metadata["labels"] = labels
	}

	if !found {
		// The wiki body markup was not recognized. Whole-page text is
		// still stored, but flagged partial.
		res := partialResult(title, "confluence content container not found, fell back to whole-page text")
		res.Text = text
		res.Metadata = metadata
		return res, nil
	}

	return &Result{
		Title:     title,
		Text:      text,
		Structure: countStructure(container),
		Metadata:  metadata,
	}, nil
}

func confluenceContainer(doc *goquery.Document) (*goquery.Selection, bool) {
	for _, selector := range confluenceContentSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel, true
		}
	}
	return doc.Find("body"), false
}

func confluenceAuthor(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("a.confluence-userlink, .page-metadata .author a, a.url.fn").First().Text())
}

func confluenceTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("#title-text").First().Text()); t != "" {
		return t
	}
	title := pageTitle(doc, "Untitled Confluence Page")
	// Page titles often carry the space name as a " - Space" suffix.
	if idx := strings.LastIndex(title, " - "); idx > 0 {
		title = title[:idx]
	}
	return title
}

func pageLabels(doc *goquery.Document) []string {
	var labels []string
	doc.Find(".label-list .aui-label, a.aui-label").Each(func(_ int, s *goquery.Selection) {
		if label := strings.TrimSpace(s.Text()); label != "" {
			labels = append(labels, label)
		}
	})
	return labels
}
