package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// notionBlockClasses maps public-page CSS classes to block type names
// for the structure histogram.
var notionBlockClasses = map[string]string{
	"notion-header-block":         "heading",
	"notion-sub_header-block":     "heading",
	"notion-sub_sub_header-block": "heading",
	"notion-text-block":           "text",
	"notion-bulleted_list-block":  "list_item",
	"notion-numbered_list-block":  "list_item",
	"notion-to_do-block":          "todo",
	"notion-toggle-block":         "toggle",
	"notion-quote-block":          "quote",
	"notion-callout-block":        "callout",
	"notion-code-block":           "code",
	"notion-table-block":          "table",
	"notion-image-block":          "image",
}

type notionExtractor struct{}

// NewNotionExtractor extracts text from published Notion pages.
func NewNotionExtractor() Extractor {
	return &notionExtractor{}
}

func (e *notionExtractor) Extract(ctx context.Context, in Input) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(in.Content))
	if err != nil {
		return partialResult("Untitled Notion Page", fmt.Sprintf("html parse failed: %v", err)), nil
	}

	stripNonContent(doc)
	title := notionTitle(doc)

	var (
		sb         strings.Builder
		blockTypes = map[string]int{}
		blocks     int
	)
	doc.Find(`[class*="notion-"]`).Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		blockType, ok := classifyNotionBlock(class)
		if !ok {
			return
		}
		if blockType == "image" {
			blockTypes[blockType]++
			blocks++
			return
		}
		// Only leaf blocks carry text; containers repeat their children.
		if s.Find(`[class*="notion-"]`).Length() > 0 {
			return
		}
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
		blockTypes[blockType]++
		blocks++
	})

	metadata := map[string]interface{}{}
	if in.SourceURL != "" {
		metadata["source_url"] = in.SourceURL
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		// Not every published page uses notion-* classes. Whole-page text
		// is still stored, but flagged partial since the block structure
		// could not be recovered.
		fallback := selectionText(doc.Find("body"))
		if strings.TrimSpace(fallback) == "" {
			return partialResult(title, "notion page contains no extractable text"), nil
		}
		res := partialResult(title, "notion blocks not found, fell back to whole-page text")
		res.Text = fallback
		res.Metadata = metadata
		return res, nil
	}

	structure := map[string]interface{}{"blocks": blocks}
	for blockType, count := range blockTypes {
		structure[blockType] = count
	}

	return &Result{
		Title:     title,
		Text:      text,
		Structure: structure,
		Metadata:  metadata,
	}, nil
}

func notionTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find(".notion-page-block").First().Text()); t != "" {
		return t
	}
	return pageTitle(doc, "Untitled Notion Page")
}

func classifyNotionBlock(class string) (string, bool) {
	for _, name := range strings.Fields(class) {
		if blockType, ok := notionBlockClasses[name]; ok {
			return blockType, true
		}
	}
	return "", false
}
