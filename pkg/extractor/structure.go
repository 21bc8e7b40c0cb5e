package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// countStructure tallies the structural elements of a parsed page.
// The counts are stored alongside the document and exposed on reads.
func countStructure(sel *goquery.Selection) map[string]interface{} {
	return map[string]interface{}{
		"headings":    sel.Find("h1, h2, h3").Length(),
		"paragraphs":  sel.Find("p").Length(),
		"lists":       sel.Find("ul, ol").Length(),
		"tables":      sel.Find("table").Length(),
		"images":      sel.Find("img").Length(),
		"links":       sel.Find("a[href]").Length(),
		"code_blocks": sel.Find("pre, code").Length(),
	}
}

// stripNonContent removes elements that never carry document text.
func stripNonContent(doc *goquery.Document) {
	doc.Find("script, style, noscript, nav, header, footer, aside, iframe, form").Remove()
}

// selectionText flattens a selection into newline-separated block text.
func selectionText(sel *goquery.Selection) string {
	var sb strings.Builder
	sel.Find("h1, h2, h3, h4, h5, h6, p, li, td, th, pre, blockquote").Each(func(_ int, s *goquery.Selection) {
		// Skip nodes whose text is fully covered by a child block,
		// e.g. a li wrapping a p.
		if s.Children().Is("p, li, pre, blockquote") {
			return
		}
		if text := strings.TrimSpace(s.Text()); text != "" {
			sb.WriteString(text)
			sb.WriteString("\n\n")
		}
	})

	if sb.Len() == 0 {
		return strings.TrimSpace(sel.Text())
	}
	return sb.String()
}

// pageTitle resolves a page title with og:title taking priority over
// the title tag, then the first h1, then the fallback.
func pageTitle(doc *goquery.Document, fallback string) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if t := strings.TrimSpace(og); t != "" {
			return t
		}
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	return fallback
}
