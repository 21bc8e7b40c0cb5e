package extractor

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// Lines set at least this much larger than the dominant body font are
// treated as headings.
const headingSizeRatio = 1.2

type pdfExtractor struct{}

// NewPDFExtractor extracts per-page text from PDF bytes. Encrypted or
// corrupt files yield a partial result rather than an error.
func NewPDFExtractor() Extractor {
	return &pdfExtractor{}
}

func (e *pdfExtractor) Extract(ctx context.Context, in Input) (result *Result, err error) {
	title := titleFromFilename(in.Filename, "Untitled Document")

	// The pdf package panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			result = partialResult(title, fmt.Sprintf("pdf parse panic: %v", r))
			err = nil
		}
	}()

	reader, parseErr := pdf.NewReader(bytes.NewReader(in.Content), int64(len(in.Content)))
	if parseErr != nil {
		return partialResult(title, fmt.Sprintf("pdf parse failed: %v", parseErr)), nil
	}

	var (
		sb        strings.Builder
		fonts     = fontHistogram{}
		lineSizes []float64
	)
	pageCount := reader.NumPage()
	extracted := 0
	for i := 1; i <= pageCount; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
		extracted++

		lineSizes = append(lineSizes, pageLineSizes(page, fonts)...)
	}

	if extracted == 0 {
		return partialResult(title, "pdf contains no extractable text"), nil
	}

	metadata := map[string]interface{}{
		"page_count":      pageCount,
		"extracted_pages": extracted,
	}
	if info := docInfo(reader); len(info) > 0 {
		for k, v := range info {
			metadata[k] = v
		}
		if t, ok := info["title"]; ok && t != "" {
			title = t
		}
	}

	return &Result{
		Title: title,
		Text:  sb.String(),
		Structure: map[string]interface{}{
			"pages":    pageCount,
			"headings": countHeadings(fonts, lineSizes),
		},
		Metadata: metadata,
	}, nil
}

// fontHistogram tracks how many characters are set in each font size.
type fontHistogram map[float64]int

// pageLineSizes records the font size of every text line on a page,
// one entry per distinct baseline.
func pageLineSizes(page pdf.Page, fonts fontHistogram) (sizes []float64) {
	// Content panics on some malformed streams.
	defer func() { _ = recover() }()

	seen := map[float64]bool{}
	for _, txt := range page.Content().Text {
		fonts[txt.FontSize] += len(txt.S)
		if !seen[txt.Y] {
			seen[txt.Y] = true
			sizes = append(sizes, txt.FontSize)
		}
	}
	return sizes
}

// countHeadings flags lines whose font size is noticeably larger than
// the dominant body size.
func countHeadings(fonts fontHistogram, lineSizes []float64) int {
	var bodySize float64
	bodyWeight := 0
	for size, weight := range fonts {
		if weight > bodyWeight {
			bodySize = size
			bodyWeight = weight
		}
	}
	if bodySize == 0 {
		return 0
	}

	headings := 0
	for _, size := range lineSizes {
		if size >= bodySize*headingSizeRatio {
			headings++
		}
	}
	return headings
}

// docInfo pulls the optional Info dictionary (Title, Author, Subject,
// creation and modification timestamps).
func docInfo(reader *pdf.Reader) map[string]string {
	defer func() { _ = recover() }()

	trailer := reader.Trailer()
	if trailer.IsNull() {
		return nil
	}
	info := trailer.Key("Info")
	if info.IsNull() {
		return nil
	}

	out := map[string]string{}
	for key, field := range map[string]string{
		"Title":   "title",
		"Author":  "author",
		"Subject": "subject",
	} {
		if v := info.Key(key); !v.IsNull() {
			if s := strings.TrimSpace(v.Text()); s != "" {
				out[field] = s
			}
		}
	}
	for key, field := range map[string]string{
		"CreationDate": "created_at",
		"ModDate":      "modified_at",
	} {
		if v := info.Key(key); !v.IsNull() {
			if s := strings.TrimSpace(v.Text()); s != "" {
				out[field] = parsePDFDate(s)
			}
		}
	}
	return out
}

// parsePDFDate decodes the Info dictionary "D:YYYYMMDDHHmmSS" date
// format. A value that does not parse is returned unchanged.
func parsePDFDate(raw string) string {
	s := strings.TrimPrefix(raw, "D:")
	if idx := strings.IndexAny(s, "+-Z"); idx >= 0 {
		s = s[:idx]
	}
	for _, layout := range []string{"20060102150405", "200601021504", "20060102"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return raw
}

func titleFromFilename(filename, fallback string) string {
	base := path.Base(filename)
	if base == "." || base == "/" || base == "" {
		return fallback
	}
	name := strings.TrimSuffix(base, path.Ext(base))
	if name == "" {
		return fallback
	}
	return name
}
