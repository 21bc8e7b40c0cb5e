package ingest

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceRun   = regexp.MustCompile(`[ \t]+`)
	newlineRun = regexp.MustCompile(`\n{3,}`)
	trailingWS = regexp.MustCompile(`[ \t]+\n`)
)

var quoteReplacer = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	" ", " ",
)

// NormalizeText cleans extracted text for chunking: straightens curly
// quotes, strips control characters except newline and tab, collapses
// space runs, and caps blank-line runs at one so paragraph boundaries
// survive.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	text = quoteReplacer.Replace(text)
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)

	text = spaceRun.ReplaceAllString(text, " ")
	text = trailingWS.ReplaceAllString(text, "\n")
	text = newlineRun.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
