package extractor

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const maxInlineTitleLen = 50

type txtExtractor struct{}

// NewTxtExtractor handles plain text and markdown. Non-UTF-8 input is
// decoded via Windows-1252, then Latin-1, before giving up.
func NewTxtExtractor() Extractor {
	return &txtExtractor{}
}

func (e *txtExtractor) Extract(ctx context.Context, in Input) (*Result, error) {
	title := titleFromFilename(in.Filename, "Untitled Document")

	text, encoding, ok := decodeText(in.Content)
	if !ok {
		return partialResult(title, "text is not decodable as utf-8, windows-1252, or latin-1"), nil
	}
	if strings.TrimSpace(text) == "" {
		return partialResult(title, "text file is empty"), nil
	}

	// The first non-blank line reads like a heading and makes a better
	// title than the filename. Long lines are cut at a rune boundary.
	if firstLine := firstNonEmptyLine(text); firstLine != "" {
		title = truncateTitle(strings.TrimLeft(firstLine, "# "), maxInlineTitleLen)
	}

	lines := strings.Count(text, "\n") + 1

	return &Result{
		Title: title,
		Text:  text,
		Structure: map[string]interface{}{
			"lines": lines,
		},
		Metadata: map[string]interface{}{
			"encoding": encoding,
		},
	}, nil
}

func decodeText(content []byte) (string, string, bool) {
	if utf8.Valid(content) {
		return string(content), "utf-8", true
	}
	if decoded, err := charmap.Windows1252.NewDecoder().Bytes(content); err == nil {
		return string(decoded), "windows-1252", true
	}
	if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content); err == nil {
		return string(decoded), "latin-1", true
	}
	return "", "", false
}

func truncateTitle(title string, maxLen int) string {
	if len(title) <= maxLen {
		return title
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(title[cut]) {
		cut--
	}
	return strings.TrimSpace(title[:cut])
}

func firstNonEmptyLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
