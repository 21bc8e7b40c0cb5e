package ingest

import (
	"bytes"
	"net/http"
	"net/url"
	"path"
	"strings"

	"ai-knowledge-be/pkg/apperrors"
)

// SourceKind identifies how a document's content should be extracted.
type SourceKind string

const (
	KindPDF        SourceKind = "pdf"
	KindDocx       SourceKind = "docx"
	KindTxt        SourceKind = "txt"
	KindURL        SourceKind = "url"
	KindNotion     SourceKind = "notion"
	KindConfluence SourceKind = "confluence"
)

var extensionKinds = map[string]SourceKind{
	".pdf":  KindPDF,
	".docx": KindDocx,
	".txt":  KindTxt,
	".text": KindTxt,
	".md":   KindTxt,
}

// Source is the raw input handed to the resolver: either a URL or a
// named payload. Exactly one of SourceURL / Content is expected.
type Source struct {
	SourceURL string
	Filename  string
	Content   []byte
	MimeType  string
}

// Resolve determines the SourceKind for a source. Detection order:
// URL host patterns, then filename extension, then declared or sniffed
// MIME type, then an HTML marker scan. Anything still ambiguous is an
// UnknownContentType error.
func Resolve(src Source) (SourceKind, error) {
	if src.SourceURL != "" {
		return resolveURL(src.SourceURL)
	}

	if src.Filename != "" {
		ext := strings.ToLower(path.Ext(src.Filename))
		if kind, ok := extensionKinds[ext]; ok {
			return kind, nil
		}
	}

	mime := src.MimeType
	if mime == "" && len(src.Content) > 0 {
		mime = http.DetectContentType(src.Content)
	}
	if kind, ok := kindFromMime(mime); ok {
		return kind, nil
	}

	if looksLikeHTML(src.Content) {
		return KindURL, nil
	}

	return "", apperrors.Wrap(apperrors.ErrUnknownContentType,
		"cannot resolve content type for %q", src.Filename)
}

func resolveURL(raw string) (SourceKind, error) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "", apperrors.Wrap(apperrors.ErrUnknownContentType, "invalid source url %q", raw)
	}

	host := strings.ToLower(parsed.Host)
	switch {
	case strings.HasSuffix(host, "notion.site"), strings.HasSuffix(host, "notion.so"):
		return KindNotion, nil
	case strings.Contains(host, "confluence"), strings.Contains(parsed.Path, "/wiki/"):
		return KindConfluence, nil
	}

	if kind, ok := extensionKinds[strings.ToLower(path.Ext(parsed.Path))]; ok {
		return kind, nil
	}

	return KindURL, nil
}

func kindFromMime(mime string) (SourceKind, bool) {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}

	switch mime {
	case "application/pdf":
		return KindPDF, true
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return KindDocx, true
	case "text/plain", "text/markdown":
		return KindTxt, true
	case "text/html":
		return KindURL, true
	}
	return "", false
}

// looksLikeHTML scans the first kilobyte for an HTML marker. MIME
// sniffing misses fragments without a doctype, so this is the last
// resort before giving up.
func looksLikeHTML(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	head := content
	if len(head) > 1024 {
		head = head[:1024]
	}
	lower := bytes.ToLower(head)
	for _, marker := range [][]byte{
		[]byte("<!doctype html"),
		[]byte("<html"),
		[]byte("<head"),
		[]byte("<body"),
	} {
		if bytes.Contains(lower, marker) {
			return true
		}
	}
	return false
}
