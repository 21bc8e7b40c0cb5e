package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ContentHash is the sha256 hex digest of raw source bytes.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// NormalizeURL canonicalizes a URL for identity purposes: lowercase
// scheme and host, fragment dropped, trailing slash trimmed. Two
// spellings of the same page must map to the same document id.
func NormalizeURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	return parsed.String()
}

// DocumentIDForURL derives the deterministic document id of a URL-like
// source from its normalized URL.
func DocumentIDForURL(rawURL string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(NormalizeURL(rawURL)))
}

// DocumentIDForContent derives the deterministic document id of a file
// source from its content hash, kind, and caller metadata. Metadata keys
// are sorted so map iteration order cannot change the id.
func DocumentIDForContent(kind SourceKind, contentHash string, metadata map[string]string) uuid.UUID {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(string(kind))
	sb.WriteString(":")
	sb.WriteString(contentHash)
	for _, k := range keys {
		sb.WriteString(":")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(metadata[k])
	}

	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(sb.String()))
}
