package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

type docxExtractor struct{}

// NewDocxExtractor extracts paragraph and table text from DOCX bytes.
func NewDocxExtractor() Extractor {
	return &docxExtractor{}
}

func (e *docxExtractor) Extract(ctx context.Context, in Input) (result *Result, err error) {
	title := titleFromFilename(in.Filename, "Untitled Document")

	defer func() {
		if r := recover(); r != nil {
			result = partialResult(title, fmt.Sprintf("docx parse panic: %v", r))
			err = nil
		}
	}()

	reader, parseErr := docx.ReadDocxFromMemory(bytes.NewReader(in.Content), int64(len(in.Content)))
	if parseErr != nil {
		return partialResult(title, fmt.Sprintf("docx parse failed: %v", parseErr)), nil
	}
	defer reader.Close()

	content := reader.Editable().GetContent()
	text, structure := flattenDocxXML(content)
	if strings.TrimSpace(text) == "" {
		return partialResult(title, "docx contains no extractable text"), nil
	}

	metadata := map[string]interface{}{}
	if props := readDocxCoreProps(in.Content); props != nil {
		if t := strings.TrimSpace(props.Title); t != "" {
			title = t
			metadata["title"] = t
		}
		if c := strings.TrimSpace(props.Creator); c != "" {
			metadata["author"] = c
		}
		if v := strings.TrimSpace(props.Created); v != "" {
			metadata["created_at"] = v
		}
		if v := strings.TrimSpace(props.Modified); v != "" {
			metadata["modified_at"] = v
		}
	}

	return &Result{
		Title:     title,
		Text:      text,
		Structure: structure,
		Metadata:  metadata,
	}, nil
}

// docxCoreProps holds the Dublin Core fields of docProps/core.xml.
type docxCoreProps struct {
	Title    string `xml:"title"`
	Creator  string `xml:"creator"`
	Created  string `xml:"created"`
	Modified string `xml:"modified"`
}

// readDocxCoreProps pulls document properties straight from the OOXML
// zip. Absent or malformed properties are not an extraction failure.
func readDocxCoreProps(content []byte) *docxCoreProps {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil
	}
	for _, f := range zr.File {
		if f.Name != "docProps/core.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()

		var props docxCoreProps
		if err := xml.NewDecoder(rc).Decode(&props); err != nil {
			return nil
		}
		return &props
	}
	return nil
}

// flattenDocxXML walks the word/document.xml body and joins runs into
// paragraphs. Table rows become pipe-separated lines so tabular content
// stays searchable.
func flattenDocxXML(content string) (string, map[string]interface{}) {
	decoder := xml.NewDecoder(strings.NewReader(content))

	var (
		sb         strings.Builder
		paragraph  strings.Builder
		rowCells   []string
		cell       strings.Builder
		inCell     bool
		paragraphs int
		tables     int
		headings   int
	)

	flushParagraph := func() {
		if text := strings.TrimSpace(paragraph.String()); text != "" {
			sb.WriteString(text)
			sb.WriteString("\n\n")
			paragraphs++
		}
		paragraph.Reset()
	}

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tables++
			case "tc":
				inCell = true
				cell.Reset()
			case "pStyle":
				// Word marks headings with style names Heading1..Heading9.
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" && strings.HasPrefix(attr.Value, "Heading") {
						headings++
					}
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inCell {
					if cell.Len() > 0 {
						cell.WriteString(" ")
					}
				} else {
					flushParagraph()
				}
			case "tc":
				inCell = false
				rowCells = append(rowCells, strings.TrimSpace(cell.String()))
			case "tr":
				if len(rowCells) > 0 {
					sb.WriteString(strings.Join(rowCells, " | "))
					sb.WriteString("\n")
					rowCells = nil
				}
			case "tbl":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inCell {
				cell.Write(t)
			} else {
				paragraph.Write(t)
			}
		}
	}
	flushParagraph()

	return sb.String(), map[string]interface{}{
		"paragraphs": paragraphs,
		"tables":     tables,
		"headings":   headings,
	}
}
