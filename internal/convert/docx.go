package convert

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var errNoDocumentXML = errors.New("word/document.xml not found")

// documentXML is the subset of word/document.xml needed for Markdown output.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Props struct {
		Style struct {
			Val string `xml:"val,attr"`
		} `xml:"pStyle"`
		Numbering *struct{} `xml:"numPr"`
	} `xml:"pPr"`
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
	Tabs []struct{}    `xml:"tab"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// docxToMarkdown renders the paragraphs of a DOCX body as Markdown. Heading and
// Title styles become ATX markers and numbered or bulleted paragraphs become list items.
func docxToMarkdown(content []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document.xml: %w", err)
		}
		raw, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("failed to read document.xml: %w", err)
		}

		return parseDocumentXML(raw)
	}
	return "", errNoDocumentXML
}

func parseDocumentXML(raw []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("failed to parse document.xml: %w", err)
	}

	var blocks []string
	for _, para := range doc.Body.Paragraphs {
		var text strings.Builder
		for _, r := range para.Runs {
			for _, t := range r.Text {
				text.WriteString(t.Content)
			}
			if len(r.Tabs) > 0 {
				text.WriteString(" ")
			}
		}

		line := strings.TrimSpace(text.String())
		if line == "" {
			continue
		}

		switch level := headingLevel(para.Props.Style.Val); {
		case level > 0:
			line = strings.Repeat("#", level) + " " + line
		case para.Props.Numbering != nil || strings.HasPrefix(para.Props.Style.Val, "List"):
			line = "- " + line
		}
		blocks = append(blocks, line)
	}

	return strings.Join(blocks, "\n\n"), nil
}

// headingLevel maps Word paragraph styles to Markdown heading levels (0 = body text).
func headingLevel(style string) int {
	if style == "Title" {
		return 1
	}
	rest, ok := strings.CutPrefix(style, "Heading")
	if !ok {
		return 0
	}
	level, err := strconv.Atoi(rest)
	if err != nil || level < 1 || level > 6 {
		return 0
	}
	return level
}
