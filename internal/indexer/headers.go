package indexer

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// SplitSections splits Markdown into sections at every top-level ATX heading of
// level 1..MaxHeaderLevel. The heading line belongs to the section it opens, so
// concatenating the section contents reproduces the input exactly. Text before the
// first heading forms a section with no headers. Headings inside code blocks,
// setext headings and headings deeper than MaxHeaderLevel are plain content.
func SplitSections(markdownText string) []Section {
	if markdownText == "" {
		return nil
	}

	source := []byte(markdownText)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var sections []Section
	var headers Headers
	start := 0

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level > MaxHeaderLevel || heading.Lines().Len() == 0 {
			continue
		}

		lineStart := headingLineStart(source, heading.Lines().At(0).Start)
		if !isATXLine(source[lineStart:]) {
			continue
		}

		if lineStart > start {
			sections = append(sections, Section{
				Content: markdownText[start:lineStart],
				Headers: headers,
			})
		}
		start = lineStart

		// A heading replaces its own level and closes every deeper one.
		headers[heading.Level-1] = extractTextFromNode(heading, source)
		for level := heading.Level; level < MaxHeaderLevel; level++ {
			headers[level] = ""
		}
	}

	sections = append(sections, Section{
		Content: markdownText[start:],
		Headers: headers,
	})
	return sections
}

// headingLineStart returns the offset of the line containing pos.
func headingLineStart(source []byte, pos int) int {
	if i := bytes.LastIndexByte(source[:pos], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

// isATXLine reports whether line starts with up to three spaces and a '#'.
func isATXLine(line []byte) bool {
	for i := 0; i < len(line) && i < 4; i++ {
		switch line[i] {
		case ' ':
			continue
		case '#':
			return true
		default:
			return false
		}
	}
	return false
}

// extractTextFromNode extracts text content from a node and its children.
func extractTextFromNode(n ast.Node, content []byte) string {
	var textBuilder strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			segment := v.Segment
			textBuilder.Write(segment.Value(content))
			if v.SoftLineBreak() {
				textBuilder.WriteByte(' ')
			}
		case *ast.String:
			textBuilder.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(textBuilder.String())
}
