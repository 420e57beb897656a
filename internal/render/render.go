// Package render turns a generated post into a standalone HTML preview.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// md is the configured goldmark instance, reused across calls.
// Raw HTML in model output is omitted, not passed through.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Preview is the content shown in a rendered page.
type Preview struct {
	Title    string
	Style    string // empty when a saved profile was used
	Post     string
	Hashtags string // already formatted, first tag unprefixed
}

// Markdown assembles the preview as a markdown document.
func (p Preview) Markdown() string {
	var b strings.Builder
	if p.Style != "" {
		b.WriteString("## Writing Style Summary\n\n")
		b.WriteString(p.Style)
		b.WriteString("\n\n")
	}
	b.WriteString("## Your New LinkedIn Post\n\n")
	b.WriteString(p.Post)
	b.WriteString("\n\n")
	if p.Hashtags != "" {
		b.WriteString("## Suggested Hashtags\n\n")
		// A bare leading "#" would start a heading.
		b.WriteString("**#**")
		b.WriteString(p.Hashtags)
		b.WriteString("\n")
	}
	return b.String()
}

// ToHTML converts markdown source into an HTML fragment.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Page renders the preview as a complete HTML document.
func Page(p Preview) ([]byte, error) {
	body, err := ToHTML(p.Markdown())
	if err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}

	title := p.Title
	if title == "" {
		title = "LinkedIn Post"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n",
		html.EscapeString(title))
	buf.WriteString(body)
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}
