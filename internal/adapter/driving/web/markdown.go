package web

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy().AllowAttrs("class").OnElements("div", "span")
}

// RenderMarkdown converts a markdown string to sanitized HTML.
// Returns empty string for empty input.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return htmlSanitizer.Sanitize(src)
	}

	return htmlSanitizer.Sanitize(buf.String())
}

// RenderDiffHunk converts a unified diff into HTML with line-level CSS classes.
// Each line is wrapped in a <span> with a class indicating its diff role:
//   - diff-add: added lines (prefix "+")
//   - diff-del: deleted lines (prefix "-")
//   - diff-header: hunk headers (prefix "@@")
//   - diff-ctx: context lines (no special prefix)
func RenderDiffHunk(hunk string) string {
	if hunk == "" {
		return ""
	}

	lines := strings.Split(hunk, "\n")
	var buf strings.Builder
	buf.Grow(len(hunk) * 2)

	for i, line := range lines {
		if i > 0 {
			buf.WriteByte('\n')
		}

		cssClass := classForDiffLine(line)
		escaped := htmlSanitizer.Sanitize(line)

		buf.WriteString(`<span class="`)
		buf.WriteString(cssClass)
		buf.WriteString(`">`)
		buf.WriteString(escaped)
		buf.WriteString(`</span>`)
	}

	return buf.String()
}

func classForDiffLine(line string) string {
	if strings.HasPrefix(line, "@@") {
		return "diff-header"
	}
	if strings.HasPrefix(line, "+") {
		return "diff-add"
	}
	if strings.HasPrefix(line, "-") {
		return "diff-del"
	}
	return "diff-ctx"
}

// RenderInlineDiff renders the document with its changes inline: deleted
// blocks wrapped in diff-deleted divs, added blocks in diff-added divs,
// unchanged blocks as plain rendered markdown. Creations render entirely as
// added, deletions entirely as deleted.
func RenderInlineDiff(baseText, headText string) string {
	if baseText == "" && headText == "" {
		return "<p><em>No content available.</em></p>"
	}
	if baseText == "" {
		return `<div class="diff-added">` + RenderMarkdown(headText) + `</div>`
	}
	if headText == "" {
		return `<div class="diff-deleted">` + RenderMarkdown(baseText) + `</div>`
	}

	baseLines := strings.Split(baseText, "\n")
	headLines := strings.Split(headText, "\n")

	var parts []string
	matcher := difflib.NewMatcher(baseLines, headLines)
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			appendRendered(&parts, headLines[op.J1:op.J2], "")
		case 'd':
			appendRendered(&parts, baseLines[op.I1:op.I2], "diff-deleted")
		case 'i':
			appendRendered(&parts, headLines[op.J1:op.J2], "diff-added")
		case 'r':
			appendRendered(&parts, baseLines[op.I1:op.I2], "diff-deleted")
			appendRendered(&parts, headLines[op.J1:op.J2], "diff-added")
		}
	}

	if len(parts) == 0 {
		return "<p><em>No diff to show.</em></p>"
	}
	return strings.Join(parts, "")
}

// appendRendered renders a chunk of markdown lines and appends it to parts,
// wrapped in a div with the given class when one is set. Whitespace-only
// chunks are dropped.
func appendRendered(parts *[]string, lines []string, cssClass string) {
	chunk := strings.Join(lines, "\n")
	if strings.TrimSpace(chunk) == "" {
		return
	}

	rendered := RenderMarkdown(chunk)
	if cssClass != "" {
		rendered = `<div class="` + cssClass + `">` + rendered + `</div>`
	}
	*parts = append(*parts, rendered)
}
