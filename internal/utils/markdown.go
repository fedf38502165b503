package utils

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	renderPolicy = bluemonday.UGCPolicy()
	inputPolicy  = bluemonday.StrictPolicy()
)

func init() {
	renderPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	renderPolicy.RequireNoReferrerOnLinks(true)
}

// RenderMarkdown converts user-submitted markdown to sanitized HTML for
// detail responses.
func RenderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return inputPolicy.Sanitize(source) // Fallback
	}
	return string(renderPolicy.SanitizeBytes(buf.Bytes()))
}

// SanitizeText strips all markup from user input before it is stored.
// Frustrations and identity lines are plain text.
func SanitizeText(s string) string {
	return inputPolicy.Sanitize(s)
}
