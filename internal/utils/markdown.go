package utils

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	policy = bluemonday.UGCPolicy()
)

func init() {
	policy.AllowImages()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)
}

// RenderMarkdown converts thread/comment markdown into sanitized HTML.
func RenderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return template.HTML(source) // fallback
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}

// ContainsLinkOrImage reports whether markdown source carries a link or an
// image, which is reputation-gated for new users.
func ContainsLinkOrImage(source string) bool {
	return bytes.Contains([]byte(source), []byte("](")) ||
		bytes.Contains([]byte(source), []byte("http://")) ||
		bytes.Contains([]byte(source), []byte("https://"))
}
