package utils

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Comments are written in GFM. Raw HTML in the source is dropped by goldmark
// and whatever survives is filtered again by the UGC policy.
var (
	commentMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	commentPolicy = newCommentPolicy()
)

func newCommentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowImages()
	p.RequireNoReferrerOnLinks(true)
	return p
}

// RenderMarkdown renders reader-supplied markdown into sanitized HTML.
func RenderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := commentMarkdown.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(commentPolicy.SanitizeBytes(buf.Bytes()))
}
