package handler

import (
	"bytes"
	"html"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

const excerptRunes = 100

var (
	// CMS content fields hold Markdown or WYSIWYG HTML; raw HTML passes
	// through goldmark and is cleaned by the sanitizer afterwards.
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps(), goldmarkhtml.WithXHTML(), goldmarkhtml.WithUnsafe()),
	)
	sanitizer    = bluemonday.UGCPolicy()
	textStripper = bluemonday.StrictPolicy()
)

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}

// excerpt returns the first excerptRunes characters of the content's text.
func excerpt(content string) string {
	var buf bytes.Buffer
	source := content
	if err := markdownEngine.Convert([]byte(content), &buf); err == nil {
		source = buf.String()
	}

	plain := html.UnescapeString(textStripper.Sanitize(source))
	plain = strings.Join(strings.Fields(plain), " ")

	if utf8.RuneCountInString(plain) <= excerptRunes {
		return plain
	}
	runes := []rune(plain)
	return strings.TrimSpace(string(runes[:excerptRunes])) + "..."
}
