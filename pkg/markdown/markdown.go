// Package markdown renders assistant replies for the chat page.
package markdown

import (
	"html/template"

	"github.com/russross/blackfriday"
)

const (
	htmlFlags = blackfriday.HTML_USE_XHTML |
		blackfriday.HTML_SKIP_HTML |
		blackfriday.HTML_SAFELINK |
		blackfriday.HTML_HREF_TARGET_BLANK |
		blackfriday.HTML_NOFOLLOW_LINKS

	extensions = blackfriday.EXTENSION_NO_INTRA_EMPHASIS |
		blackfriday.EXTENSION_TABLES |
		blackfriday.EXTENSION_FENCED_CODE |
		blackfriday.EXTENSION_AUTOLINK |
		blackfriday.EXTENSION_STRIKETHROUGH |
		blackfriday.EXTENSION_HARD_LINE_BREAK
)

// ToHTML renders text as markdown. Raw HTML in the input is dropped, so the
// result is safe to embed in the page.
func ToHTML(text string) template.HTML {
	renderer := blackfriday.HtmlRenderer(htmlFlags, "", "")
	return template.HTML(blackfriday.Markdown([]byte(text), renderer, extensions))
}
