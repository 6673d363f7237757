package router

import (
	"html"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// SanitizeReply reduces model-produced text to plain prose before it
// enters a SearchResponse message: markdown is rendered, all HTML is
// stripped, entities are unescaped and whitespace collapsed.
func SanitizeReply(text string) string {
	rendered := markdown.ToHTML([]byte(text), nil, nil)
	stripped := stripPolicy.Sanitize(string(rendered))
	unescaped := html.UnescapeString(stripped)
	return strings.Join(strings.Fields(unescaped), " ")
}
