package web

import (
	"html/template"

	"github.com/mkuhn/scribble/util"
	"gitlab.com/golang-commonmark/markdown"
)

var markdownParser = markdown.New(markdown.HTML(true), markdown.Linkify(true), markdown.Typographer(true), markdown.MaxNesting(10))

// renderMarkdown translates a post body from CommonMark to HTML.
// Only admins write post bodies, so inline HTML is allowed.
func renderMarkdown(body string) template.HTML {
	return template.HTML(markdownParser.RenderToString([]byte(body)))
}

// excerpt strips the rendered body down to a teaser for list pages.
func excerpt(body string) string {
	return util.Excerpt(string(renderMarkdown(body)), 280)
}
