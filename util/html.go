package util

import (
	"strings"

	"golang.org/x/net/html"
)

// TextContent extracts the text nodes of an HTML fragment, separated by
// single spaces. Script and style content is skipped.
func TextContent(fragment string) string {

	var sb strings.Builder

	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var skip int

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style":
				skip++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style":
				if skip > 0 {
					skip--
				}
			}
		case html.TextToken:
			if skip == 0 {
				sb.Write(tokenizer.Text())
				sb.WriteByte(' ')
			}
		}
	}
}

// Excerpt strips tags from an HTML fragment and truncates the text,
// appending an ellipsis if something was cut off.
func Excerpt(fragment string, maxRunes int) string {
	var text = TextContent(fragment)
	var short = Trunc(text, maxRunes)
	if len(short) < len(text) {
		short += " …"
	}
	return short
}
