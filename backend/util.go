package backend

import (
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/fightwire/fightwire/util"
	"gitlab.com/golang-commonmark/markdown"
)

var markdownParser = markdown.New(markdown.HTML(false), markdown.Linkify(true), markdown.Typographer(true), markdown.MaxNesting(10))

// RenderBody translates an article body from markdown to HTML.
func RenderBody(body string) template.HTML {
	return template.HTML(markdownParser.RenderToString([]byte(body)))
}

// Excerpt renders the body and extracts a short plain-text preview.
func Excerpt(body string) string {
	return util.ExcerptText(markdownParser.RenderToString([]byte(body)), 160)
}

func FormatTs(ts int64) string {
	if ts == 0 {
		return "-"
	}
	// ignores the user timezone
	return time.Unix(ts, 0).Format("_2.1.2006 15:04:05")
}

// SplitIds parses whitespace- or comma-separated ids, ignoring junk.
func SplitIds(input string) []int {
	var ids = []int{}
	for _, field := range strings.Fields(strings.ReplaceAll(input, ",", " ")) {
		if id, err := strconv.Atoi(field); err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
