package render

import (
	"html"
	"html/template"
	"strings"
)

// ReportHTML turns the analyzer's markdown-ish text into safe HTML for the
// review page: the text is escaped, **bold** pairs become <strong> elements
// and line breaks become <br/>. An unpaired trailing ** is kept literally.
func ReportHTML(text string) template.HTML {
	escaped := html.EscapeString(text)
	parts := strings.Split(escaped, "**")

	var b strings.Builder
	for i, part := range parts {
		if i == 0 {
			b.WriteString(part)
			continue
		}
		opening := i%2 == 1
		if opening && i == len(parts)-1 {
			// no closing marker follows
			b.WriteString("**")
			b.WriteString(part)
			continue
		}
		if opening {
			b.WriteString("<strong>")
		} else {
			b.WriteString("</strong>")
		}
		b.WriteString(part)
	}

	out := strings.ReplaceAll(b.String(), "\r\n", "\n")
	out = strings.ReplaceAll(out, "\n", "<br/>")
	return template.HTML(out)
}
