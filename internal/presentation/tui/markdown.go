package tui

import (
	"strings"
)

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>")

// Markdown formats a rendered grid as a GitHub-flavored markdown table,
// preceded by a level-two heading when title is set.
func Markdown(title string, headers []string, rows [][]string) string {
	var b strings.Builder
	if title != "" {
		b.WriteString("## ")
		b.WriteString(title)
		b.WriteString("\n\n")
	}

	if len(headers) == 0 {
		b.WriteString("_No visible columns._\n")
		return b.String()
	}

	head := make([]string, len(headers))
	for i, h := range headers {
		head[i] = cellEscaper.Replace(h)
	}
	writeRow(&b, head)

	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(&b, sep)

	for _, row := range rows {
		cells := make([]string, len(headers))
		for i := range cells {
			if i < len(row) {
				cells[i] = cellEscaper.Replace(row[i])
			}
		}
		writeRow(&b, cells)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(c)
		b.WriteString(" |")
	}
	b.WriteString("\n")
}
