// Package text provides string helpers for composing Discord messages.
package text

import (
	"strings"
	"unicode/utf8"
)

const (
	// MessageLimit is the default chunk size used when splitting output.
	// It leaves room for code block fences inside Discord's 2000 character limit.
	MessageLimit = 1990

	// FieldLimit is the maximum length of an embed field value.
	FieldLimit = 1024
)

// SanitiseOptions controls Sanitise.
type SanitiseOptions struct {
	// Limit is the maximum number of characters kept. Zero means 2000.
	Limit int
	// Escape escapes Markdown control characters.
	Escape bool
	// TagEscape inserts a zero width space after every '@' so mentions
	// cannot be triggered.
	TagEscape bool
}

var markdownReplacer = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"~", `\~`,
	"|", `\|`,
	"`", "\\`",
	">", `\>`,
)

// Sanitise escapes Markdown and mentions and truncates to 2000 characters.
func Sanitise(s string) string {
	return SanitiseWith(s, SanitiseOptions{Escape: true, TagEscape: true})
}

// SanitiseWith is Sanitise with explicit options.
func SanitiseWith(s string, opts SanitiseOptions) string {
	limit := opts.Limit
	if limit <= 0 {
		limit = 2000
	}

	if opts.Escape {
		s = markdownReplacer.Replace(s)
	}
	if opts.TagEscape {
		s = strings.ReplaceAll(s, "@", "@\u200b")
	}

	return truncate(s, limit)
}

// Split cuts s into chunks of at most limit characters.
func Split(s string, limit int) []string {
	if limit <= 0 {
		limit = MessageLimit
	}

	runes := []rune(s)
	chunks := make([]string, 0, len(runes)/limit+1)
	for i := 0; i < len(runes); i += limit {
		end := i + limit
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}

	return chunks
}

// SplitLines joins lines into pages. A page is closed once it reaches limit
// characters, so a single line is never cut in half.
func SplitLines(lines []string, limit int) []string {
	if limit <= 0 {
		limit = MessageLimit
	}

	var pages []string
	var page strings.Builder
	for _, line := range lines {
		if utf8.RuneCountInString(page.String()) >= limit {
			pages = append(pages, strings.Trim(page.String(), "\n"))
			page.Reset()
		}
		page.WriteString(line)
		page.WriteString("\n")
	}
	pages = append(pages, strings.Trim(page.String(), "\n"))

	return pages
}

// ANSI escapes used by rich tables.
const (
	ansiHeader = "\u001b[1;34m"
	ansiAccent = "\u001b[36m"
	ansiReset  = "\u001b[0m"
)

// CreateTable renders rows as an aligned plain text table split into pages of
// at most limit characters. When rich is set, pages start with the "ansi"
// code block language and the header and every other row are colored.
func CreateTable(header []string, rows [][]string, limit int, rich bool) []string {
	if limit <= 0 {
		limit = MessageLimit
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = utf8.RuneCountInString(h)
	}

	matrix := make([][]string, 0, len(rows)+1)
	matrix = append(matrix, header)
	for _, row := range rows {
		line := make([]string, len(header))
		for i := range header {
			if i < len(row) {
				line[i] = row[i]
			}
			if w := utf8.RuneCountInString(line[i]); w > widths[i] {
				widths[i] = w
			}
		}
		matrix = append(matrix, line)
	}

	var prefix, head, accent, reset string
	if rich {
		prefix, head, accent, reset = "ansi\n", ansiHeader, ansiAccent, ansiReset
	}

	var pages []string
	page := prefix
	for i, cells := range matrix {
		var line strings.Builder
		switch {
		case i == 0:
			line.WriteString(head)
		case i%2 == 0:
			line.WriteString(accent)
		}

		for col, width := range widths {
			line.WriteString(padRight(cells[col], width+2))
		}

		l := strings.TrimRight(line.String(), " ")
		if i%2 == 0 {
			l += reset
		}
		l += "\n"

		if utf8.RuneCountInString(page)+utf8.RuneCountInString(l) > limit {
			pages = append(pages, page)
			page = prefix
		}
		page += l
	}
	pages = append(pages, page)

	return pages
}

// Shorten truncates text to maxLen characters and closes a code block left
// open by the cut.
func Shorten(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = FieldLimit
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	s = truncate(s, maxLen)
	if strings.Count(s, "```")%2 != 0 {
		s = truncate(s, maxLen-3) + "```"
	}

	return s
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)

	return string(runes[:limit])
}

func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}

	return s + strings.Repeat(" ", width-n)
}
