package render

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.+?)\*`)
	codeRe   = regexp.MustCompile("`(.+?)`")

	subHeaderRe = regexp.MustCompile(`^(#{3,6})\s+(.+)$`)
	hruleRe     = regexp.MustCompile(`^(-{3,}|\*{3,})$`)
	bulletRe    = regexp.MustCompile(`^\s*[-*]\s+`)
	orderedRe   = regexp.MustCompile(`^\s*\d+\.\s+`)
	tableSepRe  = regexp.MustCompile(`^:?-+:?$`)
	pctRe       = regexp.MustCompile(`^([\d.]+)\s*%$`)
)

// inline escapes text and converts **bold**, *italic* and `code` spans.
func inline(text string) string {
	s := html.EscapeString(text)
	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicRe.ReplaceAllString(s, "<em>$1</em>")
	s = codeRe.ReplaceAllString(s, "<code>$1</code>")
	return s
}

// stripEmphasis removes markdown emphasis markers for value inspection.
func stripEmphasis(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "*", ""))
}

// table is a parsed markdown table: ordered headers plus body rows of cells
// aligned to those headers.
type table struct {
	headers []string
	rows    [][]string
}

func splitCells(line string) []string {
	trimmed := strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(trimmed, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseTable parses consecutive pipe-prefixed lines. Returns nil when the
// second line is not a valid separator row.
func parseTable(lines []string) *table {
	if len(lines) < 2 {
		return nil
	}
	headers := splitCells(lines[0])
	for _, c := range splitCells(lines[1]) {
		if !tableSepRe.MatchString(c) {
			return nil
		}
	}

	t := &table{headers: headers}
	for _, line := range lines[2:] {
		cells := splitCells(line)
		row := make([]string, len(headers))
		for j := range headers {
			if j < len(cells) {
				row[j] = cells[j]
			}
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// cellClass picks a status CSS class for a table cell, matching state words
// first and percentage thresholds second.
func cellClass(val string) string {
	clean := strings.ToLower(stripEmphasis(val))
	switch clean {
	case "running", "active", "completed", "above":
		return "status-ok"
	case "down", "fault", "stopped", "unplanned", "below":
		return "status-bad"
	case "idle", "unknown", "cleaning", "planned downtime":
		return "status-warn"
	}
	if m := pctRe.FindStringSubmatch(stripEmphasis(val)); m != nil {
		pct, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			if pct < 80 {
				return "status-bad"
			}
			if pct < 90 {
				return "status-warn"
			}
		}
	}
	return ""
}

func renderTable(t *table, b *strings.Builder) {
	b.WriteString("<table>\n<thead><tr>")
	for _, h := range t.headers {
		fmt.Fprintf(b, "<th>%s</th>", inline(h))
	}
	b.WriteString("</tr></thead>\n<tbody>\n")
	for _, row := range t.rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			if class := cellClass(cell); class != "" {
				fmt.Fprintf(b, `<td class=%q>%s</td>`, class, inline(cell))
			} else {
				fmt.Fprintf(b, "<td>%s</td>", inline(cell))
			}
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody></table>")
}

// blocks converts section body markdown (paragraphs, lists, tables,
// blockquotes, sub-headers) to HTML.
func blocks(text string) string {
	lines := strings.Split(text, "\n")
	var b strings.Builder
	i := 0

	flush := func() {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
	}

	for i < len(lines) {
		stripped := strings.TrimSpace(lines[i])

		switch {
		case stripped == "":
			i++

		case subHeaderRe.MatchString(stripped):
			m := subHeaderRe.FindStringSubmatch(stripped)
			level := len(m[1])
			flush()
			fmt.Fprintf(&b, "<h%d>%s</h%d>", level, inline(m[2]), level)
			i++

		case hruleRe.MatchString(stripped):
			i++

		case strings.HasPrefix(stripped, "|"):
			var tl []string
			for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "|") {
				tl = append(tl, lines[i])
				i++
			}
			if t := parseTable(tl); t != nil {
				flush()
				renderTable(t, &b)
			}

		case bulletRe.MatchString(stripped):
			flush()
			b.WriteString("<ul>\n")
			for i < len(lines) && bulletRe.MatchString(lines[i]) {
				item := bulletRe.ReplaceAllString(lines[i], "")
				fmt.Fprintf(&b, "<li>%s</li>\n", inline(strings.TrimSpace(item)))
				i++
			}
			b.WriteString("</ul>")

		case orderedRe.MatchString(stripped):
			flush()
			b.WriteString("<ol>\n")
			for i < len(lines) && orderedRe.MatchString(lines[i]) {
				item := orderedRe.ReplaceAllString(lines[i], "")
				fmt.Fprintf(&b, "<li>%s</li>\n", inline(strings.TrimSpace(item)))
				i++
			}
			b.WriteString("</ol>")

		case strings.HasPrefix(stripped, ">"):
			var parts []string
			for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), ">") {
				parts = append(parts, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[i]), ">")))
				i++
			}
			flush()
			fmt.Fprintf(&b, "<blockquote>%s</blockquote>", inline(strings.Join(parts, " ")))

		default:
			var para []string
			for i < len(lines) {
				l := strings.TrimSpace(lines[i])
				if l == "" || strings.HasPrefix(l, "#") || strings.HasPrefix(l, "|") ||
					bulletRe.MatchString(l) || orderedRe.MatchString(l) || strings.HasPrefix(l, ">") {
					break
				}
				para = append(para, l)
				i++
			}
			if len(para) > 0 {
				flush()
				fmt.Fprintf(&b, "<p>%s</p>", inline(strings.Join(para, " ")))
			}
		}
	}
	return b.String()
}
