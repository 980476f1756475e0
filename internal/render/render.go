// Package render converts shift-report markdown into a styled standalone
// HTML page. The input format is the numbered-section handoff report:
// a title line, bold metadata fields and "## N. Title" sections containing
// tables, lists and prose.
package render

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"
)

var (
	sectionRe     = regexp.MustCompile(`(?m)^##\s+(\d+)\.\s+(.+)$`)
	titleRe       = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	shiftRe       = regexp.MustCompile(`\*\*Shift\*\*:\s*(.+)`)
	dateRe        = regexp.MustCompile(`\*\*Date\*\*:\s*(.+)`)
	siteRe        = regexp.MustCompile(`\*\*Site\*\*:\s*(.+)`)
	siteInTitleRe = regexp.MustCompile(`(?i)(Site\s*\d+)`)
)

// anchor IDs for the conventional numbered sections.
var sectionIDs = map[string]string{
	"1": "executive-summary",
	"2": "safety",
	"3": "production",
	"4": "oee",
	"5": "quality",
	"6": "equipment",
	"7": "work-orders",
	"8": "upcoming",
	"9": "notes",
}

// Section is one "## N. Title" block of the report.
type Section struct {
	Num     string
	Title   string
	ID      string
	Content string
}

// Metadata is what the preamble declares about the report.
type Metadata struct {
	Title string
	Site  string
	Shift string
	Date  string
}

// Report is a parsed shift report.
type Report struct {
	Metadata Metadata
	Preamble string
	Sections []Section
}

// Parse splits shift-report markdown into metadata, preamble and sections.
func Parse(md string) *Report {
	rep := &Report{}

	if m := titleRe.FindStringSubmatch(md); m != nil {
		rep.Metadata.Title = strings.TrimSpace(m[1])
		if sm := siteInTitleRe.FindStringSubmatch(m[1]); sm != nil {
			rep.Metadata.Site = sm[1]
		}
	}
	if m := shiftRe.FindStringSubmatch(md); m != nil {
		rep.Metadata.Shift = strings.TrimSpace(m[1])
	}
	if m := dateRe.FindStringSubmatch(md); m != nil {
		rep.Metadata.Date = strings.TrimSpace(m[1])
	}
	if m := siteRe.FindStringSubmatch(md); m != nil {
		rep.Metadata.Site = strings.TrimSpace(m[1])
	}

	matches := sectionRe.FindAllStringSubmatchIndex(md, -1)
	if len(matches) == 0 {
		rep.Preamble = strings.TrimSpace(md)
		return rep
	}
	rep.Preamble = strings.TrimSpace(md[:matches[0][0]])

	for i, m := range matches {
		num := md[m[2]:m[3]]
		end := len(md)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		id, ok := sectionIDs[num]
		if !ok {
			id = "section-" + num
		}
		rep.Sections = append(rep.Sections, Section{
			Num:     num,
			Title:   strings.TrimSpace(md[m[4]:m[5]]),
			ID:      id,
			Content: strings.TrimSpace(md[m[1]:end]),
		})
	}
	return rep
}

type pageData struct {
	Title     string
	Site      string
	Shift     string
	Date      string
	Timestamp string
	TOC       template.HTML
	Body      template.HTML
}

// HTML renders the parsed report as a complete standalone page. now is the
// generation timestamp shown in the header and footer.
func HTML(rep *Report, now time.Time) (string, error) {
	var body strings.Builder
	for _, s := range rep.Sections {
		card := "section-card"
		switch s.Num {
		case "2":
			if strings.Contains(strings.ToLower(s.Content), "no safety incident") {
				card += " safety-clear"
			} else {
				card += " safety-alert"
			}
		case "5":
			lc := strings.ToLower(s.Content)
			if strings.Contains(lc, "zero defect") || strings.Contains(lc, "no quality flag") ||
				strings.Contains(lc, "no actionable quality") {
				card += " quality-clear"
			} else {
				card += " quality-alert"
			}
		}
		fmt.Fprintf(&body, "<div class=%q id=%q>\n<h2>%s. %s</h2>\n%s\n</div>\n",
			card, s.ID, inline(s.Num), inline(s.Title), blocks(s.Content))
	}

	var toc strings.Builder
	if len(rep.Sections) > 0 {
		toc.WriteString(`<nav class="nav-toc">`)
		for _, s := range rep.Sections {
			fmt.Fprintf(&toc, `<a href="#%s">%s</a>`, s.ID, inline(s.Title))
		}
		toc.WriteString(`</nav>`)
	}

	title := rep.Metadata.Title
	if title == "" {
		title = "Shift Handoff Report"
	}
	data := pageData{
		Title:     title,
		Site:      rep.Metadata.Site,
		Shift:     rep.Metadata.Shift,
		Date:      rep.Metadata.Date,
		Timestamp: now.UTC().Format("2006-01-02 15:04 UTC"),
		TOC:       template.HTML(toc.String()),
		Body:      template.HTML(body.String()),
	}

	var out strings.Builder
	if err := page.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render: execute template: %w", err)
	}
	return out.String(), nil
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  :root {
    --bg: #1b1b1f; --card-bg: #272727; --card-bg-alt: #2d2d30;
    --text: #d4d4d4; --text-light: #9a9a9a; --text-dark: #ffffff;
    --border: #3b3b3f; --border-light: #333336;
    --accent: #0bb6ff; --accent-dim: rgba(11,182,255,0.15);
    --ok: #0db14b; --ok-bg: rgba(13,177,75,0.12);
    --warn: #fcb711; --warn-bg: rgba(252,183,17,0.12);
    --bad: #ff337f; --bad-bg: rgba(255,51,127,0.12);
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: "Segoe UI Variable", "Segoe UI", sans-serif;
    background: var(--bg); color: var(--text); line-height: 1.65;
  }
  .report-header {
    background: #1e1e1e; border-bottom: 1px solid var(--border);
    padding: 2rem;
  }
  .report-header h1 { font-size: 1.5rem; font-weight: 600; color: var(--text-dark); }
  .report-header .meta {
    font-size: 0.8rem; color: var(--text-light);
    display: flex; gap: 1.5rem; flex-wrap: wrap; margin-top: 0.35rem;
  }
  .container { max-width: 960px; margin: 0 auto; padding: 2rem 1.5rem 3rem; }
  .nav-toc {
    display: flex; flex-wrap: wrap; gap: 8px; margin-bottom: 2rem;
    padding: 14px 16px; background: var(--card-bg);
    border-radius: 6px; border: 1px solid var(--border);
  }
  .nav-toc a {
    font-size: 11px; color: var(--text-light); text-decoration: none;
    padding: 5px 12px; border-radius: 4px; background: var(--card-bg-alt);
    border: 1px solid var(--border-light); white-space: nowrap;
  }
  .nav-toc a:hover { background: var(--accent-dim); color: var(--accent); }
  .section-card {
    background: var(--card-bg); border: 1px solid var(--border);
    border-radius: 6px; padding: 24px; margin-bottom: 1.5rem;
  }
  .section-card h2 {
    font-size: 1.05rem; font-weight: 600; color: var(--text-dark);
    margin-bottom: 1rem; padding-bottom: 0.5rem;
    border-bottom: 2px solid var(--accent);
  }
  .section-card h3 { font-size: 0.9rem; color: var(--accent); margin: 1.25rem 0 0.75rem; }
  .section-card p { margin: 0.5rem 0; font-size: 13px; }
  .section-card ul, .section-card ol { margin: 0.5rem 0 0.5rem 1.5rem; font-size: 13px; }
  .section-card li { margin: 0.4rem 0; }
  .safety-clear { background: var(--ok-bg); }
  .safety-clear h2 { border-color: var(--ok); }
  .safety-alert { background: var(--bad-bg); }
  .safety-alert h2 { border-color: var(--bad); }
  .quality-clear { border-left: 3px solid var(--ok); }
  .quality-alert { border-left: 3px solid var(--bad); }
  table {
    width: 100%; border-collapse: collapse; margin: 1rem 0;
    font-size: 0.8rem; background: var(--card-bg-alt);
    border: 1px solid var(--border);
  }
  th {
    padding: 0.6rem 0.75rem; text-align: left; font-size: 0.7rem;
    text-transform: uppercase; letter-spacing: 0.04em;
    color: var(--text-light); background: #1e1e1e;
    border-bottom: 1px solid var(--border);
  }
  td { padding: 0.5rem 0.75rem; border-bottom: 1px solid var(--border-light); }
  tbody tr:nth-child(even) { background: var(--card-bg); }
  .status-ok { color: var(--ok); font-weight: 500; }
  .status-warn { color: var(--warn); font-weight: 500; }
  .status-bad { color: var(--bad); font-weight: 500; background: var(--bad-bg); }
  code {
    background: var(--card-bg-alt); border: 1px solid var(--border-light);
    padding: 0.15rem 0.35rem; border-radius: 3px; font-size: 0.85em;
    font-family: Consolas, monospace;
  }
  blockquote {
    border-left: 3px solid var(--accent); padding: 0.5rem 1rem;
    margin: 1rem 0; color: var(--text-light); font-size: 12px;
    background: var(--card-bg-alt);
  }
  .footer {
    text-align: center; color: var(--text-light); font-size: 0.7rem;
    margin-top: 3rem; padding-top: 1rem; border-top: 1px solid var(--border);
  }
  @media print {
    .nav-toc { display: none; }
    .section-card, table { page-break-inside: avoid; }
  }
</style>
</head>
<body>
<div class="report-header">
  <div class="container" style="padding:0">
    <h1>{{.Title}}</h1>
    <div class="meta">
      {{if .Site}}<span>{{.Site}}</span>{{end}}
      {{if .Shift}}<span>{{.Shift}}</span>{{end}}
      {{if .Date}}<span>{{.Date}}</span>{{end}}
      <span>Generated {{.Timestamp}}</span>
    </div>
  </div>
</div>
<div class="container">
{{.TOC}}
{{.Body}}
  <div class="footer">Generated by tagspc &bull; {{.Timestamp}}</div>
</div>
</body>
</html>
`))
