package render

import (
	"strings"
	"testing"
	"time"
)

const sampleReport = `# Shift Handoff Report - Site 1

**Shift**: Day (06:00-18:00 UTC)
**Date**: 2026-02-01
**Site**: Site 1

## 1. Executive Summary

Strong shift overall. **Line 1** ran ahead of plan.

## 2. Safety

No safety incidents reported during the shift.

## 3. Production vs. Target

| Line | Actual | Target | Completion % |
|------|--------|--------|--------------|
| Line 1 | 12,457 | 13,000 | 95.8% |
| Line 2 | 8,120 | 11,000 | 73.8% |

## 6. Equipment Status

### Filling Lines

| Line | Filler | Overall |
|------|--------|---------|
| Line 1 | Running | Active |
| Line 2 | Fault | Down |

Notes:

- Line 2 filler faulted at 14:32
- *Maintenance* dispatched

## 9. Notes

> Handoff complete, see ` + "`wo-4821`" + ` for carryover.
`

func TestParse_MetadataAndSections(t *testing.T) {
	rep := Parse(sampleReport)

	if rep.Metadata.Title != "Shift Handoff Report - Site 1" {
		t.Errorf("Title = %q", rep.Metadata.Title)
	}
	if rep.Metadata.Site != "Site 1" {
		t.Errorf("Site = %q", rep.Metadata.Site)
	}
	if rep.Metadata.Shift != "Day (06:00-18:00 UTC)" {
		t.Errorf("Shift = %q", rep.Metadata.Shift)
	}
	if rep.Metadata.Date != "2026-02-01" {
		t.Errorf("Date = %q", rep.Metadata.Date)
	}

	if len(rep.Sections) != 5 {
		t.Fatalf("sections = %d, want 5", len(rep.Sections))
	}
	want := []struct{ num, id string }{
		{"1", "executive-summary"},
		{"2", "safety"},
		{"3", "production"},
		{"6", "equipment"},
		{"9", "notes"},
	}
	for i, w := range want {
		if rep.Sections[i].Num != w.num || rep.Sections[i].ID != w.id {
			t.Errorf("section %d = %s/%s, want %s/%s",
				i, rep.Sections[i].Num, rep.Sections[i].ID, w.num, w.id)
		}
	}
	if !strings.Contains(rep.Sections[2].Content, "| Line 1 | 12,457") {
		t.Errorf("production content lost its table:\n%s", rep.Sections[2].Content)
	}
}

func TestParse_NoSections(t *testing.T) {
	rep := Parse("just some prose\nwith two lines")
	if len(rep.Sections) != 0 {
		t.Errorf("sections = %d, want 0", len(rep.Sections))
	}
	if rep.Preamble != "just some prose\nwith two lines" {
		t.Errorf("Preamble = %q", rep.Preamble)
	}
}

func TestHTML_FullPage(t *testing.T) {
	rep := Parse(sampleReport)
	out, err := HTML(rep, time.Date(2026, 2, 1, 18, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}

	for _, want := range []string{
		"<title>Shift Handoff Report - Site 1</title>",
		"Generated 2026-02-01 18:30 UTC",
		`<a href="#production">`,
		`id="safety"`,
		"safety-clear",
		"<strong>Line 1</strong>",
		`<td class="status-ok">Running</td>`,
		`<td class="status-bad">Down</td>`,
		`<td class="status-bad">73.8%</td>`,
		"<h3>Filling Lines</h3>",
		"<li>Line 2 filler faulted at 14:32</li>",
		"<blockquote>Handoff complete, see <code>wo-4821</code> for carryover.</blockquote>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestHTML_SafetyAlert(t *testing.T) {
	rep := Parse("# Report\n\n## 2. Safety\n\nOne recordable incident at 09:14.\n")
	out, err := HTML(rep, time.Now())
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(out, "safety-alert") {
		t.Error("expected safety-alert card class")
	}
}

func TestHTML_EscapesInput(t *testing.T) {
	rep := Parse("# T\n\n## 9. Notes\n\n<script>alert(1)</script>\n")
	out, err := HTML(rep, time.Now())
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Error("raw HTML leaked into output")
	}
}

func TestCellClass(t *testing.T) {
	cases := []struct {
		val, want string
	}{
		{"Running", "status-ok"},
		{"**Completed**", "status-ok"},
		{"Fault", "status-bad"},
		{"Idle", "status-warn"},
		{"95.8%", ""},
		{"87.9%", "status-warn"},
		{"73.8%", "status-bad"},
		{"12,457", ""},
	}
	for _, c := range cases {
		if got := cellClass(c.val); got != c.want {
			t.Errorf("cellClass(%q) = %q, want %q", c.val, got, c.want)
		}
	}
}
