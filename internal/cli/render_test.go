package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Metric", "Annual"},
		Rows: [][]string{
			{"Baseline", "$198,000.00"},
			{SeparatorRow},
			{"Projected", "$237,600.00"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	w := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != w {
			t.Fatalf("line %d width %d, want %d:\n%s", i, lipgloss.Width(l), w, out)
		}
	}
	if !strings.Contains(out, "Projected") {
		t.Fatal("missing row label")
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Fatalf("RenderTable(empty) = %q, want empty", got)
	}
}

func TestRenderSignedBar_Width(t *testing.T) {
	for _, v := range []float64{-50, 0, 25, 100, 500} {
		bar := RenderSignedBar(v, 100, 10)
		if got := lipgloss.Width(bar); got != 21 {
			t.Fatalf("RenderSignedBar(%v) width = %d, want 21", v, got)
		}
	}
}

func TestRenderSavings_UsesLossLabel(t *testing.T) {
	if got := RenderSavings("Annual", -39600); !strings.Contains(got, "Annual Loss: ($39,600.00)") {
		t.Fatalf("RenderSavings = %q", got)
	}
	if got := RenderSavings("Monthly", 1500); !strings.Contains(got, "Monthly Savings: $1,500.00") {
		t.Fatalf("RenderSavings = %q", got)
	}
}
