package main

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRenderTableAlignsNumericColumnsRight(t *testing.T) {
	out := renderTable(
		[]tableColumn{col("Name"), numericCol("Count")},
		[][]string{{"alpha", "7"}, {"beta", "1024"}},
	)

	requireContains(t, out, "Name")
	requireContains(t, out, "Count")
	requireContains(t, out, "alpha")

	// Right alignment pads the short value out to the wide one.
	requireContains(t, out, "  7 ")
	requireContains(t, out, " 1024 ")
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]tableColumn{col("A"), col("B"), col("C")},
		[][]string{{"only"}},
	)

	requireContains(t, out, "only")
	lines := strings.Split(out, "\n")
	width := utf8.RuneCountInString(lines[0])
	for _, line := range lines[1:] {
		if utf8.RuneCountInString(line) != width {
			t.Fatalf("ragged table row %q, want width %d", line, width)
		}
	}
}

func TestRenderTableEmptyColumns(t *testing.T) {
	if out := renderTable(nil, [][]string{{"x"}}); out != "" {
		t.Fatalf("expected empty render, got %q", out)
	}
}
