package ui

import (
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	t.Run("empty table renders nothing", func(t *testing.T) {
		if got := NewTable("Unused Files").String(); got != "" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("columns align on the widest cell", func(t *testing.T) {
		tbl := NewTable("Date", "Title")
		tbl.AddRow("2023-04-05", "short")
		tbl.AddRow("2023-04-12", "a much longer title")
		out := tbl.String()

		lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
		if len(lines) != 3 {
			t.Fatalf("got %d lines: %q", len(lines), out)
		}
		if !strings.Contains(lines[1], "2023-04-05  short") {
			t.Errorf("row misaligned: %q", lines[1])
		}
	})

	t.Run("extra cells dropped", func(t *testing.T) {
		tbl := NewTable("One")
		tbl.AddRow("a", "ignored")
		if tbl.Len() != 1 {
			t.Errorf("got %d rows", tbl.Len())
		}
		if strings.Contains(tbl.String(), "ignored") {
			t.Error("extra cell rendered")
		}
	})
}

func TestStatusLines(t *testing.T) {
	if got := Successf("%d notes updated", 3); got != "✓ 3 notes updated" {
		t.Errorf("got %q", got)
	}
	if got := Error("failed"); got != "✗ failed" {
		t.Errorf("got %q", got)
	}
	if got := Warning("careful"); got != "⚠ careful" {
		t.Errorf("got %q", got)
	}
}
