package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/new-divos/pkbassist/internal/meta"
	"github.com/new-divos/pkbassist/internal/pipeline"
)

// AddBanner sets the banner of every note of the given type to fileName.
// When tags are given a note qualifies only if it carries all of them.
func (v *Vault) AddBanner(ctx context.Context, fileName, noteType string, tags []string) error {
	root, err := v.cfg.CheckRoot()
	if err != nil {
		return err
	}

	return pipeline.Run(ctx, root, pipeline.MatchExt("md"), func(ctx context.Context, path string) error {
		content, err := readNote(path)
		if err != nil {
			return err
		}
		m, err := meta.Parse(content)
		if err != nil {
			return nil
		}
		if t, ok := m.Type(); !ok || t != noteType {
			return nil
		}
		if !hasAllTags(m.Tags(), tags) {
			return nil
		}
		if current, ok := m.Banner(); ok && current == fileName {
			return nil
		}
		if err := m.SetBanner(fileName); err != nil {
			return err
		}
		rewritten, err := m.Embed(content)
		if err != nil {
			return err
		}
		v.log.Debug("setting banner", "path", path, "banner", fileName)
		return writeNote(path, rewritten)
	})
}

// AddCreated stamps every note of the given type that lacks a creation
// timestamp with the modification time of its file. The time of last
// modification is the closest portable stand-in for the creation time.
func (v *Vault) AddCreated(ctx context.Context, noteType string) error {
	root, err := v.cfg.CheckRoot()
	if err != nil {
		return err
	}

	return pipeline.Run(ctx, root, pipeline.MatchExt("md"), func(ctx context.Context, path string) error {
		content, err := readNote(path)
		if err != nil {
			return err
		}
		m, err := meta.Parse(content)
		if err != nil {
			return nil
		}
		if t, ok := m.Type(); !ok || t != noteType {
			return nil
		}
		if m.HasCreated() {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if err := m.SetCreated(info.ModTime()); err != nil {
			return err
		}
		rewritten, err := m.Embed(content)
		if err != nil {
			return err
		}
		v.log.Debug("stamping creation time", "path", path)
		return writeNote(path, rewritten)
	})
}

// AddCalendar appends a calendar table for the given month to the monthly
// note, with each day cell linking to the matching daily note. Weeks start
// on Monday. The monthly note must already exist.
func (v *Vault) AddCalendar(year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("illegal month number %d", month)
	}
	if _, err := v.cfg.CheckRoot(); err != nil {
		return err
	}
	dailyPath, err := v.cfg.DailyPath()
	if err != nil {
		return err
	}

	path := filepath.Join(dailyPath, fmt.Sprintf("%04d-%02d.md", year, month))
	content, err := readNote(path)
	if err != nil {
		return err
	}

	table := renderCalendar(year, time.Month(month))
	if strings.Contains(content, table) {
		return nil
	}

	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	v.log.Debug("appending calendar", "path", path)
	return writeNote(path, content+"\n"+table)
}

// renderCalendar builds a Monday-first markdown table of daily note links
// for one month.
func renderCalendar(year int, month time.Month) string {
	var sb strings.Builder
	sb.WriteString("| Mo | Tu | We | Th | Fr | Sa | Su |\n")
	sb.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")

	day := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// Monday-first column index of the first day.
	column := (int(day.Weekday()) + 6) % 7

	sb.WriteString("|")
	for i := 0; i < column; i++ {
		sb.WriteString(" |")
	}
	for day.Month() == month {
		fmt.Fprintf(&sb, " [[%04d-%02d-%02d\\|%d]] |", year, int(month), day.Day(), day.Day())
		column++
		if column == 7 {
			sb.WriteString("\n")
			day = day.AddDate(0, 0, 1)
			if day.Month() == month {
				sb.WriteString("|")
			}
			column = 0
			continue
		}
		day = day.AddDate(0, 0, 1)
	}
	if column != 0 {
		for i := column; i < 7; i++ {
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func hasAllTags(noteTags, required []string) bool {
	for _, want := range required {
		found := false
		for _, tag := range noteTags {
			if tag == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
