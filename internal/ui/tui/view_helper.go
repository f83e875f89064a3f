package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func statusIcon(s domain.FileStatus) string {
	switch s {
	case domain.FileUpdated:
		return "✅"
	case domain.FilePending:
		return "✎"
	case domain.FileUnchanged:
		return "·"
	case domain.FileNotFound:
		return "❌"
	case domain.FileFailed:
		return "💥"
	default:
		return "?"
	}
}

func describeFile(r domain.FileResult) string {
	switch r.Status {
	case domain.FileNotFound:
		return "file not found"
	case domain.FileUnchanged:
		if r.Residual > 0 {
			return fmt.Sprintf("⚠ %d hardcoded URL(s) need a manual edit", r.Residual)
		}
		return "no changes needed"
	case domain.FileFailed:
		return "failed: " + r.Error
	}

	parts := make([]string, 0, len(r.Hits)+1)
	for _, h := range r.Hits {
		parts = append(parts, fmt.Sprintf("%s×%d", h.Rule, h.Count))
	}
	if r.ImportAdded {
		parts = append(parts, "+import")
	}
	if r.Residual > 0 {
		parts = append(parts, fmt.Sprintf("⚠ %d left", r.Residual))
	}
	if len(parts) == 0 {
		return string(r.Status)
	}
	return strings.Join(parts, "  ")
}

func renderDiff(t Theme, diff string) string {
	if diff == "" {
		return "(no diff)"
	}
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
			lines[i] = t.Title.Render(l)
		case strings.HasPrefix(l, "@@"):
			lines[i] = t.Hunk.Render(l)
		case strings.HasPrefix(l, "+"):
			lines[i] = t.Added.Render(l)
		case strings.HasPrefix(l, "-"):
			lines[i] = t.Removed.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}

func planSummary(run domain.RunResult) string {
	if run.DryRun {
		return fmt.Sprintf("%d to update • %d unchanged • %d not found",
			run.Count(domain.FilePending), run.Count(domain.FileUnchanged), run.Count(domain.FileNotFound))
	}
	s := fmt.Sprintf("%d updated • %d unchanged • %d not found",
		run.Count(domain.FileUpdated), run.Count(domain.FileUnchanged), run.Count(domain.FileNotFound))
	if n := run.Count(domain.FileFailed); n > 0 {
		s += fmt.Sprintf(" • %d failed", n)
	}
	return s
}

func pendingPaths(run domain.RunResult) []string {
	var out []string
	for _, f := range run.Files {
		if f.Status == domain.FilePending {
			out = append(out, f.Path)
		}
	}
	return out
}
