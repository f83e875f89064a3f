package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
)

type palette struct {
	ok    lipgloss.Style
	skip  lipgloss.Style
	warn  lipgloss.Style
	bad   lipgloss.Style
	faint lipgloss.Style
	add   lipgloss.Style
	del   lipgloss.Style
}

func newPalette(w io.Writer) palette {
	base := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	if !isTerminal(w) || os.Getenv("NO_COLOR") != "" {
		return palette{ok: base, skip: base, warn: base, bad: base, faint: base, add: base, del: base}
	}
	return palette{
		ok:    base.Foreground(lipgloss.Color("42")),
		skip:  base.Faint(true),
		warn:  base.Foreground(lipgloss.Color("214")),
		bad:   base.Foreground(lipgloss.Color("196")),
		faint: base.Faint(true),
		add:   base.Foreground(lipgloss.Color("42")),
		del:   base.Foreground(lipgloss.Color("196")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// statusLine is the one-line report printed for every target file.
func statusLine(p palette, r domain.FileResult) string {
	switch r.Status {
	case domain.FileUpdated:
		return p.ok.Render("✅ Updated: " + r.Path)
	case domain.FilePending:
		return p.warn.Render("🔎 Would update: " + r.Path)
	case domain.FileUnchanged:
		return p.skip.Render("⏭️  No changes needed: " + r.Path)
	case domain.FileNotFound:
		return p.bad.Render("❌ File not found: " + r.Path)
	case domain.FileFailed:
		return p.bad.Render(fmt.Sprintf("💥 Failed: %s (%s)", r.Path, r.Error))
	default:
		return fmt.Sprintf("? %s: %s", r.Status, r.Path)
	}
}

// residualLine flags base URLs left in a shape no rule rewrites; empty when none.
func residualLine(p palette, r domain.FileResult) string {
	if r.Residual == 0 {
		return ""
	}
	return p.warn.Render(fmt.Sprintf("   ⚠️  %d hardcoded URL(s) left that need a manual edit", r.Residual))
}

func fileDetail(p palette, r domain.FileResult) []string {
	var lines []string
	for _, h := range r.Hits {
		lines = append(lines, p.faint.Render(fmt.Sprintf("   %s × %d", h.Rule, h.Count)))
	}
	if r.ImportAdded {
		lines = append(lines, p.faint.Render("   import added"))
	}
	return lines
}

func renderDiff(p palette, diff string) string {
	if diff == "" {
		return ""
	}
	lines := strings.SplitAfter(diff, "\n")
	for i, l := range lines {
		body := strings.TrimSuffix(l, "\n")
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
		case strings.HasPrefix(body, "+"):
			lines[i] = p.add.Render(body) + l[len(body):]
		case strings.HasPrefix(body, "-"):
			lines[i] = p.del.Render(body) + l[len(body):]
		}
	}
	return strings.Join(lines, "")
}

// fileLineWriter prints status lines as files are processed.
func fileLineWriter(w io.Writer, p palette, verbose bool, withDiff bool) func(domain.FileResult) {
	return func(r domain.FileResult) {
		fmt.Fprintln(w, statusLine(p, r))
		if l := residualLine(p, r); l != "" {
			fmt.Fprintln(w, l)
		}
		if verbose {
			for _, l := range fileDetail(p, r) {
				fmt.Fprintln(w, l)
			}
		}
		if withDiff && r.Diff != "" {
			fmt.Fprint(w, renderDiff(p, r.Diff))
		}
	}
}

func printSummary(w io.Writer, run domain.RunResult) {
	total := run.EndedAt.Sub(run.StartedAt)
	if run.StartedAt.IsZero() || run.EndedAt.IsZero() {
		total = 0
	}

	fmt.Fprintln(w)
	if run.DryRun {
		fmt.Fprintf(w, "Dry run:    %d to update, %d unchanged, %d not found\n",
			run.Count(domain.FilePending), run.Count(domain.FileUnchanged), run.Count(domain.FileNotFound))
	} else {
		fmt.Fprintf(w, "Summary:    %d updated, %d unchanged, %d not found",
			run.Count(domain.FileUpdated), run.Count(domain.FileUnchanged), run.Count(domain.FileNotFound))
		if n := run.Count(domain.FileFailed); n > 0 {
			fmt.Fprintf(w, ", %d failed", n)
		}
		fmt.Fprintln(w)
	}
	if n := run.ResidualFiles(); n > 0 {
		fmt.Fprintf(w, "Manual:     %d file(s) still hold hardcoded URLs\n", n)
	}
	fmt.Fprintf(w, "Duration:   %s\n", total.Round(time.Millisecond))
	if run.ID != "" {
		fmt.Fprintf(w, "Run ID:     %s\n", run.ID)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func checkFormat(format string) error {
	switch format {
	case "pretty", "json", "":
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}
