package domain

import "testing"

func TestRunResultCount(t *testing.T) {
	run := RunResult{Files: []FileResult{
		{Path: "a", Status: FileUpdated},
		{Path: "b", Status: FileNotFound},
		{Path: "c", Status: FileUpdated},
		{Path: "d", Status: FileUnchanged},
	}}

	if got := run.Count(FileUpdated); got != 2 {
		t.Fatalf("expected 2 updated, got %d", got)
	}
	if got := run.Count(FileNotFound); got != 1 {
		t.Fatalf("expected 1 not found, got %d", got)
	}
	if got := run.Count(FilePending); got != 0 {
		t.Fatalf("expected 0 pending, got %d", got)
	}
}

func TestFileResultReplacements(t *testing.T) {
	r := FileResult{Hits: []RuleHit{{Rule: "single-quoted", Count: 3}, {Rule: "template-static", Count: 2}}}
	if got := r.Replacements(); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := (FileResult{}).Replacements(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Rewrite.Helper != "getApiUrl" {
		t.Fatalf("unexpected helper %q", cfg.Rewrite.Helper)
	}
	if cfg.Import.Module != "@/lib/api" {
		t.Fatalf("unexpected import module %q", cfg.Import.Module)
	}
	if len(cfg.Targets) != 7 {
		t.Fatalf("expected 7 default targets, got %d", len(cfg.Targets))
	}

	// Callers may mutate the slice; defaults must not be shared.
	cfg.Targets[0] = "changed"
	if DefaultConfig().Targets[0] == "changed" {
		t.Fatalf("default targets shared between calls")
	}
}
