package textdiff

import (
	"strings"
	"testing"
)

func TestUnified_Equal(t *testing.T) {
	if got := Unified("a.tsx", "x\n", "x\n"); got != "" {
		t.Fatalf("expected empty diff, got %q", got)
	}
}

func TestUnified_ShowsChange(t *testing.T) {
	before := "'use client'\n\nfetch('http://10.66.1.76:8080/api/parts')\n"
	after := "'use client'\n\nfetch(getApiUrl('/parts'))\n"

	got := Unified("frontend/components/PartForm.tsx", before, after)

	for _, want := range []string{
		"--- a/frontend/components/PartForm.tsx",
		"+++ b/frontend/components/PartForm.tsx",
		"-fetch('http://10.66.1.76:8080/api/parts')",
		"+fetch(getApiUrl('/parts'))",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in diff:\n%s", want, got)
		}
	}
}
