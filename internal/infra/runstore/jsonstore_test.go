package runstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
)

func sampleRun(root string, start time.Time) domain.RunArtifact {
	return domain.RunArtifact{
		Root:      root,
		StartedAt: start,
		EndedAt:   start.Add(2 * time.Second),
		Files: []domain.FileResult{
			{Path: "frontend/app/page.tsx", Status: domain.FileUpdated, Hits: []domain.RuleHit{{Rule: "single-quoted", Count: 2}}},
			{Path: "frontend/components/SourceSearch.tsx", Status: domain.FileNotFound},
		},
	}
}

func TestSaveRun_CreatesJSONFile(t *testing.T) {
	tmp := t.TempDir()

	cfg := domain.DefaultConfig()
	cfg.Paths.RunsDir = "runs"

	store := NewJSONStore(tmp, cfg)

	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	id, err := store.SaveRun(sampleRun("/work/Study Materials", start))
	if err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}
	if id != "20260203T101112Z_study-materials" {
		t.Fatalf("unexpected id %q", id)
	}

	wantFile := filepath.Join(tmp, "runs", id+".json")
	b, err := os.ReadFile(wantFile)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	var decoded struct {
		UUID string `json:"uuid"`
		domain.RunResult
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.UUID == "" {
		t.Fatalf("expected uuid in artifact")
	}
	if decoded.ID != id {
		t.Fatalf("expected id %q in artifact, got %q", id, decoded.ID)
	}
	if len(decoded.Files) != 2 {
		t.Fatalf("expected 2 files, got=%d", len(decoded.Files))
	}
	if decoded.Files[0].Status != domain.FileUpdated {
		t.Fatalf("unexpected status %q", decoded.Files[0].Status)
	}
}

func TestSaveRun_DryRunSlug(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, domain.DefaultConfig())

	run := sampleRun("/work/site", time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC))
	run.DryRun = true

	id, err := store.SaveRun(run)
	if err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}
	if !strings.HasSuffix(id, "_site-dry-run") {
		t.Fatalf("unexpected id %q", id)
	}
	if _, err := os.Stat(filepath.Join(tmp, ".apiurlfix", "runs", id+".json")); err != nil {
		t.Fatalf("expected artifact under default runs dir: %v", err)
	}
}

func TestSaveRun_UsesUniqueFilenameOnCollision(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, domain.DefaultConfig())

	run := sampleRun("/work/site", time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC))

	id1, err := store.SaveRun(run)
	if err != nil {
		t.Fatalf("SaveRun #1 error: %v", err)
	}
	id2, err := store.SaveRun(run)
	if err != nil {
		t.Fatalf("SaveRun #2 error: %v", err)
	}
	if id2 != id1+"_2" {
		t.Fatalf("expected second id %q, got %q", id1+"_2", id2)
	}
}

func TestSaveRun_WritesIndex(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, domain.DefaultConfig(), WithIndex(true))

	if _, err := store.SaveRun(sampleRun("/work/site", time.Time{})); err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(tmp, ".apiurlfix", "runs", "index.jsonl"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if !strings.Contains(string(b), `"updated":1`) {
		t.Fatalf("unexpected index line: %s", b)
	}
}

func TestListAndLoadRuns(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, domain.DefaultConfig())

	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	oldID, err := store.SaveRun(sampleRun("/work/site", older))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	newID, err := store.SaveRun(sampleRun("/work/site", newer))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	refs, err := store.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	if refs[0].ID != newID || refs[1].ID != oldID {
		t.Fatalf("expected newest first, got %q then %q", refs[0].ID, refs[1].ID)
	}
	if refs[0].Updated != 1 {
		t.Fatalf("expected 1 updated file, got %d", refs[0].Updated)
	}

	run, raw, err := store.LoadRun(oldID)
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if !run.StartedAt.Equal(older) {
		t.Fatalf("unexpected start %v", run.StartedAt)
	}
	if len(raw) == 0 {
		t.Fatalf("expected raw json")
	}
}

func TestListRuns_NoDir(t *testing.T) {
	refs, err := NewJSONStore(t.TempDir(), domain.DefaultConfig()).ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("expected no refs, got %d", len(refs))
	}
}

func TestLoadRun_Errors(t *testing.T) {
	store := NewJSONStore(t.TempDir(), domain.DefaultConfig())

	if _, _, err := store.LoadRun("missing"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
	if _, _, err := store.LoadRun("../escape"); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Study Materials": "study-materials",
		"  site  ":        "site",
		"a__b..c":         "a-b-c",
		"":                "",
		"***":             "",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
