package workspacefinder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
)

func writeConfig(t *testing.T, root, content string) {
	t.Helper()
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ws")

	// Partial config (no targets/paths)
	writeConfig(t, root, "apiurlfix:\n  rewrite:\n    helper: apiUrl\n  import:\n    require_marker: false\n")

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Rewrite.Helper != "apiUrl" {
		t.Fatalf("expected helper=apiUrl, got=%s", cfg.Rewrite.Helper)
	}
	if cfg.Rewrite.BaseURL != "http://10.66.1.76:8080/api" {
		t.Fatalf("expected default base url, got=%s", cfg.Rewrite.BaseURL)
	}
	if cfg.Import.RequireMarker {
		t.Fatalf("expected require_marker=false")
	}
	if cfg.Import.Marker != "'use client'" {
		t.Fatalf("expected default marker, got=%s", cfg.Import.Marker)
	}
	if len(cfg.Targets) != len(domain.DefaultTargets()) {
		t.Fatalf("expected default targets, got=%v", cfg.Targets)
	}
	if cfg.Paths.RunsDir != ".apiurlfix/runs" {
		t.Fatalf("expected default runs dir, got=%s", cfg.Paths.RunsDir)
	}
	if cfg.Import.Statement != domain.DefaultImportStatement {
		t.Fatalf("expected default statement, got=%s", cfg.Import.Statement)
	}
}

func TestLoadConfig_ImportStatement(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "apiurlfix:\n  import:\n    statement: \"import { {{helper}} } from '{{module}}';\"\n")

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Import.Statement != "import { {{helper}} } from '{{module}}';" {
		t.Fatalf("unexpected statement %q", cfg.Import.Statement)
	}
}

func TestLoadConfig_Targets(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "apiurlfix:\n  targets:\n    - src/a.tsx\n    - 'src/**.tsx'\n")

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if len(cfg.Targets) != 2 || cfg.Targets[1] != "src/**.tsx" {
		t.Fatalf("unexpected targets %v", cfg.Targets)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "apiurlfix:\n  rewrite:\n    base_url: http://old/api\n")

	t.Setenv("APIURLFIX_BASE_URL", "http://10.0.0.1:9000/api")
	t.Setenv("APIURLFIX_TARGETS", "a.tsx,b.tsx")

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Rewrite.BaseURL != "http://10.0.0.1:9000/api" {
		t.Fatalf("expected env base url, got=%s", cfg.Rewrite.BaseURL)
	}
	if len(cfg.Targets) != 2 || cfg.Targets[0] != "a.tsx" {
		t.Fatalf("expected env targets, got=%v", cfg.Targets)
	}
}

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
	if cfg.Rewrite.Helper != "getApiUrl" {
		t.Fatalf("expected defaults alongside error, got=%+v", cfg.Rewrite)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "apiurlfix: [unclosed\n")

	_, err := LoadConfig(root)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}

func TestLoadConfig_InvalidFormat(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "apiurlfix:\n  defaults:\n    format: xml\n")

	_, err := LoadConfig(root)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}
