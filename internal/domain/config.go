package domain

// Config represents the apiurlfix configuration loaded from apiurlfix.yaml.
type Config struct {
	Rewrite  RewriteConfig
	Import   ImportConfig
	Targets  []string
	Defaults DefaultsConfig
	Paths    PathsConfig
}

// RewriteConfig describes which hardcoded URL prefix is replaced and by which helper.
type RewriteConfig struct {
	BaseURL string
	Helper  string
}

// ImportConfig controls the import line added to rewritten files.
type ImportConfig struct {
	Module        string
	Marker        string
	RequireMarker bool
	// Statement is the import line; {{helper}} and {{module}} are substituted.
	Statement string
}

// DefaultImportStatement is the import line inserted into rewritten files.
const DefaultImportStatement = "import { {{helper}} } from '{{module}}'"

type DefaultsConfig struct {
	Format string
}

type PathsConfig struct {
	RunsDir string
	LogsDir string
}

// DefaultTargets is the set of frontend files the migration was written for.
func DefaultTargets() []string {
	return []string{
		"frontend/app/page.tsx",
		"frontend/app/events/page.tsx",
		"frontend/app/events/[id]/page.tsx",
		"frontend/app/events/create/page.tsx",
		"frontend/components/StudyMaterialsWidget.tsx",
		"frontend/components/PartForm.tsx",
		"frontend/components/SourceSearch.tsx",
	}
}

// DefaultConfig provides sane defaults if apiurlfix.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Rewrite: RewriteConfig{
			BaseURL: "http://10.66.1.76:8080/api",
			Helper:  "getApiUrl",
		},
		Import: ImportConfig{
			Module:        "@/lib/api",
			Marker:        "'use client'",
			RequireMarker: true,
			Statement:     DefaultImportStatement,
		},
		Targets: DefaultTargets(),
		Defaults: DefaultsConfig{
			Format: "pretty",
		},
		Paths: PathsConfig{
			RunsDir: ".apiurlfix/runs",
			LogsDir: ".apiurlfix/logs",
		},
	}
}
