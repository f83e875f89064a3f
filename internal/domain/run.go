package domain

import "time"

// FileStatus is the outcome of processing a single target file.
type FileStatus string

const (
	FileUpdated   FileStatus = "updated"
	FileUnchanged FileStatus = "unchanged"
	FileNotFound  FileStatus = "not_found"
	FileFailed    FileStatus = "failed"
	// FilePending marks a file a dry run would rewrite.
	FilePending FileStatus = "pending"
)

// RuleHit counts the replacements one rewrite rule made in a file.
type RuleHit struct {
	Rule  string `json:"rule"`
	Count int    `json:"count"`
}

// FileResult is the outcome of one target file.
type FileResult struct {
	Path        string     `json:"path"`
	Status      FileStatus `json:"status"`
	ImportAdded bool       `json:"import_added,omitempty"`
	Hits        []RuleHit  `json:"hits,omitempty"`
	Diff        string     `json:"diff,omitempty"`
	Error       string     `json:"error,omitempty"`
	// Residual counts base URL occurrences left in a shape no rule rewrites.
	Residual    int        `json:"residual,omitempty"`
}

// Replacements returns the total number of rewritten literals.
func (r FileResult) Replacements() int {
	n := 0
	for _, h := range r.Hits {
		n += h.Count
	}
	return n
}

// RunResult represents the result of one pass over the target files.
type RunResult struct {
	ID        string       `json:"id,omitempty"`
	Root      string       `json:"root"`
	DryRun    bool         `json:"dry_run"`
	StartedAt time.Time    `json:"started_at"`
	EndedAt   time.Time    `json:"ended_at"`
	Files     []FileResult `json:"files"`
}

// Count returns how many files ended with the given status.
func (r RunResult) Count(status FileStatus) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == status {
			n++
		}
	}
	return n
}

// ResidualFiles returns how many files still hold base URLs that need a manual edit.
func (r RunResult) ResidualFiles() int {
	n := 0
	for _, f := range r.Files {
		if f.Residual > 0 {
			n++
		}
	}
	return n
}

// RunArtifact represents a persisted run.
type RunArtifact = RunResult

// RunRef points at a saved run artifact.
type RunRef struct {
	ID        string
	Path      string
	StartedAt time.Time
	DryRun    bool
	Updated   int
}

// WorkspaceSpec describes a workspace to scaffold.
type WorkspaceSpec struct {
	Root string
}
