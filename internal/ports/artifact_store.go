package ports

import "github.com/Bnei-Baruch/apiurlfix/internal/domain"

// ArtifactStore persists run artifacts so a migration can be audited afterwards.
type ArtifactStore interface {
	SaveRun(run domain.RunArtifact) (id string, err error)
	ListRuns() ([]domain.RunRef, error)
	LoadRun(id string) (domain.RunArtifact, []byte, error)
}
