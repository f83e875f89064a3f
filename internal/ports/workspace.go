package ports

import "github.com/Bnei-Baruch/apiurlfix/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
