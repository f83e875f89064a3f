package tui

import "github.com/Bnei-Baruch/apiurlfix/internal/domain"

type planLoadedMsg struct {
	run domain.RunResult
	err error
}

type applyDoneMsg struct {
	run domain.RunResult
	err error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}
