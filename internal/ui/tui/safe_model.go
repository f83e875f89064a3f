package tui

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	msgPanic        = "Unexpected error (see logs)"
	msgPanicApplied = "Unexpected error while applying; files may be partly rewritten, press r to re-plan"
)

// safeModel keeps a panic in the plan/apply screens from tearing down the
// terminal. The model is returned to the plan screen with the error shown.
type safeModel struct {
	m   model
	log *slog.Logger
}

func wrapSafe(m model, log *slog.Logger) safeModel {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return safeModel{m: m, log: log}
}

func (s safeModel) Init() tea.Cmd {
	return s.m.Init()
}

func (s safeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	applying := s.m.running && s.m.loaded && s.m.run.DryRun
	defer func() {
		if r := recover(); r != nil {
			s.report("tui.update", r, "msg", fmt.Sprintf("%T", msg), "applying", applying)
			s.m.scr = screenPlan
			s.m.running = false
			s.m.toast = ""
			s.m.errMsg = msgPanic
			if applying {
				s.m.errMsg = msgPanicApplied
			}
			tm, cmd = s, nil
		}
	}()

	inner, c := s.m.Update(msg)
	switch next := inner.(type) {
	case model:
		s.m = next
	case safeModel:
		s = next
	}
	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.report("tui.view", r)
			out = msgPanic
		}
	}()
	return s.m.View()
}

func (s safeModel) report(where string, r any, attrs ...any) {
	args := append([]any{"where", where, "root", s.m.deps.Root, "panic", fmt.Sprint(r)}, attrs...)
	args = append(args, "stack", string(debug.Stack()))
	s.log.Error("panic.recovered", args...)
}

var _ tea.Model = (*safeModel)(nil)
