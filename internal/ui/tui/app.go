package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
)

type screen int

const (
	screenPlan screen = iota
	screenDiff
)

type fileItem struct {
	r domain.FileResult
}

func (f fileItem) Title() string       { return statusIcon(f.r.Status) + " " + f.r.Path }
func (f fileItem) Description() string { return describeFile(f.r) }
func (f fileItem) FilterValue() string { return f.r.Path }

type model struct {
	theme Theme
	deps  Deps

	scr   screen
	files list.Model
	diff  viewport.Model

	run     domain.RunResult
	loaded  bool
	running bool
	applied bool

	configured bool
	toast      string
	errMsg     string
}

func Run(deps Deps) error {
	m := wrapSafe(newModel(deps), deps.Logger)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	t := DefaultTheme()

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Plan"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return model{
		theme:      t,
		deps:       deps,
		scr:        screenPlan,
		files:      l,
		diff:       viewport.New(0, 0),
		running:    true,
		configured: deps.Configured,
	}
}

func (m model) Init() tea.Cmd { return cmdPlan(m.deps) }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := msg.Width, msg.Height
		m.files.SetSize(w-8, h-12)
		m.diff.Width = w - 8
		m.diff.Height = h - 12
		return m, nil

	case planLoadedMsg:
		m.running = false
		m.loaded = true
		m.run = msg.run
		m.errMsg = userMessage(msg.err)
		return m, m.setFiles(msg.run)

	case applyDoneMsg:
		m.running = false
		m.applied = msg.err == nil
		m.run = msg.run
		m.errMsg = userMessage(msg.err)
		if msg.err == nil {
			m.toast = "Applied: " + planSummary(msg.run)
			if msg.run.ID != "" {
				m.toast += " (run " + msg.run.ID + ")"
			}
		}
		return m, m.setFiles(msg.run)

	case initWorkspaceDoneMsg:
		if msg.err != nil {
			m.errMsg = userMessage(msg.err)
			return m, nil
		}
		m.configured = true
		m.toast = "Workspace initialized at " + msg.root
		return m, nil

	case tea.KeyMsg:
		if m.scr == screenPlan && m.files.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.scr == screenPlan {
				return m, tea.Quit
			}
			m.scr = screenPlan
			return m, nil

		case "esc", "b":
			if m.scr == screenDiff {
				m.scr = screenPlan
				return m, nil
			}

		case "enter":
			if m.scr != screenPlan {
				return m, nil
			}
			it, ok := m.files.SelectedItem().(fileItem)
			if !ok || it.r.Diff == "" {
				return m, nil
			}
			m.diff.SetContent(renderDiff(m.theme, it.r.Diff))
			m.diff.GotoTop()
			m.scr = screenDiff
			return m, nil

		case "a":
			if m.scr != screenPlan || m.running || !m.run.DryRun {
				return m, nil
			}
			paths := pendingPaths(m.run)
			if len(paths) == 0 {
				m.toast = "Nothing to apply"
				return m, nil
			}
			m.running = true
			m.toast = ""
			m.errMsg = ""
			return m, cmdApply(m.deps, paths)

		case "r":
			if m.scr != screenPlan || m.running {
				return m, nil
			}
			m.running = true
			m.applied = false
			m.toast = ""
			m.errMsg = ""
			return m, cmdPlan(m.deps)

		case "i":
			if m.scr != screenPlan || m.configured {
				return m, nil
			}
			return m, cmdInitWorkspace(m.deps)
		}
	}

	var cmd tea.Cmd
	switch m.scr {
	case screenPlan:
		m.files, cmd = m.files.Update(msg)
	case screenDiff:
		m.diff, cmd = m.diff.Update(msg)
	}
	return m, cmd
}

func (m *model) setFiles(run domain.RunResult) tea.Cmd {
	items := make([]list.Item, 0, len(run.Files))
	for _, f := range run.Files {
		items = append(items, fileItem{r: f})
	}
	return m.files.SetItems(items)
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("apiurlfix") + "\n" +
		m.theme.Subtitle.Render(fmt.Sprintf("Workspace: %s", m.deps.Root)) + "\n"

	if !m.configured {
		header += m.theme.Help.Render("No apiurlfix.yaml found, using defaults (press i to create one)") + "\n"
	}

	var status string
	switch {
	case m.running:
		status = m.theme.Subtitle.Render("Working…")
	case m.errMsg != "":
		status = m.theme.Error.Render(m.errMsg)
	case m.toast != "":
		status = m.theme.Toast.Render(m.toast)
	case m.loaded:
		status = m.theme.Subtitle.Render(planSummary(m.run))
	}

	switch m.scr {
	case screenPlan:
		help := m.theme.Help.Render("↑/↓ navigate • enter diff • a apply • r refresh • / search • q quit")
		return wrap.Render(header + "\n" + status + "\n\n" + m.theme.Card.Render(m.files.View()) + "\n" + help)

	case screenDiff:
		title := ""
		if it, ok := m.files.SelectedItem().(fileItem); ok {
			title = m.theme.Title.Render(clampString(it.r.Path, 80)) + "\n\n"
		}
		help := m.theme.Help.Render("↑/↓ scroll • esc/b back • q plan")
		return wrap.Render(header + "\n" + m.theme.Card.Render(title+m.diff.View()) + "\n" + help)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}
