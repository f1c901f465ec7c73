package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jade/jadeos/internal/prefs"
	"github.com/jade/jadeos/internal/service"
	"github.com/jade/jadeos/internal/status"
)

// App is the command center: four tabs over one service.Service. Only one
// action runs at a time; action keys are ignored while the spinner shows.
type App struct {
	ctx       context.Context
	svc       *service.Service
	log       *zap.Logger
	prefsDir  string
	exportDir string

	tab     tab
	width   int
	height  int
	busy    bool
	busyFor string
	spinner spinner.Model
	notice  *service.Notice
	keys    *KeyRegistry
	help    help.Model

	radar radarModel
	ghost ghostModel
	brain brainModel
	md    *glamour.TermRenderer
}

// Options configures New. Service is required.
type Options struct {
	Service *service.Service
	Log     *zap.Logger
	// PrefsDir holds the saved form state; empty disables it.
	PrefsDir string
	// ExportDir receives CSV exports; empty means the working directory.
	ExportDir string
}

type tab int

const (
	tabRadar tab = iota
	tabGhost
	tabBrain
	tabStatus
	tabCount
)

var tabTitles = [tabCount]string{
	"🔍 Shopee Nuclear Radar",
	"👻 Ghost Protocol",
	"🧠 Strategy Brain",
	"📊 System Status",
}

// messages
type (
	scanDoneMsg     service.ScanOutcome
	videoDoneMsg    service.VideoOutcome
	strategyDoneMsg service.StrategyOutcome
	memorySavedMsg  service.Notice
	contextMsg      struct {
		entries map[string]string
		ok      bool
	}
)

func New(ctx context.Context, opts Options) *App {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = focusedStyle

	a := &App{
		ctx:       ctx,
		svc:       opts.Service,
		log:       log,
		prefsDir:  opts.PrefsDir,
		exportDir: opts.ExportDir,
		spinner:   sp,
		keys:      NewKeyRegistry(),
		help:      help.New(),
		radar:     newRadarModel(),
		ghost:     newGhostModel(),
		brain:     newBrainModel(),
		width:     100,
		height:    40,
	}
	if md, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(90)); err == nil {
		a.md = md
	} else {
		log.Warn("markdown renderer unavailable", zap.Error(err))
	}
	if a.prefsDir != "" {
		if saved, ok, err := prefs.Load(a.prefsDir); err != nil {
			log.Warn("prefs load failed", zap.Error(err))
		} else if ok {
			a.radar.restore(saved)
			a.brain.restore(saved)
		}
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return a.loadContextCmd()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		a.radar.resize(m.Width, m.Height)
		a.ghost.resize(m.Width)
		a.brain.resize(m.Width, m.Height)
		return a, nil
	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	case tea.KeyMsg:
		return a.handleKey(m)
	case scanDoneMsg:
		a.finish(m.Notice)
		a.radar.apply(service.ScanOutcome(m))
	case videoDoneMsg:
		a.finish(m.Notice)
		a.ghost.apply(service.VideoOutcome(m))
	case strategyDoneMsg:
		a.finish(m.Notice)
		a.brain.apply(service.StrategyOutcome(m), a.renderMarkdown)
	case memorySavedMsg:
		a.finish(service.Notice(m))
		if m.Kind == service.KindSuccess {
			a.brain.clearMemoryForm()
		}
		return a, a.loadContextCmd()
	case contextMsg:
		a.brain.entries, a.brain.memoryOK = m.entries, m.ok
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.keys.Action(m, scopeGlobal) {
	case actionQuit:
		return a, tea.Quit
	case actionNextTab:
		a.switchTab((a.tab + 1) % tabCount)
		return a, nil
	case actionPrevTab:
		a.switchTab((a.tab + tabCount - 1) % tabCount)
		return a, nil
	case actionJump:
		a.switchTab(tab(m.String()[len("alt+")] - '1'))
		return a, nil
	case actionRefresh:
		a.notice = &service.Notice{Kind: service.KindInfo, Message: "Status refreshed"}
		return a, a.loadContextCmd()
	}

	switch a.tab {
	case tabRadar:
		return a.radarKey(m)
	case tabGhost:
		return a.ghostKey(m)
	case tabBrain:
		return a.brainKey(m)
	}
	return a, nil
}

func (a *App) switchTab(t tab) {
	a.tab = t
	a.radar.blur()
	a.ghost.blur()
	a.brain.blur()
	switch t {
	case tabRadar:
		a.radar.focusCurrent()
	case tabGhost:
		a.ghost.focusCurrent()
	case tabBrain:
		a.brain.focusCurrent()
	}
}

// start marks an action as running. It returns nil when another action is
// already in flight, so the key press is dropped.
func (a *App) start(label string, run tea.Cmd) tea.Cmd {
	if a.busy {
		return nil
	}
	a.busy = true
	a.busyFor = label
	a.notice = nil
	return tea.Batch(a.spinner.Tick, run)
}

func (a *App) finish(n service.Notice) {
	a.busy = false
	a.busyFor = ""
	a.notice = &n
}

func (a *App) loadContextCmd() tea.Cmd {
	return func() tea.Msg {
		entries, ok := a.svc.Context(a.ctx)
		return contextMsg{entries: entries, ok: ok}
	}
}

func (a *App) savePrefs() {
	if a.prefsDir == "" {
		return
	}
	d := a.radar.snapshot()
	d.Strategy = a.brain.selected().ID
	if err := prefs.Save(a.prefsDir, d); err != nil {
		a.log.Warn("prefs save failed", zap.Error(err))
	}
}

func (a *App) renderMarkdown(s string) string {
	if a.md == nil {
		return s
	}
	out, err := a.md.Render(s)
	if err != nil {
		return s
	}
	return strings.TrimRight(out, "\n")
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("💎 JADE OS - Command Center"))
	b.WriteString("\n")
	b.WriteString(a.renderTabs())
	b.WriteString("\n\n")

	switch a.tab {
	case tabRadar:
		b.WriteString(a.radar.view())
	case tabGhost:
		b.WriteString(a.ghost.view())
	case tabBrain:
		b.WriteString(a.brain.view())
	case tabStatus:
		b.WriteString(renderStatus(status.Read()))
	}

	b.WriteString("\n\n")
	if a.busy {
		b.WriteString(a.spinner.View() + " " + a.busyFor)
	} else if a.notice != nil {
		b.WriteString(noticeStyle(a.notice.Kind).Render(noticeIcon(a.notice.Kind) + " " + a.notice.Message))
	}
	b.WriteString("\n")
	b.WriteString(a.helpView())
	return b.String()
}

func (a *App) renderTabs() string {
	parts := make([]string, tabCount)
	for i, title := range tabTitles {
		if tab(i) == a.tab {
			parts[i] = activeTabStyle.Render(title)
		} else {
			parts[i] = inactiveTabStyle.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

var tabScopes = [tabCount]string{scopeRadar, scopeGhost, scopeBrain, scopeStatus}

func (a *App) helpView() string {
	bindings := append(a.keys.HelpBindings(tabScopes[a.tab]), a.keys.HelpBindings(scopeGlobal)...)
	return a.help.ShortHelpView(bindings)
}
