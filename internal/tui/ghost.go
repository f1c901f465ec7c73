package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jade/jadeos/internal/service"
)

type ghostModel struct {
	path    textinput.Model
	width   int
	outcome *service.VideoOutcome
}

func newGhostModel() ghostModel {
	p := textinput.New()
	p.Placeholder = "/path/to/clip.mp4"
	p.CharLimit = 512
	p.Width = 60
	return ghostModel{path: p, width: 100}
}

func (g *ghostModel) resize(width int) {
	g.width = width
	if width > 20 {
		g.path.Width = width - 20
	}
}

func (g *ghostModel) blur()         { g.path.Blur() }
func (g *ghostModel) focusCurrent() { g.path.Focus() }

func (g *ghostModel) apply(out service.VideoOutcome) {
	if out.Notice.Failed() {
		g.outcome = nil
		return
	}
	g.outcome = &out
}

func (a *App) ghostKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	g := &a.ghost
	if a.keys.Action(m, scopeGhost) != actionProcess {
		var cmd tea.Cmd
		g.path, cmd = g.path.Update(m)
		return a, cmd
	}
	path := g.path.Value()
	return a, a.start("Processing video...", func() tea.Msg {
		return videoDoneMsg(a.svc.ProcessVideoFile(a.ctx, path))
	})
}

func (g *ghostModel) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Video processing with metadata injection and hash washing"))
	b.WriteString("\n\n")
	b.WriteString(focusMark("Upload Video", true) + "  " + g.path.View() + "\n\n")

	half := (g.width - 6) / 2
	if half < 30 {
		half = 30
	}
	includes := panelStyle.Width(half).Render(labelStyle.Render("Processing includes") + "\n" +
		"• Random iPhone/Samsung metadata\n" +
		"• GPS location from Brazilian cities\n" +
		"• Visual filters (gamma, saturation)\n" +
		"• Hash washing (unique fingerprint)")
	output := panelStyle.Width(half).Render(labelStyle.Render("Output") + "\n" +
		"• H.264 video codec\n" +
		"• AAC audio codec\n" +
		"• Optimized file size\n" +
		"• Ready for upload")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, includes, " ", output))

	if o := g.outcome; o != nil {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			metricStyle.Render(fmt.Sprintf("Input Size\n%.2f MB", o.InputMB)),
			metricStyle.Render(fmt.Sprintf("Output Size\n%.2f MB", o.OutputMB)),
			metricStyle.Render(fmt.Sprintf("Compression\n%.1f%%", o.Compression)),
		))
		b.WriteString("\n" + labelStyle.Render("Output: ") + o.OutputPath)
	}
	return b.String()
}
