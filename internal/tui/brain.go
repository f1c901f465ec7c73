package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jade/jadeos/internal/memory"
	"github.com/jade/jadeos/internal/prefs"
	"github.com/jade/jadeos/internal/service"
	"github.com/jade/jadeos/internal/strategy"
)

const previewRunes = 100

type brainField int

const (
	brainMemKey brainField = iota
	brainMemValue
	brainStrategy
	brainInput
	brainFieldCount
)

type brainModel struct {
	memKey   textinput.Model
	memValue textinput.Model
	input    textarea.Model
	result   viewport.Model
	defs     []strategy.Definition
	choice   int
	focus    brainField

	entries  map[string]string
	memoryOK bool
	outcome  *service.StrategyOutcome
}

func newBrainModel() brainModel {
	k := textinput.New()
	k.Placeholder = "business_name"
	k.CharLimit = 80
	k.Width = 30

	v := textinput.New()
	v.Placeholder = "JADE Imports"
	v.CharLimit = 2000
	v.Width = 60

	in := textarea.New()
	in.Placeholder = "Describe what you need..."
	in.SetWidth(80)
	in.SetHeight(4)
	in.ShowLineNumbers = false

	vp := viewport.New(80, 12)

	b := brainModel{memKey: k, memValue: v, input: in, result: vp, defs: strategy.Catalogue(), focus: brainInput}
	return b
}

func (b *brainModel) selected() strategy.Definition { return b.defs[b.choice] }

func (b *brainModel) restore(d prefs.Dashboard) {
	for i, def := range b.defs {
		if def.ID == d.Strategy {
			b.choice = i
			return
		}
	}
}

func (b *brainModel) clearMemoryForm() {
	b.memKey.Reset()
	b.memValue.Reset()
}

func (b *brainModel) resize(width, height int) {
	if width > 10 {
		b.input.SetWidth(width - 6)
		b.result.Width = width - 4
	}
	if h := height - 26; h > 4 {
		b.result.Height = h
	}
}

func (b *brainModel) blur() {
	b.memKey.Blur()
	b.memValue.Blur()
	b.input.Blur()
}

func (b *brainModel) focusCurrent() {
	b.blur()
	switch b.focus {
	case brainMemKey:
		b.memKey.Focus()
	case brainMemValue:
		b.memValue.Focus()
	case brainInput:
		b.input.Focus()
	}
}

func (b *brainModel) move(delta int) {
	b.focus = brainField((int(b.focus) + delta + int(brainFieldCount)) % int(brainFieldCount))
	b.focusCurrent()
}

func (b *brainModel) apply(out service.StrategyOutcome, render func(string) string) {
	b.outcome = &out
	if out.Display == "" {
		b.result.SetContent("")
		return
	}
	b.result.SetContent(render(out.Display))
	b.result.GotoTop()
}

func (a *App) brainKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := &a.brain
	act := a.keys.Action(m, scopeBrain)
	switch act {
	case actionNextField:
		b.move(1)
		return a, nil
	case actionPrevField:
		b.move(-1)
		return a, nil
	case actionScroll:
		var cmd tea.Cmd
		b.result, cmd = b.result.Update(m)
		return a, cmd
	case actionSave:
		key, value := b.memKey.Value(), b.memValue.Value()
		return a, a.start("Saving context...", func() tea.Msg {
			return memorySavedMsg(a.svc.SaveContext(a.ctx, key, value))
		})
	case actionExecute:
		form := service.StrategyForm{Strategy: b.selected().ID, Input: b.input.Value()}
		cmd := a.start("Thinking...", func() tea.Msg {
			return strategyDoneMsg(a.svc.ExecuteStrategy(a.ctx, form))
		})
		if cmd != nil {
			a.savePrefs()
		}
		return a, cmd
	}

	var cmd tea.Cmd
	switch b.focus {
	case brainMemKey:
		b.memKey, cmd = b.memKey.Update(m)
	case brainMemValue:
		b.memValue, cmd = b.memValue.Update(m)
	case brainInput:
		b.input, cmd = b.input.Update(m)
	case brainStrategy:
		if act == actionStrategy {
			if m.String() == "left" {
				b.choice = (b.choice + len(b.defs) - 1) % len(b.defs)
			} else {
				b.choice = (b.choice + 1) % len(b.defs)
			}
		}
	}
	return a, cmd
}

func (b *brainModel) view() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("AI-powered marketing strategy generator"))
	s.WriteString("\n\n")

	mem := labelStyle.Render("Business Memory") + "\n" +
		focusMark("Key", b.focus == brainMemKey) + "  " + b.memKey.View() + "\n" +
		focusMark("Value", b.focus == brainMemValue) + "  " + b.memValue.View() + "\n"
	switch {
	case !b.memoryOK:
		mem += subtleStyle.Render("Memory unavailable")
	case len(b.entries) == 0:
		mem += subtleStyle.Render("No stored context yet")
	default:
		mem += subtleStyle.Render("Stored contexts:")
		for _, k := range memory.SortedKeys(b.entries) {
			mem += "\n  " + labelStyle.Render(k) + ": " + memory.Preview(b.entries[k], previewRunes)
		}
	}
	s.WriteString(panelStyle.Render(mem))
	s.WriteString("\n\n")

	s.WriteString(focusMark("Choose Strategy", b.focus == brainStrategy) + "  ‹ " + b.selected().Label() + " ›\n")
	s.WriteString(focusMark("Your Input", b.focus == brainInput) + "\n")
	s.WriteString(b.input.View())

	if b.outcome != nil && b.outcome.Display != "" {
		s.WriteString("\n\n")
		s.WriteString(labelStyle.Render("Result ("+b.outcome.Result.Label()+")") + "\n")
		s.WriteString(b.result.View())
	}
	return s.String()
}
