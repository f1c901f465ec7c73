package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jade/jadeos/internal/prefs"
	"github.com/jade/jadeos/internal/scanner"
	"github.com/jade/jadeos/internal/service"
)

type radarField int

const (
	radarKeyword radarField = iota
	radarRegions
	radarLimit
	radarMinSold
	radarTable
	radarFieldCount
)

type radarModel struct {
	keyword  textinput.Model
	limit    textinput.Model
	minSold  textinput.Model
	selected map[string]bool
	cursor   int
	focus    radarField

	table   table.Model
	outcome *service.ScanOutcome
}

var productColumnWidths = []int{34, 10, 8, 7, 7, 7, 9}

func newRadarModel() radarModel {
	kw := textinput.New()
	kw.Placeholder = "smartwatch, fone bluetooth, etc"
	kw.CharLimit = 120
	kw.Width = 40
	kw.Focus()

	limit := textinput.New()
	limit.CharLimit = 3
	limit.Width = 5
	limit.SetValue(strconv.Itoa(scanner.DefaultLimit))

	minSold := textinput.New()
	minSold.CharLimit = 5
	minSold.Width = 7
	minSold.SetValue(strconv.Itoa(scanner.DefaultMinSold))

	cols := make([]table.Column, len(scanner.DisplayColumns))
	for i, c := range scanner.DisplayColumns {
		cols[i] = table.Column{Title: c, Width: productColumnWidths[i]}
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(10))

	selected := map[string]bool{}
	for _, code := range scanner.DefaultRegions {
		selected[code] = true
	}
	return radarModel{keyword: kw, limit: limit, minSold: minSold, selected: selected, table: t}
}

func (r *radarModel) restore(d prefs.Dashboard) {
	r.keyword.SetValue(d.Keyword)
	if len(d.Regions) > 0 {
		r.selected = map[string]bool{}
		for _, code := range d.Regions {
			r.selected[code] = true
		}
	}
	if d.Limit > 0 {
		r.limit.SetValue(strconv.Itoa(d.Limit))
	}
	r.minSold.SetValue(strconv.Itoa(d.MinSold))
}

func (r *radarModel) snapshot() prefs.Dashboard {
	limit, _ := strconv.Atoi(strings.TrimSpace(r.limit.Value()))
	minSold, _ := strconv.Atoi(strings.TrimSpace(r.minSold.Value()))
	return prefs.Dashboard{Keyword: strings.TrimSpace(r.keyword.Value()), Regions: r.regions(), Limit: limit, MinSold: minSold}
}

// regions returns the selected codes in table order.
func (r *radarModel) regions() []string {
	var out []string
	for _, reg := range scanner.Regions {
		if r.selected[reg.Code] {
			out = append(out, reg.Code)
		}
	}
	return out
}

// form parses the numeric fields. A non-numeric value is a validation notice.
func (r *radarModel) form() (service.ScanForm, *service.Notice) {
	limit, err := strconv.Atoi(strings.TrimSpace(r.limit.Value()))
	if err != nil {
		return service.ScanForm{}, &service.Notice{Kind: service.KindValidationFailure, Message: "Max products per country must be a number"}
	}
	minSold, err := strconv.Atoi(strings.TrimSpace(r.minSold.Value()))
	if err != nil {
		return service.ScanForm{}, &service.Notice{Kind: service.KindValidationFailure, Message: "Min sales filter must be a number"}
	}
	return service.ScanForm{Keyword: r.keyword.Value(), Regions: r.regions(), Limit: limit, MinSold: minSold}, nil
}

func (r *radarModel) blur() {
	r.keyword.Blur()
	r.limit.Blur()
	r.minSold.Blur()
	r.table.Blur()
}

func (r *radarModel) focusCurrent() {
	r.blur()
	switch r.focus {
	case radarKeyword:
		r.keyword.Focus()
	case radarLimit:
		r.limit.Focus()
	case radarMinSold:
		r.minSold.Focus()
	case radarTable:
		r.table.Focus()
	}
}

func (r *radarModel) move(delta int) {
	r.focus = radarField((int(r.focus) + delta + int(radarFieldCount)) % int(radarFieldCount))
	if r.focus == radarTable && r.outcome == nil {
		r.focus = radarField((int(r.focus) + delta + int(radarFieldCount)) % int(radarFieldCount))
	}
	r.focusCurrent()
}

func (r *radarModel) resize(width, height int) {
	h := height - 22
	if h < 5 {
		h = 5
	}
	r.table.SetHeight(h)
	if width > 0 {
		r.table.SetWidth(width - 2)
	}
}

func (r *radarModel) apply(out service.ScanOutcome) {
	if out.Notice.Failed() {
		r.outcome = nil
		r.table.SetRows(nil)
		return
	}
	r.outcome = &out
	rows := make([]table.Row, len(out.Products))
	for i, p := range out.Products {
		rows[i] = table.Row(scanner.Row(p)[:len(scanner.DisplayColumns)])
	}
	r.table.SetRows(rows)
	r.table.GotoTop()
}

func (a *App) radarKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := &a.radar
	act := a.keys.Action(m, scopeRadar)
	switch act {
	case actionField:
		if r.focus != radarTable {
			if m.String() == "up" {
				r.move(-1)
			} else {
				r.move(1)
			}
			return a, nil
		}
	case actionBack:
		if r.focus == radarTable {
			r.move(1)
			return a, nil
		}
	case actionScan:
		form, bad := r.form()
		if bad != nil {
			if !a.busy {
				a.notice = bad
			}
			return a, nil
		}
		cmd := a.start(fmt.Sprintf("Scanning %d countries...", len(form.Regions)), func() tea.Msg {
			return scanDoneMsg(a.svc.Scan(a.ctx, form))
		})
		if cmd != nil {
			a.savePrefs()
		}
		return a, cmd
	case actionExport:
		if a.busy {
			return a, nil
		}
		var out service.ScanOutcome
		if r.outcome != nil {
			out = *r.outcome
		}
		_, n := a.svc.Export(a.exportDir, out)
		a.notice = &n
		return a, nil
	}

	var cmd tea.Cmd
	switch r.focus {
	case radarKeyword:
		r.keyword, cmd = r.keyword.Update(m)
	case radarLimit:
		r.limit, cmd = r.limit.Update(m)
	case radarMinSold:
		r.minSold, cmd = r.minSold.Update(m)
	case radarTable:
		r.table, cmd = r.table.Update(m)
	case radarRegions:
		switch {
		case act == actionRegion && m.String() == "left":
			if r.cursor > 0 {
				r.cursor--
			}
		case act == actionRegion:
			if r.cursor < len(scanner.Regions)-1 {
				r.cursor++
			}
		case act == actionToggle:
			code := scanner.Regions[r.cursor].Code
			r.selected[code] = !r.selected[code]
		}
	}
	return a, cmd
}

func (r *radarModel) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Multi-country product intelligence scanning with anti-detection"))
	b.WriteString("\n\n")
	b.WriteString(focusMark("Search Keyword", r.focus == radarKeyword) + "  " + r.keyword.View() + "\n")

	var regs []string
	for i, reg := range scanner.Regions {
		box := "[ ]"
		if r.selected[reg.Code] {
			box = "[x]"
		}
		item := box + " " + reg.Label()
		if r.focus == radarRegions && i == r.cursor {
			item = focusedStyle.Render(item)
		}
		regs = append(regs, item)
	}
	b.WriteString(focusMark("Countries to Scan", r.focus == radarRegions) + "  " + strings.Join(regs, "  ") + "\n")
	b.WriteString(focusMark(fmt.Sprintf("Max Products per Country (%d-%d)", scanner.MinLimit, scanner.MaxLimit), r.focus == radarLimit) + "  " + r.limit.View() + "\n")
	b.WriteString(focusMark(fmt.Sprintf("Min Sales Filter (0-%d)", scanner.MaxMinSold), r.focus == radarMinSold) + "  " + r.minSold.View() + "\n")

	if r.outcome != nil {
		b.WriteString("\n")
		b.WriteString(r.table.View())
		b.WriteString("\n")
		s := r.outcome.Summary
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			metricStyle.Render(fmt.Sprintf("Total Products\n%d", s.Total)),
			metricStyle.Render(fmt.Sprintf("Avg Price\n%.2f", s.AvgPrice)),
			metricStyle.Render(fmt.Sprintf("Total Sales\n%s", thousands(s.TotalSold))),
		))
	}
	return b.String()
}

// thousands formats n with comma separators.
func thousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
