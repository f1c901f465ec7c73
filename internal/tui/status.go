package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jade/jadeos/internal/status"
)

func renderStatus(s status.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("System health and configuration"))
	b.WriteString("\n\n")

	tiles := make([]string, len(s.Services))
	for i, svc := range s.Services {
		tiles[i] = metricStyle.Render(fmt.Sprintf("%s\n%s\n%s", labelStyle.Render(svc.Name), svc.State, subtleStyle.Render(svc.Detail)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	b.WriteString("\n\n")

	var cfg strings.Builder
	cfg.WriteString(labelStyle.Render("Configuration"))
	for _, f := range s.Flags {
		fmt.Fprintf(&cfg, "\n%-20s %s", f.Env, f.Label)
	}

	var workers strings.Builder
	workers.WriteString(labelStyle.Render("Workers"))
	for _, w := range s.Workers {
		fmt.Fprintf(&workers, "\n• %s: %s", w.Name, w.Description)
	}

	var eps strings.Builder
	eps.WriteString(labelStyle.Render("API Endpoints"))
	for _, e := range s.Endpoints {
		eps.WriteString("\n" + e)
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(cfg.String()), " ",
		panelStyle.Render(eps.String())))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(workers.String()))
	b.WriteString("\n\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("%s | Build: %s", s.Version, s.Build)))
	return b.String()
}
