package main

import (
	"strings"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/pipeline"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Width(16)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("22")).
			Padding(0, 1)
)

func summary(res *pipeline.Result) string {
	lines := []string{titleStyle.Render("terrain run")}
	for _, f := range res.Fields() {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(f.Label), valueStyle.Render(f.Value)))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
