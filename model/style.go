package model

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

type palette struct {
	fg, muted, accent, border, selected, danger, ok lipgloss.Color
}

var (
	darkPalette = palette{
		fg: "252", muted: "243", accent: "#6366f1", border: "238",
		selected: "#a5b4fc", danger: "9", ok: "10",
	}
	lightPalette = palette{
		fg: "235", muted: "245", accent: "#4f46e5", border: "250",
		selected: "#4338ca", danger: "1", ok: "2",
	}
)

type styles struct {
	title    lipgloss.Style
	help     lipgloss.Style
	status   lipgloss.Style
	errorMsg lipgloss.Style
	muted    lipgloss.Style

	sidebar    lipgloss.Style
	folder     lipgloss.Style
	folderOn   lipgloss.Style
	card       lipgloss.Style
	cardCursor lipgloss.Style
	cardPicked lipgloss.Style
	cardTitle  lipgloss.Style

	overlay   lipgloss.Style
	menuItem  lipgloss.Style
	menuOn    lipgloss.Style
	chatPanel lipgloss.Style
	userLine  lipgloss.Style
}

func newStyles(dark bool) styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		help:     lipgloss.NewStyle().Faint(true),
		status:   lipgloss.NewStyle().Foreground(p.ok),
		errorMsg: lipgloss.NewStyle().Foreground(p.danger),
		muted:    lipgloss.NewStyle().Foreground(p.muted),

		sidebar:  lipgloss.NewStyle().Width(sidebarWidth).PaddingRight(1).BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(p.border),
		folder:   lipgloss.NewStyle().Foreground(p.fg),
		folderOn: lipgloss.NewStyle().Bold(true).Foreground(p.accent),

		card:       lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(p.border).Foreground(p.fg).PaddingLeft(1),
		cardCursor: lipgloss.NewStyle().BorderStyle(lipgloss.ThickBorder()).BorderForeground(p.accent).Foreground(p.fg).PaddingLeft(1),
		cardPicked: lipgloss.NewStyle().BorderStyle(lipgloss.DoubleBorder()).BorderForeground(p.selected).Foreground(p.fg).PaddingLeft(1),
		cardTitle:  lipgloss.NewStyle().Bold(true),

		overlay:  lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(p.accent).Padding(1, 2),
		menuItem: lipgloss.NewStyle().Foreground(p.fg),
		menuOn:   lipgloss.NewStyle().Bold(true).Foreground(p.accent),

		chatPanel: lipgloss.NewStyle().Width(chatWidth).PaddingLeft(1).BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).BorderForeground(p.border),
		userLine:  lipgloss.NewStyle().Bold(true).Foreground(p.selected),
	}
}

// folderColor turns a stored folder colour into something lipgloss can draw.
// Folders carry either hex ("#6366f1") or css hsl ("hsl(210, 70%, 60%)").
func folderColor(c string) lipgloss.Color {
	var h, s, l float64
	if _, err := fmt.Sscanf(c, "hsl(%g, %g%%, %g%%)", &h, &s, &l); err == nil {
		return lipgloss.Color(colorful.Hsl(h, s/100, l/100).Clamped().Hex())
	}
	if col, err := colorful.Hex(c); err == nil {
		return lipgloss.Color(col.Hex())
	}
	return lipgloss.Color("#6366f1")
}

// randomFolderColor picks a random hue at fixed saturation and lightness.
func randomFolderColor() string {
	return fmt.Sprintf("hsl(%d, 70%%, 60%%)", rand.Intn(360))
}
