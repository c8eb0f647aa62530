package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DaanHessen/questlog-tui/internal/engine"
)

type palette struct {
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Border  lipgloss.Color
	Success lipgloss.Color
	Danger  lipgloss.Color
	XPFill  lipgloss.Color
	XPEmpty lipgloss.Color
	Gold    lipgloss.Color
	// one colour per quest type
	Hero  lipgloss.Color
	Daily lipgloss.Color
	Side  lipgloss.Color
	Event lipgloss.Color
	Focus lipgloss.Color
}

var palettes = map[string]palette{
	"catppuccin": {
		Text: "#cdd6f4", Muted: "#a6adc8", Accent: "#cba6f7", Border: "#585b70",
		Success: "#a6e3a1", Danger: "#f38ba8", XPFill: "#94e2d5", XPEmpty: "#313244", Gold: "#f9e2af",
		Hero: "#fab387", Daily: "#89b4fa", Side: "#a6e3a1", Event: "#f5c2e7", Focus: "#94e2d5",
	},
	"dracula": {
		Text: "#f8f8f2", Muted: "#6272a4", Accent: "#ff79c6", Border: "#44475a",
		Success: "#50fa7b", Danger: "#ff5555", XPFill: "#8be9fd", XPEmpty: "#343746", Gold: "#f1fa8c",
		Hero: "#ffb86c", Daily: "#bd93f9", Side: "#50fa7b", Event: "#ff79c6", Focus: "#8be9fd",
	},
	"gruvbox": {
		Text: "#ebdbb2", Muted: "#a89984", Accent: "#fabd2f", Border: "#665c54",
		Success: "#b8bb26", Danger: "#fb4934", XPFill: "#8ec07c", XPEmpty: "#3c3836", Gold: "#fabd2f",
		Hero: "#fe8019", Daily: "#83a598", Side: "#b8bb26", Event: "#d3869b", Focus: "#8ec07c",
	},
	"solarized_dark": {
		Text: "#fdf6e3", Muted: "#93a1a1", Accent: "#b58900", Border: "#586e75",
		Success: "#859900", Danger: "#dc322f", XPFill: "#2aa198", XPEmpty: "#073642", Gold: "#b58900",
		Hero: "#cb4b16", Daily: "#268bd2", Side: "#859900", Event: "#d33682", Focus: "#2aa198",
	},
}

func paletteFor(name string) palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes["catppuccin"]
}

func themeNames() []string {
	names := make([]string, 0, len(palettes))
	for k := range palettes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func nextThemeName(current string, step int) string {
	names := themeNames()
	idx := 0
	for i, name := range names {
		if name == current {
			idx = i
			break
		}
	}
	idx = (idx + step) % len(names)
	if idx < 0 {
		idx += len(names)
	}
	return names[idx]
}

type styles struct {
	p        palette
	title    lipgloss.Style
	muted    lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
	gold     lipgloss.Style
	err      lipgloss.Style
	ok       lipgloss.Style
	panel    lipgloss.Style
	toast    lipgloss.Style
	kinds    map[engine.QuestType]lipgloss.Style
}

func newStyles(theme string) styles {
	p := paletteFor(theme)
	return styles{
		p:        p,
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		muted:    lipgloss.NewStyle().Foreground(p.Muted),
		selected: lipgloss.NewStyle().Bold(true).Foreground(p.Text).Background(p.XPEmpty),
		done:     lipgloss.NewStyle().Foreground(p.Muted).Strikethrough(true),
		gold:     lipgloss.NewStyle().Foreground(p.Gold),
		err:      lipgloss.NewStyle().Foreground(p.Danger),
		ok:       lipgloss.NewStyle().Foreground(p.Success),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 1),
		toast:    lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(p.Accent).Padding(0, 1),
		kinds: map[engine.QuestType]lipgloss.Style{
			engine.QuestGrandmaster: lipgloss.NewStyle().Bold(true).Foreground(p.Hero),
			engine.QuestDaily:       lipgloss.NewStyle().Foreground(p.Daily),
			engine.QuestSide:        lipgloss.NewStyle().Foreground(p.Side),
			engine.QuestEvent:       lipgloss.NewStyle().Foreground(p.Event),
			engine.QuestFocus:       lipgloss.NewStyle().Foreground(p.Focus),
		},
	}
}

func (s styles) kind(t engine.QuestType) lipgloss.Style {
	if st, ok := s.kinds[t]; ok {
		return st
	}
	return s.muted
}

// xpBar draws a fixed-width progress bar for cur/max.
func (s styles) xpBar(cur, max, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := 0
	if max > 0 {
		filled = cur * width / max
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	full := lipgloss.NewStyle().Foreground(s.p.XPFill).Render(strings.Repeat("█", filled))
	empty := lipgloss.NewStyle().Foreground(s.p.XPEmpty).Render(strings.Repeat("░", width-filled))
	return full + empty
}
