package ui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

type palette struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Border     lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Danger     lipgloss.Color
	Like       lipgloss.Color
	Dislike    lipgloss.Color
	SliderOn   lipgloss.Color
	SliderOff  lipgloss.Color
}

var palettes = map[string]palette{
	"catppuccin": {
		Background: lipgloss.Color("#1e1e2e"),
		Surface:    lipgloss.Color("#313244"),
		Text:       lipgloss.Color("#cdd6f4"),
		Muted:      lipgloss.Color("#a6adc8"),
		Accent:     lipgloss.Color("#cba6f7"),
		Border:     lipgloss.Color("#585b70"),
		Success:    lipgloss.Color("#94e2d5"),
		Warning:    lipgloss.Color("#f9e2af"),
		Danger:     lipgloss.Color("#f38ba8"),
		Like:       lipgloss.Color("#a6e3a1"),
		Dislike:    lipgloss.Color("#f38ba8"),
		SliderOn:   lipgloss.Color("#94e2d5"),
		SliderOff:  lipgloss.Color("#313244"),
	},
	"gruvbox": {
		Background: lipgloss.Color("#282828"),
		Surface:    lipgloss.Color("#3c3836"),
		Text:       lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#a89984"),
		Accent:     lipgloss.Color("#fabd2f"),
		Border:     lipgloss.Color("#665c54"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fe8019"),
		Danger:     lipgloss.Color("#fb4934"),
		Like:       lipgloss.Color("#b8bb26"),
		Dislike:    lipgloss.Color("#fb4934"),
		SliderOn:   lipgloss.Color("#b8bb26"),
		SliderOff:  lipgloss.Color("#3c3836"),
	},
	"solarized_dark": {
		Background: lipgloss.Color("#002b36"),
		Surface:    lipgloss.Color("#073642"),
		Text:       lipgloss.Color("#fdf6e3"),
		Muted:      lipgloss.Color("#93a1a1"),
		Accent:     lipgloss.Color("#b58900"),
		Border:     lipgloss.Color("#586e75"),
		Success:    lipgloss.Color("#859900"),
		Warning:    lipgloss.Color("#cb4b16"),
		Danger:     lipgloss.Color("#dc322f"),
		Like:       lipgloss.Color("#859900"),
		Dislike:    lipgloss.Color("#dc322f"),
		SliderOn:   lipgloss.Color("#859900"),
		SliderOff:  lipgloss.Color("#073642"),
	},
}

func paletteFor(name string) palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes["catppuccin"]
}

// ThemeNames lists the selectable palettes, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(palettes))
	for k := range palettes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
