// Package styles provides the lipgloss styles shared by the console output
// and the minutes preview.
package styles

import (
	"sort"

	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// Palette defines a minimal semantic theme palette as hex colors.
type Palette struct {
	Primary    string
	Secondary  string
	Foreground string
	Muted      string
	Surface    string
	Success    string
	Warning    string
	Error      string
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    "#7aa2f7",
		Secondary:  "#7dcfff",
		Foreground: "#c0caf5",
		Muted:      "#565f89",
		Surface:    "#3b4261",
		Success:    "#9ece6a",
		Warning:    "#e0af68",
		Error:      "#f7768e",
	},
	"gruvbox": {
		Primary:    "#83a598",
		Secondary:  "#8ec07c",
		Foreground: "#ebdbb2",
		Muted:      "#665c54",
		Surface:    "#3c3836",
		Success:    "#b8bb26",
		Warning:    "#fabd2f",
		Error:      "#fb4934",
	},
	"catppuccin": {
		Primary:    "#89b4fa",
		Secondary:  "#94e2d5",
		Foreground: "#cdd6f4",
		Muted:      "#6c7086",
		Surface:    "#313244",
		Success:    "#a6e3a1",
		Warning:    "#f9e2af",
		Error:      "#f38ba8",
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

var (
	// Console transport.
	ReplyStyle   lipgloss.Style
	TopicStyle   lipgloss.Style
	ChannelStyle lipgloss.Style
	TimeStyle    lipgloss.Style

	// Command output.
	HeaderStyle  lipgloss.Style
	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	MutedStyle   lipgloss.Style
)

var nickPool []lipgloss.Color

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ReplyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Foreground))
	TopicStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warning)).Bold(true)
	ChannelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Primary)).Bold(true)
	TimeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted))

	HeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Primary)).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Success))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warning))
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Error)).Bold(true)
	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted))

	nickPool = []lipgloss.Color{
		lipgloss.Color(p.Primary),
		lipgloss.Color(p.Secondary),
		lipgloss.Color(p.Success),
		lipgloss.Color(p.Warning),
		lipgloss.Color(p.Error),
	}
}

// NickStyle returns a style with a deterministic color for a nick. The same
// nick always gets the same color.
func NickStyle(nick string) lipgloss.Style {
	var hash uint32
	for _, c := range nick {
		hash = hash*31 + uint32(c)
	}
	return lipgloss.NewStyle().Foreground(nickPool[hash%uint32(len(nickPool))]).Bold(true)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	p := CurrentPalette
	fg, primary, secondary, muted, surface := p.Foreground, p.Primary, p.Secondary, p.Muted, p.Surface

	cfg.Document.Color = &fg
	cfg.Paragraph.Color = &fg

	cfg.Heading.Color = &primary
	cfg.H1.Color = &fg
	cfg.H1.BackgroundColor = &surface
	cfg.H2.Color = &primary
	cfg.H3.Color = &primary

	cfg.BlockQuote.Color = &muted
	cfg.HorizontalRule.Color = &muted

	cfg.Link.Color = &secondary
	cfg.LinkText.Color = &secondary
	cfg.Code.Color = &secondary

	return cfg
}
