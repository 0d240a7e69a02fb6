package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/cpitclaudel/litpy/internal/annotate"
	"github.com/cpitclaudel/litpy/internal/config"
)

// StyleManager resolves annotation style tags to concrete terminal styles
// through an explicit table, plus the chrome styles the TUI itself needs.
type StyleManager struct {
	tags map[annotate.Style]lipgloss.Style

	// Chrome styles
	Cursor  lipgloss.Style
	Overlay lipgloss.Style
	Divider lipgloss.Style
	Dim     lipgloss.Style
	Status  lipgloss.Style
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	s := &StyleManager{
		Cursor:  lipgloss.NewStyle().Reverse(true),
		Overlay: lipgloss.NewStyle().Foreground(lipgloss.Color("109")),
		Divider: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
	s.tags = map[annotate.Style]lipgloss.Style{
		annotate.StyleTitle1:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		annotate.StyleTitle2:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111")),
		annotate.StyleTitle3:        lipgloss.NewStyle().Foreground(lipgloss.Color("150")),
		annotate.StyleProse:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		annotate.StyleMarkup:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		annotate.StyleDoctestPrompt: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		annotate.StyleDoctestCode:   lipgloss.NewStyle().Foreground(lipgloss.Color("223")),
		annotate.StyleVerbatim:      lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("223")),
		annotate.StyleCode:          lipgloss.NewStyle().Foreground(lipgloss.Color("223")),
		annotate.StyleKeyword:       lipgloss.NewStyle().Foreground(lipgloss.Color("176")),
		annotate.StyleString:        lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		annotate.StyleComment:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		annotate.StyleLiteral:       lipgloss.NewStyle().Foreground(lipgloss.Color("179")),
		annotate.StyleName:          lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
		annotate.StyleOperator:      lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
	}
	return s
}

// LoadFromConfig updates styles based on configuration
func (s *StyleManager) LoadFromConfig() {
	set := func(tag annotate.Style, name string, base lipgloss.Style) {
		if c := config.GetColor(name); c != "" {
			s.tags[tag] = base.Foreground(lipgloss.Color(c))
		}
	}
	set(annotate.StyleTitle1, "title1", lipgloss.NewStyle().Bold(true))
	set(annotate.StyleTitle2, "title2", lipgloss.NewStyle().Bold(true))
	set(annotate.StyleTitle3, "title3", lipgloss.NewStyle())
	set(annotate.StyleProse, "prose", lipgloss.NewStyle())
	set(annotate.StyleMarkup, "markup", lipgloss.NewStyle())
	set(annotate.StyleDoctestPrompt, "prompt", lipgloss.NewStyle().Bold(true))
	set(annotate.StyleDoctestCode, "code", lipgloss.NewStyle())
	set(annotate.StyleVerbatim, "code", lipgloss.NewStyle().Italic(true))
	set(annotate.StyleCode, "code", lipgloss.NewStyle())
	set(annotate.StyleKeyword, "keyword", lipgloss.NewStyle())
	set(annotate.StyleString, "string", lipgloss.NewStyle())
	set(annotate.StyleComment, "comment", lipgloss.NewStyle())

	if c := config.GetColor("markup"); c != "" {
		s.Divider = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	if c := config.GetColor("overlay"); c != "" {
		s.Overlay = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
}

// For returns the style for a tag; unknown tags render unstyled.
func (s *StyleManager) For(tag annotate.Style) lipgloss.Style {
	if st, ok := s.tags[tag]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

// Global style manager instance
var styles = DefaultStyles()

// RefreshStyles updates the global styles from config
func RefreshStyles() {
	styles.LoadFromConfig()
}
