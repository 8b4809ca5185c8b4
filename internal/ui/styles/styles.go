// Package styles defines the visual styling for the application.
package styles

import "github.com/charmbracelet/lipgloss"

// Color definitions for the dashboard theme.
var (
	// Primary colors
	ColorPrimary   = lipgloss.Color("39")  // Sky blue
	ColorSecondary = lipgloss.Color("63")  // Purple
	ColorSubtle    = lipgloss.Color("240") // Gray

	// Route colors
	ColorDomestic      = lipgloss.Color("42")  // Green
	ColorInternational = lipgloss.Color("208") // Orange

	// Status colors
	ColorSuccess = lipgloss.Color("42")  // Green
	ColorError   = lipgloss.Color("196") // Red
	ColorWarning = lipgloss.Color("220") // Yellow
	ColorInfo    = lipgloss.Color("75")  // Light blue

	// Background colors
	ColorBgDark   = lipgloss.Color("235")
	ColorBgAccent = lipgloss.Color("236")

	// Text colors
	ColorText      = lipgloss.Color("252")
	ColorTextMuted = lipgloss.Color("245")

	// ToastStyle for floating notifications.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1).
			MarginBottom(1)
)

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorPrimary).
	MarginBottom(1)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorSecondary)

// DocStyle provides consistent document margins.
var DocStyle = lipgloss.NewStyle().
	Margin(0, 1).
	Padding(0, 1)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorSubtle).
	Padding(0, 2)

// CardTitleStyle styles card headers.
var CardTitleStyle = lipgloss.NewStyle().
	Foreground(ColorTextMuted)

// CardValueStyle styles the headline number of a card.
var CardValueStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorText)

// HelpPanelStyle creates the help overlay panel.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(ColorPrimary).
	Padding(1, 3).
	Background(ColorBgDark)

// TableHeaderStyle styles table headers.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorPrimary).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(ColorSubtle)

// TableSelectedStyle styles selected table rows.
var TableSelectedStyle = lipgloss.NewStyle().
	Background(ColorBgAccent).
	Foreground(ColorText).
	Bold(true)

// MutedStyle is for secondary text and empty states.
var MutedStyle = lipgloss.NewStyle().
	Foreground(ColorTextMuted)

// ErrorTextStyle for error messages.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(ColorError)

// SuccessTextStyle for success messages.
var SuccessTextStyle = lipgloss.NewStyle().
	Foreground(ColorSuccess)

// WarningTextStyle for warning messages.
var WarningTextStyle = lipgloss.NewStyle().
	Foreground(ColorWarning)

// DomesticStyle marks domestic routes.
var DomesticStyle = lipgloss.NewStyle().
	Foreground(ColorDomestic)

// InternationalStyle marks international routes.
var InternationalStyle = lipgloss.NewStyle().
	Foreground(ColorInternational)

// FilterActiveStyle highlights an enabled filter chip.
var FilterActiveStyle = lipgloss.NewStyle().
	Background(ColorPrimary).
	Foreground(lipgloss.Color("229")).
	Bold(true).
	Padding(0, 1)

// FilterInactiveStyle renders a disabled filter chip.
var FilterInactiveStyle = lipgloss.NewStyle().
	Foreground(ColorTextMuted).
	Padding(0, 1)

// GetRouteTypeStyle returns the style for a route type label.
func GetRouteTypeStyle(domestic bool) lipgloss.Style {
	if domestic {
		return DomesticStyle
	}
	return InternationalStyle
}

// GetPriceStyle colors a price relative to the market median: cheap green,
// expensive red.
func GetPriceStyle(price, median float64) lipgloss.Style {
	switch {
	case median <= 0:
		return MutedStyle
	case price > median*1.2:
		return ErrorTextStyle
	case price < median*0.8:
		return SuccessTextStyle
	default:
		return WarningTextStyle
	}
}

// CenterHorizontal centers content horizontally within a given width.
func CenterHorizontal(content string, width int) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(content)
}

// CenterBoth centers content both horizontally and vertically.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}
