package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/flight-demand-tui/internal/ui/styles"
)

// LoadingSpinner is a spinner followed by a muted caption, shown while an
// analysis run is in flight.
type LoadingSpinner struct {
	spinner spinner.Model
	label   string
}

var spinnerLabelStyle = lipgloss.NewStyle().Foreground(styles.ColorTextMuted)

// NewSpinner creates a spinner captioned with label.
func NewSpinner(label string) LoadingSpinner {
	return LoadingSpinner{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.ColorPrimary)),
		),
		label: label,
	}
}

// Init starts the animation.
func (l LoadingSpinner) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the animation on its tick messages.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// View renders the spinner and its caption.
func (l LoadingSpinner) View() string {
	if l.label == "" {
		return l.spinner.View()
	}
	return l.spinner.View() + " " + spinnerLabelStyle.Render(l.label)
}

// SetLabel replaces the caption.
func (l *LoadingSpinner) SetLabel(label string) {
	l.label = label
}

// RenderSpinnerCentered places the spinner in the middle of a width x height area.
func RenderSpinnerCentered(s *LoadingSpinner, width, height int) string {
	return styles.CenterBoth(s.View(), width, height)
}
