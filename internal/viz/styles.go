package viz

import "github.com/charmbracelet/lipgloss"

var (
	canvasStyle      = lipgloss.NewStyle().Padding(1, 2)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	overStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// compartmentColors follow the warm-to-cool palette of the original bubble
// chart, one per compartment in state order.
var compartmentColors = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("39")),  // S
	lipgloss.NewStyle().Foreground(lipgloss.Color("220")), // E
	lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // Ia_uk
	lipgloss.NewStyle().Foreground(lipgloss.Color("208")), // Ia_k
	lipgloss.NewStyle().Foreground(lipgloss.Color("202")), // Is_nh
	lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // Is_h
	lipgloss.NewStyle().Foreground(lipgloss.Color("42")),  // R
	lipgloss.NewStyle().Foreground(lipgloss.Color("245")), // D
}
