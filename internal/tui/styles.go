package tui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	colorLeaf  = lipgloss.Color("#2ECC71")
	colorWater = lipgloss.Color("#3498DB")
	colorSky   = lipgloss.Color("#7AA2F7")
	colorSun   = lipgloss.Color("#F39C12")
	colorWilt  = lipgloss.Color("#E74C3C")
	colorText  = lipgloss.Color("#C0CAF5")
	colorSoil  = lipgloss.Color("#414868")
	colorDim   = lipgloss.Color("#666666")
	colorInk   = lipgloss.Color("#1A1B26")
)

func banner(fg, bg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(fg).Background(bg).Padding(0, 1)
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorLeaf).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorLeaf).
			Padding(0, 2)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSoil).
			Padding(1, 2)
	activePanelStyle = panelStyle.BorderForeground(colorLeaf)

	bannerSuccessStyle = banner(colorInk, colorLeaf)
	bannerInfoStyle    = banner(colorInk, colorSky)
	bannerErrorStyle   = banner(lipgloss.Color("#FFFFFF"), colorWilt)

	// Calendar day boxes
	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorSoil).
			Width(9).
			Align(lipgloss.Center)
	cellWaterStyle    = cellStyle.BorderForeground(colorWater)
	cellTodayStyle    = cellStyle.BorderForeground(colorLeaf).Bold(true)
	cellSelectedStyle = cellStyle.BorderForeground(colorSky).Bold(true)

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	brandStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorLeaf)
	waterStyle     = lipgloss.NewStyle().Foreground(colorWater)
	successStyle   = lipgloss.NewStyle().Foreground(colorLeaf)
	warningStyle   = lipgloss.NewStyle().Foreground(colorSun)
	errorStyle     = lipgloss.NewStyle().Foreground(colorWilt)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorDim)
	highlightStyle = lipgloss.NewStyle().Foreground(colorSky)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().Foreground(colorLeaf).Bold(true)
	normalItemStyle   = lipgloss.NewStyle().Foreground(colorText)
)
