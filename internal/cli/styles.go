// Package cli renders spendwise command output with lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	AccentColor   = lipgloss.Color("#2EC4B6")
	PositiveColor = lipgloss.Color("#6BCB77")
	CautionColor  = lipgloss.Color("#FFD93D")
	NegativeColor = lipgloss.Color("#EF476F")
	NoticeColor   = lipgloss.Color("#8ECAE6")
	MutedColor    = lipgloss.Color("#6C757D")
	FrameColor    = lipgloss.Color("#3A3F44")
)

var (
	// TitleStyle renders box and section titles.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)

	// SuccessStyle, WarningStyle, ErrorStyle and InfoStyle color status lines.
	SuccessStyle = lipgloss.NewStyle().Foreground(PositiveColor)
	WarningStyle = lipgloss.NewStyle().Foreground(CautionColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(NegativeColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(NoticeColor)

	// SubtleStyle de-emphasizes secondary text such as ids and placeholders.
	SubtleStyle = lipgloss.NewStyle().Foreground(MutedColor)

	BoldStyle = lipgloss.NewStyle().Bold(true)

	// BoxStyle frames a report or preview.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(FrameColor).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentColor).PaddingRight(2)
	TableCellStyle   = lipgloss.NewStyle().PaddingRight(2)

	// IconStyle leaves a gap after a leading icon.
	IconStyle = lipgloss.NewStyle().MarginRight(1)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	WalletIcon  = "💸"
	RobotIcon   = "🤖"
	ChartIcon   = "📊"
)

// FormatSuccess prefixes message with a check mark.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError prefixes message with a cross.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning prefixes message with a warning sign.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo prefixes message with an info sign.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle renders a section title.
func FormatTitle(title string) string {
	return TitleStyle.Render(WalletIcon + " " + title)
}

// RenderBox frames content under title.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(title), content))
}
