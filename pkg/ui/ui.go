// Package ui renders terminal output: the banner, colored status lines
// and the capability and summary tables.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/models"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/providers"
)

// ASCII logo for the application
const ASCIILogo = `
   ██████╗ █████╗ ████████╗ ██████╗ ██╗██████╗ ██╗
  ██╔════╝██╔══██╗╚══██╔══╝██╔════╝ ██║██╔══██╗██║
  ██║     ███████║   ██║   ██║  ███╗██║██████╔╝██║
  ██║     ██╔══██║   ██║   ██║   ██║██║██╔══██╗██║
  ╚██████╗██║  ██║   ██║   ╚██████╔╝██║██║  ██║███████╗
   ╚═════╝╚═╝  ╚═╝   ╚═╝    ╚═════╝ ╚═╝╚═╝  ╚═╝╚══════╝
          themed image fetcher /=^.^=\
`

var (
	pink     = lipgloss.Color("#FF10F0")
	cyan     = lipgloss.Color("#00FFFF")
	yellow   = lipgloss.Color("#FFFF00")
	green    = lipgloss.Color("#39FF14")
	red      = lipgloss.Color("#FF5555")
	dimWhite = lipgloss.Color("#B0B0B0")

	logoStyle    = lipgloss.NewStyle().Foreground(pink).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(cyan).Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	dimStyle     = lipgloss.NewStyle().Foreground(dimWhite)
	labelStyle   = lipgloss.NewStyle().Foreground(cyan)
	valueStyle   = lipgloss.NewStyle().Foreground(yellow)
	successStyle = lipgloss.NewStyle().Foreground(green).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(yellow)
	errorStyle   = lipgloss.NewStyle().Foreground(red).Bold(true)
	borderStyle  = lipgloss.NewStyle().Foreground(pink)
)

// PrintBanner prints the logo.
func PrintBanner() {
	fmt.Println(logoStyle.Render(ASCIILogo))
}

// PrintError prints an error message in red.
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Println(errorStyle.Render("error: " + msg))
}

// PrintWarning prints a warning message in yellow.
func PrintWarning(msg string) {
	fmt.Println(warningStyle.Render("warning: " + msg))
}

// PrintSuccess prints a success message in green.
func PrintSuccess(msg string) {
	fmt.Println(successStyle.Render(msg))
}

// PrintInfo prints a labeled value.
func PrintInfo(label, value string) {
	fmt.Printf("%s: %s\n", labelStyle.Render(label), valueStyle.Render(value))
}

func newTable(headers ...string) *table.Table {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if len(headers) > 0 {
		t = t.Headers(headers...)
	}
	return t
}

// ProvidersTable renders the provider capability listing.
func ProvidersTable(rows []providers.ProviderRow) string {
	t := newTable("PROVIDER", "THEMES", "RATING FILTER", "NOTES", "STATUS")
	for _, row := range rows {
		t.Row(row.Name, row.Themes, row.RatingFilter, row.RatingNotes, row.Status)
	}
	return t.Render()
}

// CategoriesTable renders provider-to-theme mappings.
func CategoriesTable(mappings [][2]string) string {
	t := newTable("PROVIDER", "THEMES")
	for _, mapping := range mappings {
		t.Row(mapping[0], mapping[1])
	}
	return t.Render()
}

// SettingsTable renders key/value pairs, used by the interactive shell.
func SettingsTable(pairs [][2]string) string {
	t := newTable("SETTING", "VALUE")
	for _, pair := range pairs {
		t.Row(pair[0], pair[1])
	}
	return t.Render()
}

// SummaryStatus describes how a run ended as a whole.
func SummaryStatus(summary models.DownloadSummary) string {
	switch {
	case summary.Downloaded > 0 && summary.Failed == 0:
		return "success"
	case summary.Downloaded > 0:
		return "partial"
	default:
		return "failed"
	}
}

// RenderSummary renders the end-of-run report.
func RenderSummary(summary models.DownloadSummary) string {
	status := SummaryStatus(summary)
	var statusLine string
	switch status {
	case "success":
		statusLine = successStyle.Render("SUCCESS")
	case "partial":
		statusLine = warningStyle.Render("PARTIAL")
	default:
		statusLine = errorStyle.Render("FAILED")
	}

	t := newTable()
	t.Row("status", statusLine)
	t.Row("requested", fmt.Sprintf("%d", summary.Requested))
	t.Row("downloaded", fmt.Sprintf("%d", summary.Downloaded))
	t.Row("failed", fmt.Sprintf("%d", summary.Failed))
	t.Row("duplicates", fmt.Sprintf("%d", summary.Duplicates))
	t.Row("output", dimStyle.Render(summary.OutputDir))
	return t.Render()
}
