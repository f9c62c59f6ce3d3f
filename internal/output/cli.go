package output

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/brewlog/internal/model"
	"github.com/manav03panchal/brewlog/internal/store"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary = lipgloss.Color("#B45309") // Roast brown
	colorAccent  = lipgloss.Color("#10B981") // Green
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorError   = lipgloss.Color("#EF4444") // Red

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorAccent)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleBean = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleMethod = lipgloss.NewStyle().
			Foreground(colorAccent)

	styleNote = lipgloss.NewStyle().
			Italic(true).
			Foreground(colorMuted)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) render(style lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// Bean formats a bean name.
func (c *CLIFormatter) Bean(name string) string {
	return c.render(styleBean, name)
}

// Method formats a brew method.
func (c *CLIFormatter) Method(name string) string {
	return c.render(styleMethod, name)
}

// Note formats brew notes.
func (c *CLIFormatter) Note(text string) string {
	return c.render(styleNote, text)
}

// Score formats a score, colored by how good it is.
func (c *CLIFormatter) Score(score float64) string {
	text := FormatScore(score) + "/10"
	if !c.IsColorEnabled() {
		return text
	}
	switch {
	case score >= 8:
		return styleSuccess.Render(text)
	case score < 5:
		return styleError.Render(text)
	}
	return styleWarning.Render(text)
}

// PrintBrew prints a single brew in detail.
func (c *CLIFormatter) PrintBrew(b *model.Brew) {
	c.Printf("%s  %s  %s\n", c.Bean(b.Bean), c.Method(b.Method), c.Score(b.Score))
	c.Printf("  ID: %s\n", b.ID)
	c.Printf("  Ratio: %s\n", b.Ratio)
	if b.Notes != "" {
		c.Printf("  Notes: %s\n", c.Note(b.Notes))
	}
	c.Printf("  Brewed: %s\n", FormatTime(b.CreatedAt))
}

// PrintBrewAdded prints confirmation of a new brew.
func (c *CLIFormatter) PrintBrewAdded(b *model.Brew) {
	c.Success("Logged " + b.Bean)
	c.PrintBrew(b)
}

// PrintBrewUpdated prints confirmation of an edited brew.
func (c *CLIFormatter) PrintBrewUpdated(b *model.Brew) {
	c.Success("Updated " + b.Bean)
	c.PrintBrew(b)
}

// PrintBrews prints brews as a table followed by a summary line. total is
// the number of stored brews and avg is the average over all of them.
func (c *CLIFormatter) PrintBrews(brews []*model.Brew, total int, avg float64, hasAvg bool) {
	if len(brews) == 0 {
		if total == 0 {
			c.Muted("No brews logged yet.")
			c.Muted("Use 'brewlog add --bean <name> --method <method> --ratio 1:15 --score 8' to log one.")
		} else {
			c.Muted("No brews match the current filters.")
		}
		return
	}

	rows := make([]TableRow, len(brews))
	for i, b := range brews {
		rows[i] = TableRow{Columns: []string{
			ShortID(b.ID),
			FormatDate(b.CreatedAt),
			b.Bean,
			b.Method,
			b.Ratio,
			FormatScore(b.Score),
			Truncate(b.Notes, 40),
		}}
	}
	c.PrintTable([]string{"ID", "DATE", "BEAN", "METHOD", "RATIO", "SCORE", "NOTES"}, rows)

	c.Println()
	c.Muted(fmt.Sprintf("Showing %d of %d brews · average score %s",
		len(brews), total, FormatAverage(avg, hasAvg)))
}

// PrintStats prints a summary of all brews.
func (c *CLIFormatter) PrintStats(stats store.Stats) {
	c.Title("Brew stats")
	c.Printf("  Brews: %d\n", stats.Count)
	c.Printf("  Average score: %s\n", c.render(styleBold, FormatAverage(stats.Average, stats.HasData)))
	if !stats.HasData {
		return
	}
	if stats.Best != nil {
		c.Printf("  Best: %s (%s, %s)\n", c.Bean(stats.Best.Bean), stats.Best.Method, c.Score(stats.Best.Score))
	}
	if stats.Latest != nil {
		c.Printf("  Latest: %s on %s\n", c.Bean(stats.Latest.Bean), FormatTime(stats.Latest.CreatedAt))
	}

	c.Println()
	c.Title("By method")
	width := 0
	for _, ms := range stats.ByMethod {
		if n := utf8.RuneCountInString(ms.Method); n > width {
			width = n
		}
	}
	for _, ms := range stats.ByMethod {
		bar := ProgressBar(ms.Average*10, 20)
		c.Printf("  %-*s  %s %s  (%d brews)\n", width, ms.Method, bar, FormatAverage(ms.Average, true), ms.Count)
	}
}

// PrintImportReport prints the outcome of an import.
func (c *CLIFormatter) PrintImportReport(report store.ImportReport) {
	verb := "Imported"
	if report.DryRun {
		verb = "Would import"
	}
	msg := fmt.Sprintf("%s %d brews (%s)", verb, report.Written, report.Mode)
	if report.Skipped > 0 {
		msg += fmt.Sprintf(", skipped %d invalid", report.Skipped)
	}
	c.Success(msg)
	c.Muted(fmt.Sprintf("  %d brews stored after import", report.Resulting))

	for _, r := range report.Rejections {
		line := fmt.Sprintf("  item %d: %s", r.Index, r.Reason)
		if r.Field != "" {
			line += " (" + r.Field + ")"
		}
		c.Muted(line)
	}
}

// PrintExported prints confirmation of an export file.
func (c *CLIFormatter) PrintExported(path string, count int) {
	c.Success(fmt.Sprintf("Exported %d brews to %s", count, path))
}

// PrintDeleted prints confirmation of a deleted brew.
func (c *CLIFormatter) PrintDeleted(b *model.Brew) {
	c.Success(fmt.Sprintf("Deleted %s (%s)", b.Bean, ShortID(b.ID)))
}

// PrintNotFound prints a notice for a stale or unknown id.
func (c *CLIFormatter) PrintNotFound(ref string) {
	c.Muted(fmt.Sprintf("No brew matches %q.", ref))
	c.Muted("Use 'brewlog list' to see brew IDs.")
}

// Truncate shortens s to max characters, ending with "…" when cut.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 1 {
		return string([]rune(s)[:max])
	}
	return string([]rune(s)[:max-1]) + "…"
}

// ProgressBar creates a simple progress bar.
func ProgressBar(percentage float64, width int) string {
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	filled := int(float64(width) * percentage / 100)
	empty := width - filled

	return strings.Repeat("█", filled) + strings.Repeat("░", empty)
}

// TableRow is one row of a CLI table.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if n := utf8.RuneCountInString(col); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}

	line := func(cols []string) string {
		var sb strings.Builder
		for i, col := range cols {
			if i >= len(widths) {
				break
			}
			sb.WriteString(col)
			if i < len(cols)-1 {
				sb.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(col)+2))
			}
		}
		return sb.String()
	}

	c.Println(c.render(styleBold, line(headers)))

	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("─", w)
	}
	c.Println(line(seps))

	for _, row := range rows {
		c.Println(line(row.Columns))
	}
}
