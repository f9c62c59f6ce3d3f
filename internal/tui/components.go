package tui

import (
	"fmt"
	"strings"

	"github.com/manav03panchal/brewlog/internal/model"
	"github.com/manav03panchal/brewlog/internal/output"
	"github.com/manav03panchal/brewlog/internal/store"
)

// StatsComponent shows the store summary and the active view settings.
type StatsComponent struct {
	Total   int
	Shown   int
	Average float64
	HasData bool
	Filter  store.Filter
	Sort    store.Sort
	Width   int
}

// View renders the stats component.
func (sc *StatsComponent) View() string {
	var content strings.Builder

	content.WriteString(fmt.Sprintf("%s brews  %s  average %s",
		StyleScore.Render(fmt.Sprint(sc.Total)),
		StyleMuted.Render("•"),
		StyleScore.Render(output.FormatAverage(sc.Average, sc.HasData))))
	content.WriteString("\n")

	method := sc.Filter.Method
	if method == "" {
		method = store.MethodAll
	}
	parts := []string{
		"method " + StyleMethod.Render(method),
		fmt.Sprintf("min score %s", output.FormatScore(sc.Filter.MinScore)),
		"sort " + sc.Sort.String(),
	}
	if kw := strings.TrimSpace(sc.Filter.Keyword); kw != "" {
		parts = append(parts, fmt.Sprintf("search %q", kw))
	}
	if sc.Shown != sc.Total {
		parts = append(parts, fmt.Sprintf("showing %d", sc.Shown))
	}
	content.WriteString(StyleSubtitle.Render(strings.Join(parts, "  ")))

	return StyleStatsBox.Width(boxWidth(sc.Width)).Render(content.String())
}

// BrewsComponent lists brews with a cursor and the edit target marked.
type BrewsComponent struct {
	Brews     []*model.Brew
	Cursor    int
	EditingID string
	Width     int
	Height    int
}

// View renders the brews component.
func (bc *BrewsComponent) View() string {
	var content strings.Builder

	content.WriteString(StyleTitle.Render("Brews"))
	content.WriteString("\n")

	if len(bc.Brews) == 0 {
		content.WriteString(StyleMuted.Render("No brews to show"))
	} else {
		start, end := window(len(bc.Brews), bc.Cursor, bc.Height)
		for i := start; i < end; i++ {
			if i > start {
				content.WriteString("\n")
			}
			content.WriteString(bc.renderBrew(bc.Brews[i], i == bc.Cursor))
		}
	}

	box := StyleBrewsBox
	if bc.EditingID != "" {
		box = StyleEditBox
	}
	return box.Width(boxWidth(bc.Width)).Render(content.String())
}

func (bc *BrewsComponent) renderBrew(b *model.Brew, selected bool) string {
	marker := "  "
	switch {
	case b.ID == bc.EditingID:
		marker = StyleEditing.Render("✎ ")
	case selected:
		marker = StyleSelected.Render("> ")
	}

	line := fmt.Sprintf("%s%s  %s  %s  %s %s",
		marker,
		StyleBean.Render(b.Bean),
		StyleMethod.Render(b.Method),
		b.Ratio,
		ScoreBar(b.Score, 10),
		StyleScore.Render(output.FormatScore(b.Score)))

	detail := "    " + output.FormatTime(b.CreatedAt)
	if b.Notes != "" {
		detail += "  " + StyleNote.Render(output.Truncate(b.Notes, 60))
	}
	return line + "\n" + StyleSubtitle.Render(detail)
}

// window returns the slice of rows to show so the cursor stays visible.
func window(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}

func boxWidth(width int) int {
	if width > 4 {
		return width - 4
	}
	return 0
}

// HelpBar renders the help bar at the bottom.
func HelpBar(editing bool) string {
	keys := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "move"},
		{"m", "method"},
		{"+/-", "min score"},
		{"s", "sort"},
		{"o", "order"},
		{"/", "search"},
		{"r", "reset"},
		{"e", "edit"},
		{"d", "delete"},
		{"q", "quit"},
	}
	if editing {
		keys = []struct {
			key  string
			desc string
		}{
			{"</>", "score ±0.5"},
			{"enter", "save"},
			{"esc", "cancel"},
		}
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, StyleHelpKey.Render(k.key)+" "+StyleHelpDesc.Render(k.desc))
	}

	return StyleHelp.Render(strings.Join(parts, "  •  "))
}
