package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Veraticus/spendwise/internal/model"
)

const dateLayout = "2006-01-02"

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
}

// RenderExpenses renders expenses as a table, newest first as given.
func RenderExpenses(expenses []model.Expense) string {
	if len(expenses) == 0 {
		return SubtleStyle.Render("No expenses found")
	}

	t := newTable("DATE", "AMOUNT", "CATEGORY", "NOTE", "ID")
	for _, exp := range expenses {
		t.Row(
			exp.Date.Format(dateLayout),
			exp.Amount.StringFixed(2),
			exp.CategoryName,
			truncate(exp.Note, 40),
			exp.ID,
		)
	}
	return t.Render()
}

// RenderCategories renders categories with their expense counts. counts may
// be nil.
func RenderCategories(categories []model.Category, counts map[string]int) string {
	if len(categories) == 0 {
		return SubtleStyle.Render("No categories found")
	}

	t := newTable("", "NAME", "EXPENSES", "ID")
	for _, cat := range categories {
		name := cat.Name
		if cat.IsOther() {
			name += SubtleStyle.Render(" (default)")
		}
		count := ""
		if counts != nil {
			count = strconv.Itoa(counts[cat.ID])
		}
		t.Row(cat.Emoji, name, count, cat.ID)
	}
	return t.Render()
}

// RenderReport renders a report's per-category totals and grand total.
func RenderReport(report *model.Report) string {
	title := fmt.Sprintf("%s to %s", report.Start.Format(dateLayout), report.End.Format(dateLayout))
	if report.Count == 0 {
		return RenderBox(title, SubtleStyle.Render("No expenses in this period"))
	}

	t := newTable("", "CATEGORY", "COUNT", "TOTAL")
	for _, ct := range report.ByCategory {
		t.Row(ct.Emoji, ct.CategoryName, strconv.Itoa(ct.Count), ct.Total.StringFixed(2))
	}

	summary := BoldStyle.Render(fmt.Sprintf("Total: %s across %d expenses", report.Total.StringFixed(2), report.Count))
	return RenderBox(title, lipgloss.JoinVertical(lipgloss.Left, t.Render(), summary))
}

// RenderPreview renders the category a note would get and the ranked
// alternatives.
func RenderPreview(note string, preview model.Preview) string {
	icon := ChartIcon
	if preview.AIPowered {
		icon = RobotIcon
	}

	var b strings.Builder
	b.WriteString(IconStyle.Render(icon))
	b.WriteString(BoldStyle.Render(fmt.Sprintf("%s %s", preview.Emoji, preview.CategoryName)))
	if preview.CategoryID == "" {
		b.WriteString(SubtleStyle.Render(" (no match)"))
	}
	b.WriteString("\n")
	b.WriteString(RenderSuggestions(preview.Suggestions))

	return RenderBox(truncate(note, 60), b.String())
}

// RenderSuggestions renders one line per suggestion.
func RenderSuggestions(suggestions model.Suggestions) string {
	if len(suggestions) == 0 {
		return SubtleStyle.Render("No suggestions")
	}

	lines := make([]string, 0, len(suggestions))
	for i, s := range suggestions {
		lines = append(lines, fmt.Sprintf("%d. %s %s", i+1, s.Name,
			SubtleStyle.Render(strconv.FormatFloat(s.Confidence, 'f', -1, 64))))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
