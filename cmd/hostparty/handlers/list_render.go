package handlers

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/hostparty/hostparty/internal/inventory"
)

var (
	listColorBlue = lipgloss.Color("#3b82f6")
	listColorDim  = lipgloss.Color("#6b7280")
)

var (
	listSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(listColorBlue)

	listHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	listCellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	listBorderStyle = lipgloss.NewStyle().
			Foreground(listColorDim)
)

// renderList produces the tables printed by the list command. Orphan
// sections are only printed when they have rows.
func renderList(sorted inventory.Sorted) string {
	var b strings.Builder

	complete := make([][]string, 0, len(sorted.Complete))
	for _, row := range sorted.Complete {
		complete = append(complete, row.Cells())
	}
	b.WriteString(renderTable(inventory.CompleteHeaders, complete))
	b.WriteString("\n")

	if len(sorted.OrphanedInstances) > 0 {
		rows := make([][]string, 0, len(sorted.OrphanedInstances))
		for _, row := range sorted.OrphanedInstances {
			rows = append(rows, row.Cells())
		}
		renderSection(&b, "ORPHANED INSTANCES", inventory.OrphanedInstanceHeaders, rows)
	}

	if len(sorted.OrphanedRecords) > 0 {
		rows := make([][]string, 0, len(sorted.OrphanedRecords))
		for _, row := range sorted.OrphanedRecords {
			rows = append(rows, row.Cells())
		}
		renderSection(&b, "ORPHANED DOMAINS", inventory.OrphanedRecordHeaders, rows)
	}

	return b.String()
}

func renderSection(b *strings.Builder, title string, headers []string, rows [][]string) {
	b.WriteString("\n")
	b.WriteString(listSectionStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(renderTable(headers, rows))
	b.WriteString("\n")
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(listBorderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return listHeaderStyle
			}
			return listCellStyle
		})
	return t.String()
}
