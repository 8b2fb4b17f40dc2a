// Package report renders the end-of-run summary as a display-width aligned
// table.
package report

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"healthpipe/internal/models"
)

// RenderSummary formats the run aggregate as an aligned two-column table.
func RenderSummary(stats *models.SummaryStats) string {
	rows := [][]string{
		{"Total patients", strconv.Itoa(stats.TotalPatients)},
		{"Total doctors", strconv.Itoa(stats.TotalDoctors)},
		{"Total appointments", strconv.Itoa(stats.TotalAppointments)},
		{"Specialties", strings.Join(stats.Specialties, "; ")},
		{"Date range", stats.DateRange},
		{"Follow-up ratio", stats.FollowUpRatio},
	}

	return RenderTable([]string{"Metric", "Value"}, rows)
}

// RenderTable renders a pipe-delimited table with cells padded to the widest
// entry per column, measured in display width so wide runes stay aligned.
func RenderTable(header []string, rows [][]string) string {
	colCount := len(header)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	colWidths := make([]int, colCount)

	measure := func(row []string) {
		for i := 0; i < len(row) && i < colCount; i++ {
			if w := runewidth.StringWidth(row[i]); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	measure(header)

	for _, row := range rows {
		measure(row)
	}

	// Separator rows need at least three dashes.
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	var sb strings.Builder

	writeRow := func(row []string) {
		sb.WriteString("|")

		for j := 0; j < colCount; j++ {
			content := ""
			if j < len(row) {
				content = row[j]
			}

			sb.WriteString(" ")
			sb.WriteString(content)

			if padding := colWidths[j] - runewidth.StringWidth(content); padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}

			sb.WriteString(" |")
		}

		sb.WriteString("\n")
	}

	writeRow(header)

	sb.WriteString("|")

	for j := 0; j < colCount; j++ {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", colWidths[j]))
		sb.WriteString(" |")
	}

	sb.WriteString("\n")

	for _, row := range rows {
		writeRow(row)
	}

	return sb.String()
}
