package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const sparkChars = " .:-=+*#%@"

const dateLayout = "2006-01-02"

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// FormatNumber prints v without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatAverage prints an average with one decimal, or "-" when absent.
func FormatAverage(v float64, weeks int) string {
	if weeks <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}

// WeekTitle labels the report week with its inclusive last day.
func WeekTitle(r Report) string {
	last := r.Week.EndDate.AddDate(0, 0, -1)
	return fmt.Sprintf("Week %s - %s (vs. avg of last %d weeks)",
		r.Week.StartDate.Format(dateLayout), last.Format(dateLayout), r.WeeksBack)
}

// TableColumns are the headers of the weekly table.
var TableColumns = []string{"Exercise", "Failure", "Avg", "Change", "Volume", "Avg", "Change", "Max", "Trend"}

// TableRows converts report rows into display cells.
func TableRows(r Report) [][]string {
	rows := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, []string{
			row.Stat.ExerciseName,
			strconv.Itoa(row.Stat.TotalFailureSets),
			FormatAverage(row.Historical.FailureSets.Value, row.Historical.FailureSets.Weeks),
			row.FailureSets.Change(),
			FormatNumber(row.Stat.TotalVolume),
			FormatAverage(row.Historical.Volume.Value, row.Historical.Volume.Weeks),
			row.Volume.Change(),
			FormatNumber(row.Stat.MaxWeight),
			Sparkline(row.Trend),
		})
	}
	return rows
}

// RenderReport prints the weekly table.
func RenderReport(w io.Writer, r Report) error {
	if _, err := fmt.Fprintln(w, WeekTitle(r)); err != nil {
		return err
	}
	if len(r.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No sets logged this week.")
		return err
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true}
	return WriteTable(w, TableColumns, TableRows(r), rightAlign)
}
