package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/hannaerdza/titanic-visualization/internal/dashboard"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1f4e79"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4caf50"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// renderPassengers prints one page of the passenger table with its summary and footer
func renderPassengers(w io.Writer, view dashboard.TableView) {
	s := view.Summary
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d passengers, %d survived (%d%%)", s.Count, s.Survivors, s.SurvivalRate)))
	if s.KnownAges > 0 {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Mean age %g, median %g (%d known), mean fare %g", s.MeanAge, s.MedianAge, s.KnownAges, s.MeanFare)))
	}

	t := newTable(dashboard.Columns...)
	for _, row := range view.Rows {
		t.Row(row.Cells()...)
	}
	fmt.Fprintln(w, t.Render())

	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d-%d of %d, page %d of %d, %d rows per page",
		view.From, view.To, view.Total, view.Page+1, view.PageCount, view.RowsPer)))
}

// renderCharts prints the survival analysis as text tables and bars
func renderCharts(w io.Writer, charts dashboard.Charts) {
	fmt.Fprintln(w, titleStyle.Render("Overall survival"))
	survival := newTable("Outcome", "Passengers", "Share")
	for _, slice := range charts.Survival {
		survival.Row(slice.Name, strconv.Itoa(slice.Value), fmt.Sprintf("%d%%", slice.Percent))
	}
	fmt.Fprintln(w, survival.Render())

	fmt.Fprintln(w, titleStyle.Render("Survival rate by class"))
	for _, bar := range charts.RateByClass {
		fmt.Fprintf(w, "%-8s %s %d%%\n", bar.Name, barStyle.Render(strings.Repeat("#", bar.Rate/2)), bar.Rate)
	}
	fmt.Fprintln(w)

	renderStacks(w, "Survival by class", "Class", charts.ByClass)
	renderStacks(w, "Survival by gender", "Gender", charts.ByGender)
}

func renderStacks(w io.Writer, title, group string, bars []dashboard.StackedBar) {
	fmt.Fprintln(w, titleStyle.Render(title))
	t := newTable(group, "Survived", "Did not survive", "Total")
	for _, b := range bars {
		t.Row(b.Name, strconv.Itoa(b.Survived), strconv.Itoa(b.Died), strconv.Itoa(b.Survived+b.Died))
	}
	fmt.Fprintln(w, t.Render())
}
