package dashboard

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/montanaflynn/stats"

	"github.com/hannaerdza/titanic-visualization/domain/passenger"
)

const (
	LabelSurvived    = "Survived"
	LabelNotSurvived = "Did not survive"
)

// PieSlice is one segment of the overall survival pie
type PieSlice struct {
	Name    string `json:"name"`
	Value   int    `json:"value"`
	Percent int    `json:"percent"`
}

// RateBar is a survival rate in whole percent
type RateBar struct {
	Name string `json:"name"`
	Rate int    `json:"rate"`
}

// StackedBar splits a group into survivors and non-survivors
type StackedBar struct {
	Name     string `json:"name"`
	Survived int    `json:"survived"`
	Died     int    `json:"died"`
}

// Charts is the view-model behind the survival analysis tab
type Charts struct {
	Survival    []PieSlice   `json:"survival"`
	RateByClass []RateBar    `json:"rate_by_class"`
	ByClass     []StackedBar `json:"by_class"`
	ByGender    []StackedBar `json:"by_gender"`
}

// BuildCharts derives every chart from a statistics payload
func BuildCharts(s passenger.Statistics) Charts {
	died := s.Total.Passengers - s.Total.Survivors
	charts := Charts{
		Survival: []PieSlice{
			{Name: LabelSurvived, Value: s.Total.Survivors, Percent: percent(s.Total.Survivors, s.Total.Passengers)},
			{Name: LabelNotSurvived, Value: died, Percent: percent(died, s.Total.Passengers)},
		},
		RateByClass: make([]RateBar, 0, len(s.ByClass)),
		ByClass:     make([]StackedBar, 0, len(s.ByClass)),
		ByGender:    make([]StackedBar, 0, len(s.ByGender)),
	}

	for _, c := range s.ByClass {
		name := fmt.Sprintf("Class %d", c.Class)
		charts.RateByClass = append(charts.RateByClass, RateBar{Name: name, Rate: percent(c.Survived, c.Total)})
		charts.ByClass = append(charts.ByClass, StackedBar{Name: name, Survived: c.Survived, Died: c.Total - c.Survived})
	}
	for _, g := range s.ByGender {
		charts.ByGender = append(charts.ByGender, StackedBar{Name: capitalize(g.Gender), Survived: g.Survived, Died: g.Total - g.Survived})
	}
	return charts
}

// MaxStack returns the tallest stacked bar, used to scale bar heights
func MaxStack(bars []StackedBar) int {
	tallest := 0
	for _, b := range bars {
		if b.Survived+b.Died > tallest {
			tallest = b.Survived + b.Died
		}
	}
	return tallest
}

// percent returns round(part/whole*100), or 0 for an empty whole
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	rounded, err := stats.Round(float64(part)/float64(whole)*100, 0)
	if err != nil {
		return 0
	}
	return int(rounded)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// ChartsView is the statistics slot as the view sees it
type ChartsView struct {
	Status Status
	Error  string
	Charts Charts
}

// NewChartsView renders a statistics result. A failed fetch is an explicit error, not a spinner.
func NewChartsView(r Result[*passenger.Statistics]) ChartsView {
	view := ChartsView{Status: r.Status}
	switch {
	case r.Status == StatusError:
		view.Error = "Error fetching statistics"
	case r.Status == StatusSuccess && r.Data != nil:
		view.Charts = BuildCharts(*r.Data)
	}
	return view
}
