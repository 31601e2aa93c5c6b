package dashboard

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/hannaerdza/titanic-visualization/domain/passenger"
	"github.com/hannaerdza/titanic-visualization/internal/errors"
)

// RowsPerPageOptions are the page sizes the table offers
var RowsPerPageOptions = []int{10, 25, 50, 100}

// DefaultRowsPerPage is the initial page size
const DefaultRowsPerPage = 10

// NotAvailable is shown for missing age, cabin and embarkation port
const NotAvailable = "N/A"

// Window is the page currently displayed
type Window struct {
	Page        int
	RowsPerPage int
}

// Bounds returns the half-open index range [start, end) the window covers within total items
func (w Window) Bounds(total int) (int, int) {
	start := w.Page * w.RowsPerPage
	if start > total {
		start = total
	}
	end := start + w.RowsPerPage
	if end > total {
		end = total
	}
	return start, end
}

// PageCount returns how many pages total items span; an empty set still has one page
func (w Window) PageCount(total int) int {
	if total == 0 || w.RowsPerPage <= 0 {
		return 1
	}
	return (total + w.RowsPerPage - 1) / w.RowsPerPage
}

// Slice returns the items the window covers, never more than RowsPerPage
func Slice[T any](items []T, w Window) []T {
	start, end := w.Bounds(len(items))
	return items[start:end]
}

// TableState is the passenger table's state. Transitions return a new value and never mutate the receiver.
type TableState struct {
	Filter     passenger.Filter
	Window     Window
	Passengers Result[[]passenger.Passenger]
}

// NewTableState returns an unfiltered table on the first page
func NewTableState(rowsPerPage int) TableState {
	if !slices.Contains(RowsPerPageOptions, rowsPerPage) {
		rowsPerPage = DefaultRowsPerPage
	}
	return TableState{Window: Window{RowsPerPage: rowsPerPage}}
}

// WithFilter changes one filter control and returns to the first page
func (t TableState) WithFilter(field passenger.Field, value string) (TableState, error) {
	f, err := t.Filter.With(field, value)
	if err != nil {
		return t, err
	}
	t.Filter = f
	t.Window.Page = 0
	return t, nil
}

// WithFilters replaces every filter control and returns to the first page
func (t TableState) WithFilters(f passenger.Filter) (TableState, error) {
	if err := f.Validate(); err != nil {
		return t, err
	}
	t.Filter = f
	t.Window.Page = 0
	return t, nil
}

// WithoutFilters clears every filter control and returns to the first page
func (t TableState) WithoutFilters() TableState {
	t.Filter = passenger.Filter{}
	t.Window.Page = 0
	return t
}

// WithPage moves to page, which must lie within the current result set
func (t TableState) WithPage(page int) (TableState, error) {
	last := t.Window.PageCount(len(t.Passengers.Data)) - 1
	if page < 0 || page > last {
		return t, errors.InvalidInput(fmt.Sprintf("page %d is out of range 0..%d", page, last))
	}
	t.Window.Page = page
	return t, nil
}

// WithRowsPerPage changes the page size and always returns to the first page
func (t TableState) WithRowsPerPage(rows int) (TableState, error) {
	if !slices.Contains(RowsPerPageOptions, rows) {
		return t, errors.InvalidInput(fmt.Sprintf("rows per page must be one of %v", RowsPerPageOptions))
	}
	t.Window.RowsPerPage = rows
	t.Window.Page = 0
	return t, nil
}

// Row is one passenger formatted for display
type Row struct {
	ID       string
	Name     string
	Survived string
	Class    string
	Sex      string
	Age      string
	SibSp    string
	Parch    string
	Ticket   string
	Fare     string
	Cabin    string
	Embarked string
}

// Columns are the table headers, in Row field order
var Columns = []string{"ID", "Name", "Survived", "Class", "Sex", "Age", "Siblings/Spouses", "Parents/Children", "Ticket", "Fare", "Cabin", "Embarked"}

// Cells returns the row's values in column order
func (r Row) Cells() []string {
	return []string{r.ID, r.Name, r.Survived, r.Class, r.Sex, r.Age, r.SibSp, r.Parch, r.Ticket, r.Fare, r.Cabin, r.Embarked}
}

// FormatRow renders a passenger for the table
func FormatRow(p passenger.Passenger) Row {
	row := Row{
		ID:       strconv.Itoa(p.ID),
		Name:     p.Name,
		Survived: "No",
		Class:    strconv.Itoa(p.Class),
		Sex:      p.Sex,
		Age:      NotAvailable,
		SibSp:    strconv.Itoa(p.SibSp),
		Parch:    strconv.Itoa(p.Parch),
		Ticket:   p.Ticket,
		Fare:     strconv.FormatFloat(p.Fare, 'f', -1, 64),
		Cabin:    NotAvailable,
		Embarked: NotAvailable,
	}
	if p.Survived {
		row.Survived = "Yes"
	}
	if p.Age != nil {
		row.Age = strconv.FormatFloat(*p.Age, 'f', -1, 64)
	}
	if p.Cabin != nil && *p.Cabin != "" {
		row.Cabin = *p.Cabin
	}
	if p.Embarked != nil && *p.Embarked != "" {
		row.Embarked = string(*p.Embarked)
	}
	return row
}

// TableView is everything needed to render the table
type TableView struct {
	Status     Status
	Error      string
	Filter     passenger.Filter
	Rows       []Row
	Page       int
	PageCount  int
	RowsPer    int
	Total      int
	From       int
	To         int
	HasPrev    bool
	HasNext    bool
	RowOptions []int
	Summary    Summary
}

// View renders the state's current page
func (t TableState) View() TableView {
	records := t.Passengers.Data
	page := Slice(records, t.Window)
	rows := make([]Row, 0, len(page))
	for _, p := range page {
		rows = append(rows, FormatRow(p))
	}

	start, end := t.Window.Bounds(len(records))
	pageCount := t.Window.PageCount(len(records))
	view := TableView{
		Status:     t.Passengers.Status,
		Filter:     t.Filter,
		Rows:       rows,
		Page:       t.Window.Page,
		PageCount:  pageCount,
		RowsPer:    t.Window.RowsPerPage,
		Total:      len(records),
		From:       start + 1,
		To:         end,
		HasPrev:    t.Window.Page > 0,
		HasNext:    t.Window.Page < pageCount-1,
		RowOptions: RowsPerPageOptions,
		Summary:    Summarize(records),
	}
	if len(records) == 0 {
		view.From = 0
	}
	if t.Passengers.Status == StatusError {
		view.Error = "Error fetching passenger data"
	}
	return view
}
