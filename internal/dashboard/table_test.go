package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hannaerdza/titanic-visualization/domain/passenger"
)

func ids(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestSlice_CoversContiguousWindow(t *testing.T) {
	items := ids(57)

	for _, size := range RowsPerPageOptions {
		w := Window{RowsPerPage: size}
		seen := 0
		for page := 0; page < w.PageCount(len(items)); page++ {
			w.Page = page
			got := Slice(items, w)

			assert.LessOrEqual(t, len(got), size)
			for i, v := range got {
				assert.Equal(t, page*size+i, v, "size %d page %d", size, page)
			}
			seen += len(got)
		}
		assert.Equal(t, len(items), seen, "size %d", size)
	}
}

func TestSlice_PastTheEndIsEmpty(t *testing.T) {
	assert.Empty(t, Slice(ids(5), Window{Page: 3, RowsPerPage: 10}))
	assert.Empty(t, Slice([]int{}, Window{RowsPerPage: 10}))
}

func TestWithRowsPerPage_ResetsPage(t *testing.T) {
	state := NewTableState(10)
	state.Passengers.Data = make([]passenger.Passenger, 95)

	state, err := state.WithPage(7)
	require.NoError(t, err)
	require.Equal(t, 7, state.Window.Page)

	state, err = state.WithRowsPerPage(25)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Window.Page)
	assert.Equal(t, 25, state.Window.RowsPerPage)

	_, err = state.WithRowsPerPage(30)
	assert.Error(t, err)
}

func TestWithPage_Bounds(t *testing.T) {
	state := NewTableState(10)
	state.Passengers.Data = make([]passenger.Passenger, 20)

	_, err := state.WithPage(-1)
	assert.Error(t, err)
	_, err = state.WithPage(2)
	assert.Error(t, err)
	next, err := state.WithPage(1)
	require.NoError(t, err)
	assert.Equal(t, 1, next.Window.Page)
	assert.Equal(t, 0, state.Window.Page, "receiver must not change")
}

func TestWithFilter_ReturnsToFirstPage(t *testing.T) {
	state := NewTableState(10)
	state.Window.Page = 3

	next, err := state.WithFilter(passenger.FieldEmbarked, "C")
	require.NoError(t, err)
	assert.Equal(t, 0, next.Window.Page)
	assert.Equal(t, "C", next.Filter.Embarked)

	cleared := next.WithoutFilters()
	assert.True(t, cleared.Filter.IsEmpty())
}

func TestFormatRow_MissingValuesAreNA(t *testing.T) {
	row := FormatRow(passenger.Passenger{ID: 6, Name: "Moran, Mr. James", Class: 3, Sex: "male", Ticket: "330877", Fare: 8.4583})

	assert.Equal(t, NotAvailable, row.Age)
	assert.Equal(t, NotAvailable, row.Cabin)
	assert.Equal(t, NotAvailable, row.Embarked)
	assert.Equal(t, "No", row.Survived)
	assert.Equal(t, "8.4583", row.Fare)
	assert.Len(t, row.Cells(), len(Columns))
}

func TestFormatRow_PresentValues(t *testing.T) {
	age, cabin, port := 0.42, "C85", passenger.PortCherbourg
	row := FormatRow(passenger.Passenger{ID: 2, Survived: true, Age: &age, Cabin: &cabin, Embarked: &port})

	assert.Equal(t, "Yes", row.Survived)
	assert.Equal(t, "0.42", row.Age)
	assert.Equal(t, "C85", row.Cabin)
	assert.Equal(t, "C", row.Embarked)
}

func TestView_PageFooter(t *testing.T) {
	state := NewTableState(25)
	state.Passengers = Result[[]passenger.Passenger]{Status: StatusSuccess, Data: make([]passenger.Passenger, 60)}
	state.Window.Page = 2

	view := state.View()
	assert.Len(t, view.Rows, 10)
	assert.Equal(t, 51, view.From)
	assert.Equal(t, 60, view.To)
	assert.Equal(t, 3, view.PageCount)
	assert.True(t, view.HasPrev)
	assert.False(t, view.HasNext)
}
