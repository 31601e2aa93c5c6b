package excel

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hannaerdza/titanic-visualization/internal"
	"github.com/hannaerdza/titanic-visualization/internal/errors"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadCSV_PassesCSVThrough(t *testing.T) {
	r := NewDataReader("train.csv", internal.NewNopLogger())

	out, err := r.ReadCSV(strings.NewReader("PassengerId,Name\n1,\"Braund, Mr. Owen Harris\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "PassengerId,Name\n1,\"Braund, Mr. Owen Harris\"\n", string(out))
	assert.Equal(t, "train.csv", r.CSVName())
}

func TestReadCSV_ConvertsWorkbook(t *testing.T) {
	src := workbook(t, [][]interface{}{
		{"PassengerId", "Survived", "Name", "Cabin"},
		{1, 0, "Braund, Mr. Owen Harris", ""},
		{2, 1, "Cumings, Mrs. John Bradley", "C85"},
	})
	r := NewDataReader("Train.XLSX", internal.NewNopLogger())

	out, err := r.ReadCSV(src)
	require.NoError(t, err)

	assert.Equal(t, "Train.csv", r.CSVName())
	assert.Equal(t,
		"PassengerId,Survived,Name,Cabin\n"+
			"1,0,\"Braund, Mr. Owen Harris\",\n"+
			"2,1,\"Cumings, Mrs. John Bradley\",C85\n",
		string(out))
}

func TestReadCSV_RejectsHeaderOnlyWorkbook(t *testing.T) {
	src := workbook(t, [][]interface{}{{"PassengerId", "Survived"}})

	_, err := NewDataReader("empty.xlsx", internal.NewNopLogger()).ReadCSV(src)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestReadCSV_RejectsCorruptWorkbook(t *testing.T) {
	_, err := NewDataReader("broken.xlsx", internal.NewNopLogger()).ReadCSV(strings.NewReader("not a zip"))
	assert.Error(t, err)
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("a.csv"))
	assert.True(t, IsSupported("a.XLSX"))
	assert.False(t, IsSupported("a.xls"))
	assert.False(t, IsSupported("a.txt"))
}
