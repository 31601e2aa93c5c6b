package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hannaerdza/titanic-visualization/internal"
	"github.com/hannaerdza/titanic-visualization/internal/errors"
)

// DataReader turns an uploaded file into CSV bytes the passenger API accepts.
// CSV files pass through untouched; xlsx workbooks are flattened from their first sheet.
type DataReader struct {
	filename string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader picks the file type from the extension
func NewDataReader(filename string, logger *internal.Logger) *DataReader {
	fileType := "csv"
	if IsWorkbook(filename) {
		fileType = "xlsx"
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{filename: filename, fileType: fileType, logger: logger}
}

// IsWorkbook reports whether the file name has an Excel workbook extension
func IsWorkbook(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".xlsx")
}

// IsSupported reports whether the file can be uploaded at all
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".csv" || ext == ".xlsx"
}

// CSVName returns the file name the upload is sent under
func (r *DataReader) CSVName() string {
	if r.fileType != "xlsx" {
		return r.filename
	}
	return strings.TrimSuffix(r.filename, filepath.Ext(r.filename)) + ".csv"
}

// ReadCSV returns the CSV content of src
func (r *DataReader) ReadCSV(src io.Reader) ([]byte, error) {
	if r.fileType == "csv" {
		return io.ReadAll(src)
	}
	return r.readExcelData(src)
}

// readExcelData flattens the first worksheet into CSV
func (r *DataReader) readExcelData(src io.Reader) ([]byte, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("failed to open Excel file: %v", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput("Excel file has no worksheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheets[0])
	}
	if len(rows) < 2 {
		return nil, errors.InvalidInput("Excel file must have at least a header row and one data row")
	}

	width := len(rows[0])
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		// GetRows trims trailing empty cells
		if len(row) < width {
			row = append(row, make([]string, width-len(row))...)
		}
		if err := w.Write(row); err != nil {
			return nil, errors.Wrap(err, "failed to write CSV row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to flush CSV")
	}

	r.logger.Info("[DataReader] Converted sheet %s of %s to CSV (%d rows)", sheets[0], r.filename, len(rows)-1)
	return buf.Bytes(), nil
}
