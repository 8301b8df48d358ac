package fileio

import (
	"io"

	excelize "github.com/xuri/excelize/v2"
)

// readXLSX reads the first sheet of an .xlsx workbook.
func readXLSX(r io.Reader, headerRow int) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	return tableToMaps(rows, headerRow)
}
