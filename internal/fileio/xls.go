package fileio

import (
	"bytes"
	"errors"
	"io"
	"strings"

	xls "github.com/extrame/xls"
)

const xlsProbeCols = 64

func normalizeCell(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\u00A0", " ", "\u202F", " ").Replace(s))
}

// ширина таблицы: Row.LastCol() в старых .xls врёт, считаем сами
func xlsWidth(sheet *xls.WorkSheet) int {
	width := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		for j := 0; j < xlsProbeCols; j++ {
			if normalizeCell(row.Col(j)) != "" && j+1 > width {
				width = j + 1
			}
		}
	}
	if width == 0 {
		width = 1
	}
	return width
}

// readXLS reads the first sheet of a legacy .xls workbook.
func readXLS(r io.Reader, headerRow int) ([]map[string]string, error) {
	if headerRow <= 0 {
		return nil, errors.New("headerRow must be 1-based and >= 1")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var (
		wb      *xls.WorkBook
		lastErr error
	)
	for _, ch := range []string{"utf-8", "windows-1251"} {
		wb, lastErr = xls.OpenReader(bytes.NewReader(b), ch)
		if lastErr == nil && wb != nil {
			break
		}
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = errors.New("xls: failed to open workbook")
		}
		return nil, lastErr
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	width := xlsWidth(sheet)
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		cols := make([]string, width)
		if row != nil {
			for j := range cols {
				cols[j] = normalizeCell(row.Col(j))
			}
		}
		rows = append(rows, cols)
	}
	return tableToMaps(rows, headerRow)
}
