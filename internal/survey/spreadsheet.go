package survey

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"
)

// xlsxMIME is the mimetype name of Office Open XML workbooks.
const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// inspectWorkbook fills shape stats from the first sheet of an .xlsx
// workbook. The first row is the header; rows and missing cells cover the
// rest, padded to the widest row. Legacy .xls files are left kind-only.
func inspectWorkbook(st *FileStat) {
	if !strings.HasPrefix(st.MIME, xlsxMIME) {
		return
	}

	f, err := excelize.OpenFile(st.Path)
	if err != nil {
		st.Error = err.Error()
		return
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		st.Error = "workbook has no sheets"
		return
	}
	st.Sheet = sheets[0]

	rows, err := f.GetRows(st.Sheet)
	if err != nil {
		st.Error = errors.Wrapf(err, "reading sheet %s", st.Sheet).Error()
		return
	}
	if len(rows) == 0 {
		return
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	st.Columns = width
	st.Rows = len(rows) - 1
	for _, row := range rows[1:] {
		st.Missing += width - len(row)
		for _, v := range row {
			if strings.TrimSpace(v) == "" {
				st.Missing++
			}
		}
	}
}
