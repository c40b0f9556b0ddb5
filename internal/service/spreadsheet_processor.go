package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"document-qa-server/internal/domain"

	"github.com/extrame/xls"
	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"
)

const (
	missingCell     = "NaN"
	columnSeparator = "  "
)

// SpreadsheetProcessor reads the first sheet of a workbook and renders it as
// an aligned text table: first row as header, 0-based row index on the left.
type SpreadsheetProcessor struct {
	logger domain.Logger
}

// NewSpreadsheetProcessor creates a new spreadsheet processor
func NewSpreadsheetProcessor(logger domain.Logger) *SpreadsheetProcessor {
	return &SpreadsheetProcessor{logger: logger}
}

// ExtractXLSX handles Office Open XML workbooks.
func (s *SpreadsheetProcessor) ExtractXLSX(_ context.Context, fileBytes []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(fileBytes))
	if err != nil {
		return "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return "", fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	s.logger.Debug("Read xlsx sheet", "sheet", sheet, "rows", len(rows))

	return renderTable(trimTrailingEmptyRows(rows)), nil
}

// ExtractXLS handles legacy BIFF workbooks.
func (s *SpreadsheetProcessor) ExtractXLS(_ context.Context, fileBytes []byte) (text string, err error) {
	// The BIFF parser panics on truncated or foreign input.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse xls workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(fileBytes), "utf-8")
	if err != nil {
		return "", fmt.Errorf("failed to open workbook: %w", err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return "", fmt.Errorf("workbook has no sheets")
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	s.logger.Debug("Read xls sheet", "sheet", sheet.Name, "rows", len(rows))

	return renderTable(trimTrailingEmptyRows(rows)), nil
}

func trimTrailingEmptyRows(rows [][]string) [][]string {
	for len(rows) > 0 && isEmptyRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// renderTable lays rows out as a text table. The first row names the columns;
// blank names become "Unnamed: N" and repeated names get a ".N" suffix.
func renderTable(rows [][]string) string {
	if len(rows) == 0 {
		return "Empty DataFrame\nColumns: []\nIndex: []"
	}

	numCols := 0
	for _, row := range rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}
	header := columnNames(rows[0], numCols)
	data := rows[1:]

	if len(data) == 0 {
		return "Empty DataFrame\nColumns: [" + strings.Join(header, ", ") + "]\nIndex: []"
	}

	index := make([]string, len(data))
	indexWidth := 0
	for i := range data {
		index[i] = strconv.Itoa(i)
		if w := runewidth.StringWidth(index[i]); w > indexWidth {
			indexWidth = w
		}
	}

	cells := make([][]string, len(data))
	widths := make([]int, numCols)
	for c, name := range header {
		widths[c] = runewidth.StringWidth(name)
	}
	for r, row := range data {
		cells[r] = make([]string, numCols)
		for c := 0; c < numCols; c++ {
			value := missingCell
			if c < len(row) {
				if v := strings.TrimSpace(row[c]); v != "" {
					value = v
				}
			}
			cells[r][c] = value
			if w := runewidth.StringWidth(value); w > widths[c] {
				widths[c] = w
			}
		}
	}

	var sb strings.Builder
	writeLine := func(label string, values []string) {
		sb.WriteString(runewidth.FillRight(label, indexWidth))
		for c, v := range values {
			sb.WriteString(columnSeparator)
			sb.WriteString(runewidth.FillLeft(v, widths[c]))
		}
	}

	writeLine("", header)
	for r := range cells {
		sb.WriteString("\n")
		writeLine(index[r], cells[r])
	}
	return sb.String()
}

func columnNames(headerRow []string, numCols int) []string {
	names := make([]string, numCols)
	seen := make(map[string]int, numCols)
	for c := 0; c < numCols; c++ {
		name := ""
		if c < len(headerRow) {
			name = strings.TrimSpace(headerRow[c])
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(c)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		names[c] = name
	}
	return names
}
