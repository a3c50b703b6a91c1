package payroll

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	sheetName   = "Payroll"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeader = []interface{}{"Employee", "Period", "Days Worked", "Pay Rate", "Total Pay"}

// WriteXLSX renders entries as a single sheet workbook followed by a total row.
func WriteXLSX(w io.Writer, entries []*Entry, currency string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("cannot name sheet: %w", err)
	}

	header := append([]interface{}{}, exportHeader...)
	header[3] = fmt.Sprintf("Pay Rate (%s)", currency)
	header[4] = fmt.Sprintf("Total Pay (%s)", currency)
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("cannot write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("cannot create style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "E1", bold); err != nil {
		return fmt.Errorf("cannot style header: %w", err)
	}

	summary := Summarize(entries, currency)
	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			e.EmployeeName,
			e.Period,
			e.DaysWorked,
			e.PayRate.Decimal().InexactFloat64(),
			TotalPay(e.DaysWorked, e.PayRate).Decimal().InexactFloat64(),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("cannot write row %d: %w", i+2, err)
		}
	}

	totalRow := len(entries) + 2
	labelCell, _ := excelize.CoordinatesToCellName(1, totalRow)
	totalCell, _ := excelize.CoordinatesToCellName(5, totalRow)
	if err := f.SetCellValue(sheetName, labelCell, "Total"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, totalCell, summary.TotalPayroll.Decimal().InexactFloat64()); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, labelCell, totalCell, bold); err != nil {
		return err
	}

	if err := f.SetColWidth(sheetName, "A", "B", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "C", "E", 16); err != nil {
		return err
	}

	return f.Write(w)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// ExportFilename turns a free text period like "Oct 16-22, 2025" into a
// download name such as payroll-oct-16-22-2025.xlsx.
func ExportFilename(period string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(period), "-"), "-")
	if slug == "" {
		slug = "all"
	}
	return "payroll-" + slug + ".xlsx"
}
