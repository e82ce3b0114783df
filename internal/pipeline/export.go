package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/fernandisraphael-art/solinvestti-sub000/internal"
)

// ExportGeneratorsToXLSX writes an import report: one line per canonical
// record, in row order, with every field the operator may want to fix up.
func ExportGeneratorsToXLSX(rows []internal.GeneratorExportRow, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"row_no", "name", "company", "type", "website", "region", "city",
		"capacity", "annual_revenue", "discount", "commission",
		"responsible_name", "responsible_phone", "landline", "access_email",
		"status", "rating", "estimated_savings",
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		rec := row.Record
		set(1, row.RowNo)
		set(2, rec.Name)
		set(3, rec.Company)
		set(4, rec.Type)
		set(5, rec.Website)
		set(6, rec.Region)
		set(7, rec.City)
		set(8, rec.Capacity)
		set(9, rec.AnnualRevenue)
		set(10, rec.Discount)
		set(11, rec.Commission)
		set(12, rec.ResponsibleName)
		set(13, rec.ResponsiblePhone)
		set(14, rec.Landline)
		set(15, rec.AccessEmail)
		set(16, rec.Status)
		set(17, rec.Rating)
		set(18, rec.EstimatedSavings)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
