package pipeline

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	"github.com/xuri/excelize/v2"

	"github.com/fernandisraphael-art/solinvestti-sub000/internal"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/util"
)

// ExtractedEmail is everything pulled out of one raw message: the candidate
// rows plus the surfaces the submission detector looks at.
type ExtractedEmail struct {
	Rows            []*internal.RawRow
	Subject         string
	Text            string
	HTML            string
	AttachmentNames []string
}

// ExtractRowsFromEmailRaw parses a raw RFC-2822 message and collects plant
// rows from HTML tables in the body and from XLSX/CSV attachments.
func ExtractRowsFromEmailRaw(raw []byte) (ExtractedEmail, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return ExtractedEmail{}, err
	}

	out := ExtractedEmail{
		Rows:            []*internal.RawRow{},
		Subject:         env.GetHeader("Subject"),
		Text:            env.Text,
		HTML:            env.HTML,
		AttachmentNames: make([]string, 0, len(env.Attachments)),
	}
	if env.HTML != "" {
		out.Rows = append(out.Rows, parseHTMLTableRows(env.HTML)...)
	}

	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		if filename == "" {
			filename = "attachment"
		}
		out.AttachmentNames = append(out.AttachmentNames, filename)
		lower := strings.ToLower(filename)

		if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls") {
			extra, err := parseXLSXRows(att.Content)
			if err == nil {
				out.Rows = append(out.Rows, extra...)
			}
		}
		if strings.HasSuffix(lower, ".csv") {
			extra, err := parseCSVRows(att.Content)
			if err == nil {
				out.Rows = append(out.Rows, extra...)
			}
		}
	}

	return out, nil
}

// parseXLSXRows reads every sheet of a workbook. The first row of a sheet
// with any non-empty cell is its header row; everything after becomes one
// RawRow each. Fully blank trailing rows are not rows.
func parseXLSXRows(content []byte) ([]*internal.RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := []*internal.RawRow{}
	for _, sheet := range f.GetSheetList() {
		cells, err := f.GetRows(sheet)
		if err != nil {
			continue
		}

		var headers []string
		for _, row := range cells {
			if isBlankRow(row) {
				continue
			}
			if headers == nil {
				headers = row
				continue
			}
			out = append(out, buildRawRow(headers, row))
		}
	}

	return out, nil
}

// parseCSVRows reads a header-first CSV. Brazilian exports often use ";" as
// the delimiter, so the first line is sniffed for it.
func parseCSVRows(content []byte) ([]*internal.RawRow, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if firstLine := firstCSVLine(content); strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		reader.Comma = ';'
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	out := []*internal.RawRow{}
	var headers []string
	for _, record := range records {
		if isBlankRow(record) {
			continue
		}
		if headers == nil {
			headers = record
			continue
		}
		out = append(out, buildRawRow(headers, record))
	}

	return out, nil
}

// parseHTMLTableRows collects rows from every table in the document, taking
// the first tr of each table as its header row.
func parseHTMLTableRows(html string) []*internal.RawRow {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	out := []*internal.RawRow{}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		trs := table.Find("tr")
		if trs.Length() < 2 {
			return
		}

		headers := []string{}
		trs.First().Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			headers = append(headers, util.CollapseSpaces(cell.Text()))
		})

		trs.Slice(1, trs.Length()).Each(func(_ int, tr *goquery.Selection) {
			cells := []string{}
			tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, util.CollapseSpaces(cell.Text()))
			})
			if isBlankRow(cells) {
				return
			}
			out = append(out, buildRawRow(headers, cells))
		})
	})

	return out
}

func buildRawRow(headers, cells []string) *internal.RawRow {
	row := internal.NewRawRow()
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			continue
		}
		if i >= len(cells) {
			continue
		}
		row.Set(header, internal.StringCell(cells[i]))
	}
	return row
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func firstCSVLine(content []byte) string {
	if idx := bytes.IndexByte(content, '\n'); idx >= 0 {
		return string(content[:idx])
	}
	return string(content)
}
