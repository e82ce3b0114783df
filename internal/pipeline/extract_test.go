package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func mkXLSX(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue("Sheet1", cell, value); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write xlsx: %v", err)
	}
	return buf.Bytes()
}

func TestParseXLSXRows(t *testing.T) {
	content := mkXLSX(t, [][]string{
		{"Usina", "Cidade", "Capacidade"},
		{"Usina Aurora", "Campinas", "350 kWp"},
		{"", "", ""},
		{"Usina Horizonte", "Sorocaba", "1.250"},
	})

	rows, err := parseXLSXRows(content)
	if err != nil {
		t.Fatalf("parseXLSXRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if got := rows[0].Get("Usina").Text(); got != "Usina Aurora" {
		t.Fatalf("rows[0] Usina = %q", got)
	}
	if got := rows[1].Get("Cidade").Text(); got != "Sorocaba" {
		t.Fatalf("rows[1] Cidade = %q", got)
	}
}

func TestParseCSVRowsSemicolon(t *testing.T) {
	content := []byte("Usina;Cidade;Capacidade\nUsina Alfa;Jundiaí;200\n\nUsina Beta;Itu;450 kWp\n")

	rows, err := parseCSVRows(content)
	if err != nil {
		t.Fatalf("parseCSVRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if got := rows[0].Get("Cidade").Text(); got != "Jundiaí" {
		t.Fatalf("rows[0] Cidade = %q", got)
	}
	if got := rows[1].Get("Capacidade").Text(); got != "450 kWp" {
		t.Fatalf("rows[1] Capacidade = %q", got)
	}
}

func TestParseCSVRowsComma(t *testing.T) {
	content := []byte("Usina,Contato\nPlanta Um,11988887777\n")

	rows, err := parseCSVRows(content)
	if err != nil {
		t.Fatalf("parseCSVRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if got := rows[0].Get("Contato").Text(); got != "11988887777" {
		t.Fatalf("Contato = %q", got)
	}
}

func TestParseHTMLTableRows(t *testing.T) {
	html := `<html><body>
	<p>Segue a planilha.</p>
	<table>
	  <tr><th>Usina</th><th>Cidade</th><th>Contato</th></tr>
	  <tr><td>Usina Aurora</td><td>Campinas</td><td>11999998888</td></tr>
	  <tr><td>  Usina   Horizonte </td><td>Sorocaba</td><td>horizonte@example.com</td></tr>
	</table>
	</body></html>`

	rows := parseHTMLTableRows(html)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if got := rows[1].Get("Usina").Text(); got != "Usina Horizonte" {
		t.Fatalf("rows[1] Usina = %q", got)
	}
	if got := rows[1].Get("Contato").Text(); got != "horizonte@example.com" {
		t.Fatalf("rows[1] Contato = %q", got)
	}
}

func TestParseHTMLTableSkipsHeaderOnlyTable(t *testing.T) {
	rows := parseHTMLTableRows(`<table><tr><th>Usina</th></tr></table>`)
	if len(rows) != 0 {
		t.Fatalf("got %d rows, want 0", len(rows))
	}
}

func TestExtractRowsFromEmailRaw(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "sample_plants.eml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	extracted, err := ExtractRowsFromEmailRaw(raw)
	if err != nil {
		t.Fatalf("ExtractRowsFromEmailRaw: %v", err)
	}
	if extracted.Subject != "Cadastro de usinas - planilha" {
		t.Fatalf("subject = %q", extracted.Subject)
	}
	if extracted.Text == "" {
		t.Fatal("expected plain text body")
	}
	if extracted.HTML == "" {
		t.Fatal("expected html body")
	}
	if len(extracted.AttachmentNames) != 0 {
		t.Fatalf("attachments = %v", extracted.AttachmentNames)
	}
	rows := extracted.Rows
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if got := rows[0].Get("Usina").Text(); got != "Usina Aurora" {
		t.Fatalf("rows[0] Usina = %q", got)
	}
	if got := rows[1].Get("Contato").Text(); got != "horizonte@example.com" {
		t.Fatalf("rows[1] Contato = %q", got)
	}
}
