package internal

import "strconv"

type RowSource string

const (
	SourceXLSX          RowSource = "xlsx"
	SourceCSV           RowSource = "csv"
	SourceHTMLTable     RowSource = "html_table"
	SourceEmailBody     RowSource = "email_html_table"
	SourceEmailAttached RowSource = "email_attachment"
)

// PlantTypeSolar is the only generator type this pipeline produces.
const PlantTypeSolar = "Solar"

// StatusPending is the creation status of every imported generator.
const StatusPending = "pending"

type CellKind int

const (
	CellAbsent CellKind = iota
	CellString
	CellNumber
)

// CellValue is one spreadsheet cell as handed over by a reader: a string, a
// number, or absent. Everything downstream of the resolver works on strings.
type CellValue struct {
	Kind CellKind
	Str  string
	Num  float64
}

func StringCell(s string) CellValue {
	return CellValue{Kind: CellString, Str: s}
}

func NumberCell(f float64) CellValue {
	return CellValue{Kind: CellNumber, Num: f}
}

func (c CellValue) Text() string {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// RawRow is one input spreadsheet row: arbitrary human-typed headers mapped to
// cell values, in original column order. Readers build it, the pipeline never
// mutates it.
type RawRow struct {
	headers []string
	cells   map[string]CellValue
}

func NewRawRow() *RawRow {
	return &RawRow{cells: map[string]CellValue{}}
}

func (r *RawRow) Set(header string, value CellValue) {
	if r.cells == nil {
		r.cells = map[string]CellValue{}
	}
	if _, exists := r.cells[header]; !exists {
		r.headers = append(r.headers, header)
	}
	r.cells[header] = value
}

func (r *RawRow) Get(header string) CellValue {
	return r.cells[header]
}

// Headers returns the original headers in column order.
func (r *RawRow) Headers() []string {
	return r.headers
}

func (r *RawRow) Len() int {
	return len(r.headers)
}

// GeneratorRecord is the canonical output entity, fully defaulted: no field is
// ever left unset unless its documented default is the empty string.
type GeneratorRecord struct {
	Name             string
	Company          string
	Type             string
	Website          string
	Region           string
	City             string
	Capacity         string
	AnnualRevenue    float64
	Discount         float64
	Commission       float64
	ResponsibleName  string
	ResponsiblePhone string
	Landline         string
	AccessEmail      string
	Status           string
	Rating           float64
	EstimatedSavings float64
}

type EmailRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}

// ImportRun records one import invocation (email or file) and its row counts.
type ImportRun struct {
	ID         int
	TraceID    string
	EmailID    *int
	SourceRef  string
	SourceType string
	RowsIn     int
	RowsOut    int
}

// GeneratorExportRow is one line of an import report.
type GeneratorExportRow struct {
	RowNo  int
	Record GeneratorRecord
}

// StoredGenerator is a persisted record plus its bookkeeping columns.
type StoredGenerator struct {
	ID       int
	ImportID int
	RowNo    int
	SyncedAt *string
	Record   GeneratorRecord
}
