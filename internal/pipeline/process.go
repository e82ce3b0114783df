package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/fernandisraphael-art/solinvestti-sub000/internal"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/config"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/lexicon"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/storage"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/util"
)

// ProcessingService drives a full import: extract rows from a source, run
// the assembler over the batch, persist records and bookkeeping.
type ProcessingService struct {
	db        *storage.DB
	cfg       config.Config
	assembler *Assembler
}

func NewProcessingService(db *storage.DB, cfg config.Config) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg, assembler: NewAssembler(cfg, lexicon.Default())}
}

type ProcessResult struct {
	EmailID  int
	ImportID int64
	RowsIn   int
	Imported int
	Skipped  bool
}

func (s *ProcessingService) ProcessByProviderMessageID(provider, messageID string) (ProcessResult, error) {
	email, err := s.db.MustEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return ProcessResult{}, err
	}
	return s.ProcessEmail(email)
}

func (s *ProcessingService) ProcessPending(limit int, provider string) (int, int, error) {
	pending, err := s.db.ListEmailsByStatus("fetched", limit)
	if err != nil {
		return 0, 0, err
	}
	processedEmails := 0
	importedRows := 0
	for _, email := range pending {
		if provider != "" && email.Provider != provider {
			continue
		}
		res, err := s.ProcessEmail(email)
		if err != nil {
			return processedEmails, importedRows, err
		}
		processedEmails++
		importedRows += res.Imported
	}
	return processedEmails, importedRows, nil
}

func (s *ProcessingService) ProcessEmail(email internal.EmailRow) (ProcessResult, error) {
	start := time.Now()
	raw, err := os.ReadFile(email.RawRef)
	if err != nil {
		return ProcessResult{}, err
	}

	extracted, err := ExtractRowsFromEmailRaw(raw)
	if err != nil {
		return ProcessResult{}, err
	}
	rows := extracted.Rows

	if err := s.db.ClearEmailImports(email.ID); err != nil {
		return ProcessResult{}, err
	}

	detect := DetectPlantSheet(
		firstNonEmpty(extracted.Subject, email.Subject),
		extracted.Text, extracted.HTML, extracted.AttachmentNames,
	)
	if !detect.IsSubmission {
		_ = s.db.UpdateEmailStatus(email.ID, "skipped")
		return ProcessResult{EmailID: email.ID, Skipped: true}, nil
	}

	records := s.assembler.ProcessBatch(rows)
	importID, err := s.db.InsertImport(internal.ImportRun{
		TraceID:    traceID(),
		EmailID:    util.IntPtr(email.ID),
		SourceRef:  email.RawRef,
		SourceType: string(internal.SourceEmailAttached),
		RowsIn:     len(rows),
		RowsOut:    len(records),
	})
	if err != nil {
		return ProcessResult{}, err
	}
	if err := s.db.InsertGenerators(importID, records); err != nil {
		return ProcessResult{}, err
	}

	if err := s.db.UpdateEmailStatus(email.ID, "processed"); err != nil {
		return ProcessResult{}, err
	}
	_ = s.db.SetMetadata(
		fmt.Sprintf("import.%d.totalMs", importID),
		fmt.Sprintf("%d", time.Since(start).Milliseconds()),
	)

	return ProcessResult{EmailID: email.ID, ImportID: importID, RowsIn: len(rows), Imported: len(records)}, nil
}

// ProcessFile imports a standalone spreadsheet outside the mail flow.
func (s *ProcessingService) ProcessFile(path, inputType string) (ProcessResult, error) {
	rows, err := ExtractRowsFromInput(inputType, path)
	if err != nil {
		return ProcessResult{}, err
	}

	records := s.assembler.ProcessBatch(rows)
	importID, err := s.db.InsertImport(internal.ImportRun{
		TraceID:    traceID(),
		SourceRef:  path,
		SourceType: inputType,
		RowsIn:     len(rows),
		RowsOut:    len(records),
	})
	if err != nil {
		return ProcessResult{}, err
	}
	if err := s.db.InsertGenerators(importID, records); err != nil {
		return ProcessResult{}, err
	}

	return ProcessResult{ImportID: importID, RowsIn: len(rows), Imported: len(records)}, nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
