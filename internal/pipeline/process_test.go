package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fernandisraphael-art/solinvestti-sub000/internal"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/config"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/storage"
)

func newTestService(t *testing.T) (*ProcessingService, *storage.DB) {
	t.Helper()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	db, err := storage.Open(filepath.Join(t.TempDir(), "import.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewProcessingService(db, cfg), db
}

func storeFixtureEmail(t *testing.T, db *storage.DB, subject string) internal.EmailRow {
	t.Helper()
	raw := filepath.Join("testdata", "sample_plants.eml")
	email, err := db.UpsertEmail("imap", "<sample-plants-001@example.com>", subject, "parceiro@example.com", "2026-08-17T12:41:00Z", "hash1", raw, "fetched")
	if err != nil {
		t.Fatalf("UpsertEmail: %v", err)
	}
	return email
}

func TestProcessEmailEndToEnd(t *testing.T) {
	svc, db := newTestService(t)
	storeFixtureEmail(t, db, "Cadastro de usinas - planilha")

	res, err := svc.ProcessByProviderMessageID("imap", "<sample-plants-001@example.com>")
	if err != nil {
		t.Fatalf("ProcessByProviderMessageID: %v", err)
	}
	if res.Skipped {
		t.Fatal("submission was skipped")
	}
	if res.RowsIn != 2 || res.Imported != 2 {
		t.Fatalf("RowsIn/Imported = %d/%d", res.RowsIn, res.Imported)
	}

	stored, err := db.ListGeneratorsByImport(res.ImportID)
	if err != nil {
		t.Fatalf("ListGeneratorsByImport: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("got %d stored generators", len(stored))
	}

	first := stored[0].Record
	if first.Name != "Usina Aurora" || first.City != "Campinas" {
		t.Fatalf("first record = %+v", first)
	}
	if first.Capacity != "350" {
		t.Fatalf("first capacity = %q", first.Capacity)
	}
	if first.ResponsiblePhone != "11999998888" {
		t.Fatalf("first phone = %q", first.ResponsiblePhone)
	}

	second := stored[1].Record
	if second.AccessEmail != "horizonte@example.com" {
		t.Fatalf("second email = %q", second.AccessEmail)
	}
	if second.Status != internal.StatusPending || second.Type != internal.PlantTypeSolar {
		t.Fatalf("second status/type = %q/%q", second.Status, second.Type)
	}

	email, err := db.MustEmailByProviderMessageID("imap", "<sample-plants-001@example.com>")
	if err != nil {
		t.Fatalf("MustEmailByProviderMessageID: %v", err)
	}
	if email.Status != "processed" {
		t.Fatalf("email status = %q", email.Status)
	}
}

func TestProcessEmailReprocessReplacesImport(t *testing.T) {
	svc, db := newTestService(t)
	email := storeFixtureEmail(t, db, "Cadastro de usinas - planilha")

	first, err := svc.ProcessEmail(email)
	if err != nil {
		t.Fatalf("first ProcessEmail: %v", err)
	}
	second, err := svc.ProcessEmail(email)
	if err != nil {
		t.Fatalf("second ProcessEmail: %v", err)
	}

	if stored, _ := db.ListGeneratorsByImport(first.ImportID); len(stored) != 0 {
		t.Fatalf("first import not cleared: %d rows", len(stored))
	}
	if stored, _ := db.ListGeneratorsByImport(second.ImportID); len(stored) != 2 {
		t.Fatalf("second import has %d rows", len(stored))
	}
}

func TestProcessEmailSkipsNonSubmission(t *testing.T) {
	svc, db := newTestService(t)

	dir := t.TempDir()
	raw := filepath.Join(dir, "plain.eml")
	msg := "From: a@b.com\r\nTo: c@d.com\r\nSubject: Re: almoco\r\nContent-Type: text/plain\r\n\r\nConfirmado para sexta.\r\n"
	if err := os.WriteFile(raw, []byte(msg), 0o644); err != nil {
		t.Fatalf("write eml: %v", err)
	}
	email, err := db.UpsertEmail("imap", "<plain@x>", "Re: almoco", "a@b.com", "2026-08-17", "h", raw, "fetched")
	if err != nil {
		t.Fatalf("UpsertEmail: %v", err)
	}

	res, err := svc.ProcessEmail(email)
	if err != nil {
		t.Fatalf("ProcessEmail: %v", err)
	}
	if !res.Skipped {
		t.Fatal("expected skip")
	}

	after, err := db.MustEmailByProviderMessageID("imap", "<plain@x>")
	if err != nil {
		t.Fatalf("MustEmailByProviderMessageID: %v", err)
	}
	if after.Status != "skipped" {
		t.Fatalf("email status = %q", after.Status)
	}
}

func TestProcessPending(t *testing.T) {
	svc, db := newTestService(t)
	storeFixtureEmail(t, db, "Cadastro de usinas - planilha")

	emails, rows, err := svc.ProcessPending(10, "")
	if err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if emails != 1 || rows != 2 {
		t.Fatalf("emails/rows = %d/%d", emails, rows)
	}

	// Second pass finds nothing pending.
	emails, rows, err = svc.ProcessPending(10, "")
	if err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if emails != 0 || rows != 0 {
		t.Fatalf("emails/rows = %d/%d", emails, rows)
	}
}

func TestProcessFile(t *testing.T) {
	svc, db := newTestService(t)

	csvPath := filepath.Join(t.TempDir(), "usinas.csv")
	content := "Usina;Cidade;Capacidade\nUsina Alfa;Jundiaí;200\nUsina Beta;Itu;450 kWp\n"
	if err := os.WriteFile(csvPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	res, err := svc.ProcessFile(csvPath, "csv")
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if res.Imported != 2 {
		t.Fatalf("Imported = %d", res.Imported)
	}

	stored, err := db.ListGeneratorsByImport(res.ImportID)
	if err != nil {
		t.Fatalf("ListGeneratorsByImport: %v", err)
	}
	if len(stored) != 2 || stored[0].Record.Name != "Usina Alfa" {
		t.Fatalf("stored = %+v", stored)
	}
}
