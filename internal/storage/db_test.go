package storage

import (
	"path/filepath"
	"testing"

	"github.com/fernandisraphael-art/solinvestti-sub000/internal"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/util"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleRecord(name string) internal.GeneratorRecord {
	return internal.GeneratorRecord{
		Name:             name,
		Company:          name,
		Type:             internal.PlantTypeSolar,
		Region:           "SP",
		City:             "Campinas",
		Capacity:         "350",
		AnnualRevenue:    120000,
		Discount:         15,
		Commission:       5,
		ResponsibleName:  "Maria Silva",
		ResponsiblePhone: "11999998888",
		AccessEmail:      "maria@example.com",
		Status:           internal.StatusPending,
		Rating:           3,
	}
}

func TestInsertAndListGenerators(t *testing.T) {
	db := openTestDB(t)

	importID, err := db.InsertImport(internal.ImportRun{
		TraceID: "t1", SourceRef: "x.xlsx", SourceType: "xlsx", RowsIn: 2, RowsOut: 2,
	})
	if err != nil {
		t.Fatalf("InsertImport: %v", err)
	}

	records := []internal.GeneratorRecord{sampleRecord("Usina A"), sampleRecord("Usina B")}
	if err := db.InsertGenerators(importID, records); err != nil {
		t.Fatalf("InsertGenerators: %v", err)
	}

	stored, err := db.ListGeneratorsByImport(importID)
	if err != nil {
		t.Fatalf("ListGeneratorsByImport: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("got %d generators", len(stored))
	}
	if stored[0].RowNo != 1 || stored[1].RowNo != 2 {
		t.Fatalf("row numbers = %d, %d", stored[0].RowNo, stored[1].RowNo)
	}
	if stored[0].Record.Name != "Usina A" || stored[1].Record.Name != "Usina B" {
		t.Fatalf("order not preserved: %q, %q", stored[0].Record.Name, stored[1].Record.Name)
	}
	if stored[0].SyncedAt != nil {
		t.Fatal("fresh generator marked synced")
	}
}

func TestUnsyncedLifecycle(t *testing.T) {
	db := openTestDB(t)

	importID, err := db.InsertImport(internal.ImportRun{TraceID: "t1", SourceRef: "x", SourceType: "xlsx"})
	if err != nil {
		t.Fatalf("InsertImport: %v", err)
	}
	if err := db.InsertGenerators(importID, []internal.GeneratorRecord{sampleRecord("A"), sampleRecord("B")}); err != nil {
		t.Fatalf("InsertGenerators: %v", err)
	}

	unsynced, err := db.ListUnsyncedGenerators(10)
	if err != nil {
		t.Fatalf("ListUnsyncedGenerators: %v", err)
	}
	if len(unsynced) != 2 {
		t.Fatalf("got %d unsynced", len(unsynced))
	}

	if err := db.MarkGeneratorsSynced([]int{unsynced[0].ID}); err != nil {
		t.Fatalf("MarkGeneratorsSynced: %v", err)
	}

	unsynced, err = db.ListUnsyncedGenerators(10)
	if err != nil {
		t.Fatalf("ListUnsyncedGenerators: %v", err)
	}
	if len(unsynced) != 1 || unsynced[0].Record.Name != "B" {
		t.Fatalf("unsynced after mark = %+v", unsynced)
	}
}

func TestUpsertEmailIdempotent(t *testing.T) {
	db := openTestDB(t)

	first, err := db.UpsertEmail("imap", "<m1@x>", "Planilha", "a@b.com", "2026-08-17", "h1", "/tmp/m1.eml", "fetched")
	if err != nil {
		t.Fatalf("UpsertEmail: %v", err)
	}
	second, err := db.UpsertEmail("imap", "<m1@x>", "Planilha v2", "a@b.com", "2026-08-17", "h2", "/tmp/m1.eml", "fetched")
	if err != nil {
		t.Fatalf("UpsertEmail: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("upsert created a new row: %d vs %d", first.ID, second.ID)
	}
	if second.Subject != "Planilha v2" || second.Hash != "h2" {
		t.Fatalf("upsert did not refresh fields: %+v", second)
	}
}

func TestEmailStatusFlow(t *testing.T) {
	db := openTestDB(t)

	email, err := db.UpsertEmail("gmail", "m2", "Usinas", "p@q.com", "2026-08-18", "h", "/tmp/m2.eml", "fetched")
	if err != nil {
		t.Fatalf("UpsertEmail: %v", err)
	}

	pending, err := db.ListEmailsByStatus("fetched", 10)
	if err != nil {
		t.Fatalf("ListEmailsByStatus: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("got %d pending", len(pending))
	}

	if err := db.UpdateEmailStatus(email.ID, "processed"); err != nil {
		t.Fatalf("UpdateEmailStatus: %v", err)
	}
	pending, err = db.ListEmailsByStatus("fetched", 10)
	if err != nil {
		t.Fatalf("ListEmailsByStatus: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("still %d pending after processing", len(pending))
	}
}

func TestClearEmailImports(t *testing.T) {
	db := openTestDB(t)

	email, err := db.UpsertEmail("imap", "m3", "Usinas", "p@q.com", "2026-08-18", "h", "/tmp/m3.eml", "fetched")
	if err != nil {
		t.Fatalf("UpsertEmail: %v", err)
	}

	importID, err := db.InsertImport(internal.ImportRun{
		TraceID: "t1", EmailID: util.IntPtr(email.ID), SourceRef: "/tmp/m3.eml", SourceType: "email_attached",
	})
	if err != nil {
		t.Fatalf("InsertImport: %v", err)
	}
	if err := db.InsertGenerators(importID, []internal.GeneratorRecord{sampleRecord("A")}); err != nil {
		t.Fatalf("InsertGenerators: %v", err)
	}

	if err := db.ClearEmailImports(email.ID); err != nil {
		t.Fatalf("ClearEmailImports: %v", err)
	}

	run, err := db.LatestImportForEmail(email.ID)
	if err != nil {
		t.Fatalf("LatestImportForEmail: %v", err)
	}
	if run != nil {
		t.Fatalf("import survived clear: %+v", run)
	}
	stored, err := db.ListGeneratorsByImport(importID)
	if err != nil {
		t.Fatalf("ListGeneratorsByImport: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("generators survived clear: %d", len(stored))
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	db := openTestDB(t)

	missing, err := db.GetMetadata("backend.last_push")
	if err != nil {
		t.Fatalf("GetMetadata: %v", err)
	}
	if missing != nil {
		t.Fatalf("unexpected value %q", *missing)
	}

	if err := db.SetMetadata("backend.last_push", "2026-08-18T10:00:00Z"); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}
	if err := db.SetMetadata("backend.last_push", "2026-08-19T10:00:00Z"); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}

	got, err := db.GetMetadata("backend.last_push")
	if err != nil {
		t.Fatalf("GetMetadata: %v", err)
	}
	if got == nil || *got != "2026-08-19T10:00:00Z" {
		t.Fatalf("got %v", got)
	}
}
