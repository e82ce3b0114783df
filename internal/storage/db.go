package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/fernandisraphael-art/solinvestti-sub000/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS emails (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  provider TEXT NOT NULL,
  messageId TEXT NOT NULL,
  subject TEXT,
  sender TEXT,
  receivedAt TEXT,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  rawRef TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(provider, messageId)
);

CREATE TABLE IF NOT EXISTS imports (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  emailId INTEGER,
  sourceRef TEXT NOT NULL,
  sourceType TEXT NOT NULL,
  rowsIn INTEGER NOT NULL,
  rowsOut INTEGER NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(emailId) REFERENCES emails(id)
);

CREATE TABLE IF NOT EXISTS generators (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  importId INTEGER NOT NULL,
  rowNo INTEGER NOT NULL,
  name TEXT NOT NULL,
  company TEXT NOT NULL,
  type TEXT NOT NULL,
  website TEXT NOT NULL DEFAULT '',
  region TEXT NOT NULL,
  city TEXT NOT NULL,
  capacity TEXT NOT NULL,
  annualRevenue REAL NOT NULL,
  discount REAL NOT NULL,
  commission REAL NOT NULL,
  responsibleName TEXT NOT NULL,
  responsiblePhone TEXT NOT NULL,
  landline TEXT NOT NULL DEFAULT '',
  accessEmail TEXT NOT NULL,
  status TEXT NOT NULL,
  rating REAL NOT NULL,
  estimatedSavings REAL NOT NULL,
  syncedAt TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(importId) REFERENCES imports(id)
);
CREATE INDEX IF NOT EXISTS idx_generators_importId ON generators(importId);
CREATE INDEX IF NOT EXISTS idx_generators_syncedAt ON generators(syncedAt);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertImport(run internal.ImportRun) (int64, error) {
	result, err := d.conn.Exec(`
INSERT INTO imports (traceId, emailId, sourceRef, sourceType, rowsIn, rowsOut)
VALUES (?, ?, ?, ?, ?, ?)
`, run.TraceID, run.EmailID, run.SourceRef, run.SourceType, run.RowsIn, run.RowsOut)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) InsertGenerators(importID int64, records []internal.GeneratorRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO generators (
  importId, rowNo, name, company, type, website, region, city, capacity,
  annualRevenue, discount, commission,
  responsibleName, responsiblePhone, landline, accessEmail,
  status, rating, estimatedSavings
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.Exec(
			importID, i+1, r.Name, r.Company, r.Type, r.Website, r.Region, r.City, r.Capacity,
			r.AnnualRevenue, r.Discount, r.Commission,
			r.ResponsibleName, r.ResponsiblePhone, r.Landline, r.AccessEmail,
			r.Status, r.Rating, r.EstimatedSavings,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

const generatorColumns = `
  id, importId, rowNo, name, company, type, website, region, city, capacity,
  annualRevenue, discount, commission,
  responsibleName, responsiblePhone, landline, accessEmail,
  status, rating, estimatedSavings, syncedAt
`

func scanGenerator(rows *sql.Rows) (internal.StoredGenerator, error) {
	var g internal.StoredGenerator
	err := rows.Scan(
		&g.ID, &g.ImportID, &g.RowNo,
		&g.Record.Name, &g.Record.Company, &g.Record.Type, &g.Record.Website,
		&g.Record.Region, &g.Record.City, &g.Record.Capacity,
		&g.Record.AnnualRevenue, &g.Record.Discount, &g.Record.Commission,
		&g.Record.ResponsibleName, &g.Record.ResponsiblePhone, &g.Record.Landline, &g.Record.AccessEmail,
		&g.Record.Status, &g.Record.Rating, &g.Record.EstimatedSavings, &g.SyncedAt,
	)
	return g, err
}

func (d *DB) ListGeneratorsByImport(importID int64) ([]internal.StoredGenerator, error) {
	rows, err := d.conn.Query(`SELECT `+generatorColumns+` FROM generators WHERE importId = ? ORDER BY rowNo ASC`, importID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.StoredGenerator
	for rows.Next() {
		g, err := scanGenerator(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (d *DB) ListUnsyncedGenerators(limit int) ([]internal.StoredGenerator, error) {
	rows, err := d.conn.Query(`SELECT `+generatorColumns+` FROM generators WHERE syncedAt IS NULL ORDER BY id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.StoredGenerator
	for rows.Next() {
		g, err := scanGenerator(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (d *DB) MarkGeneratorsSynced(ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range ids {
		if _, err := tx.Exec(`UPDATE generators SET syncedAt = CURRENT_TIMESTAMP WHERE id = ?`, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) GetExportRows(importID int64) ([]internal.GeneratorExportRow, error) {
	stored, err := d.ListGeneratorsByImport(importID)
	if err != nil {
		return nil, err
	}
	out := make([]internal.GeneratorExportRow, 0, len(stored))
	for _, g := range stored {
		out = append(out, internal.GeneratorExportRow{RowNo: g.RowNo, Record: g.Record})
	}
	return out, nil
}

func (d *DB) LatestImportForEmail(emailID int) (*internal.ImportRun, error) {
	var run internal.ImportRun
	err := d.conn.QueryRow(`
SELECT id, traceId, emailId, sourceRef, sourceType, rowsIn, rowsOut
FROM imports WHERE emailId = ? ORDER BY id DESC LIMIT 1
`, emailID).Scan(&run.ID, &run.TraceID, &run.EmailID, &run.SourceRef, &run.SourceType, &run.RowsIn, &run.RowsOut)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (d *DB) ClearEmailImports(emailID int) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.Query(`SELECT id FROM imports WHERE emailId = ?`, emailID)
	if err != nil {
		return err
	}
	var importIDs []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return err
		}
		importIDs = append(importIDs, id)
	}
	_ = rows.Close()

	for _, id := range importIDs {
		if _, err := tx.Exec(`DELETE FROM generators WHERE importId = ?`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM imports WHERE id = ?`, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) UpsertEmail(provider, messageID, subject, sender, receivedAt, hash, rawRef, status string) (internal.EmailRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO emails (provider, messageId, subject, sender, receivedAt, hash, status, rawRef)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(provider, messageId) DO UPDATE SET
  subject=excluded.subject,
  sender=excluded.sender,
  receivedAt=excluded.receivedAt,
  hash=excluded.hash,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, provider, messageID, subject, sender, receivedAt, hash, status, rawRef)
	if err != nil {
		return internal.EmailRow{}, err
	}

	row, err := d.GetEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.EmailRow{}, err
	}
	if row == nil {
		return internal.EmailRow{}, errors.New("failed to upsert email")
	}
	return *row, nil
}

func (d *DB) GetEmailByProviderMessageID(provider, messageID string) (*internal.EmailRow, error) {
	var row internal.EmailRow
	err := d.conn.QueryRow(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM emails WHERE provider = ? AND messageId = ?
`, provider, messageID).Scan(
		&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListEmailsByStatus(status string, limit int) ([]internal.EmailRow, error) {
	rows, err := d.conn.Query(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM emails WHERE status = ? ORDER BY receivedAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.EmailRow
	for rows.Next() {
		var row internal.EmailRow
		if err := rows.Scan(&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateEmailStatus(emailID int, status string) error {
	_, err := d.conn.Exec(`UPDATE emails SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, emailID)
	return err
}

func (d *DB) MustEmailByProviderMessageID(provider, messageID string) (internal.EmailRow, error) {
	row, err := d.GetEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.EmailRow{}, err
	}
	if row == nil {
		return internal.EmailRow{}, fmt.Errorf("email not found: provider=%s messageId=%s", provider, messageID)
	}
	return *row, nil
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
