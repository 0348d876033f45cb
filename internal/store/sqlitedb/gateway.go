package sqlitedb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/msalvatierra/bodegabot/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS clients (
    phone TEXT PRIMARY KEY,
    name  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sheet_rows (
    id     TEXT PRIMARY KEY,
    client TEXT NOT NULL,
    sheet  TEXT NOT NULL,
    pos    INTEGER NOT NULL,
    cells  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS sheet_rows_by_sheet ON sheet_rows (client, sheet, pos);
`

// ProductsSheet is the tab name the sqlite backend uses for the product
// table.
const ProductsSheet = "Productos"

type rowRecord struct {
	ID     string `db:"id"`
	Client string `db:"client"`
	Sheet  string `db:"sheet"`
	Pos    int    `db:"pos"`
	Cells  string `db:"cells"`
}

// Gateway implements store.Gateway on a local SQLite file, keeping the same
// positional-row shape as the sheets backend so the repositories cannot tell
// them apart.
type Gateway struct {
	db *sqlx.DB
}

func NewGateway(path string) (*Gateway, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &Gateway{db: db}, nil
}

func (g *Gateway) Close() error {
	return g.db.Close()
}

// EnsureClient registers a client and seeds the three tables with their
// header rows if they do not exist yet.
func (g *Gateway) EnsureClient(ctx context.Context, phone, name string, headers map[string][]string) error {
	_, err := g.db.ExecContext(ctx,
		`INSERT INTO clients (phone, name) VALUES (?, ?)
		 ON CONFLICT(phone) DO UPDATE SET name = excluded.name`, phone, name)
	if err != nil {
		return err
	}

	for _, sheet := range []string{ProductsSheet, store.LotsSheet, store.HistorySheet} {
		var count int
		if err := g.db.GetContext(ctx, &count,
			`SELECT COUNT(*) FROM sheet_rows WHERE client = ? AND sheet = ?`, phone, sheet); err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		header := headers[sheet]
		if header == nil {
			header = []string{sheet}
		}
		if err := g.insertRow(ctx, phone, sheet, 1, header); err != nil {
			return err
		}
	}
	return nil
}

func (g *Gateway) ResolveTables(ctx context.Context, sender string) (*store.ClientTables, error) {
	var name string
	err := g.db.GetContext(ctx, &name, `SELECT name FROM clients WHERE phone = ?`, sender)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &store.ClientTables{
		ClientName: name,
		Products:   store.Table{Workbook: sender, Name: ProductsSheet},
		Lots:       store.Table{Workbook: sender, Name: store.LotsSheet},
		History:    store.Table{Workbook: sender, Name: store.HistorySheet},
	}, nil
}

func (g *Gateway) ReadAllRows(ctx context.Context, t store.Table) ([][]string, error) {
	var records []rowRecord
	err := g.db.SelectContext(ctx, &records,
		`SELECT id, client, sheet, pos, cells FROM sheet_rows
		 WHERE client = ? AND sheet = ? ORDER BY pos`, t.Workbook, t.Name)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		var cells []string
		if err := json.Unmarshal([]byte(rec.Cells), &cells); err != nil {
			return nil, fmt.Errorf("decode row %s: %w", rec.ID, err)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func (g *Gateway) AppendRow(ctx context.Context, t store.Table, row []string) error {
	var maxPos sql.NullInt64
	err := g.db.GetContext(ctx, &maxPos,
		`SELECT MAX(pos) FROM sheet_rows WHERE client = ? AND sheet = ?`, t.Workbook, t.Name)
	if err != nil {
		return err
	}
	return g.insertRow(ctx, t.Workbook, t.Name, int(maxPos.Int64)+1, row)
}

func (g *Gateway) UpdateCell(ctx context.Context, t store.Table, rowIndex, colIndex int, value string) error {
	var rec rowRecord
	err := g.db.GetContext(ctx, &rec,
		`SELECT id, client, sheet, pos, cells FROM sheet_rows
		 WHERE client = ? AND sheet = ? AND pos = ?`, t.Workbook, t.Name, rowIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrRowNotFound
	}
	if err != nil {
		return err
	}

	var cells []string
	if err := json.Unmarshal([]byte(rec.Cells), &cells); err != nil {
		return fmt.Errorf("decode row %s: %w", rec.ID, err)
	}
	for len(cells) < colIndex {
		cells = append(cells, "")
	}
	cells[colIndex-1] = value

	encoded, err := json.Marshal(cells)
	if err != nil {
		return err
	}
	_, err = g.db.ExecContext(ctx, `UPDATE sheet_rows SET cells = ? WHERE id = ?`, string(encoded), rec.ID)
	return err
}

func (g *Gateway) DeleteRow(ctx context.Context, t store.Table, rowIndex int) error {
	res, err := g.db.ExecContext(ctx,
		`DELETE FROM sheet_rows WHERE client = ? AND sheet = ? AND pos = ?`, t.Workbook, t.Name, rowIndex)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrRowNotFound
	}
	_, err = g.db.ExecContext(ctx,
		`UPDATE sheet_rows SET pos = pos - 1 WHERE client = ? AND sheet = ? AND pos > ?`,
		t.Workbook, t.Name, rowIndex)
	return err
}

func (g *Gateway) insertRow(ctx context.Context, client, sheet string, pos int, cells []string) error {
	encoded, err := json.Marshal(cells)
	if err != nil {
		return err
	}
	rec := &rowRecord{
		ID:     uuid.New().String(),
		Client: client,
		Sheet:  sheet,
		Pos:    pos,
		Cells:  string(encoded),
	}
	_, err = g.db.NamedExecContext(ctx,
		`INSERT INTO sheet_rows (id, client, sheet, pos, cells)
		 VALUES (:id, :client, :sheet, :pos, :cells)`, rec)
	return err
}
