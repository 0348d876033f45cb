package store

import (
	"context"
	"errors"
)

// Sheet tab names inside a client workbook. The products tab is whatever the
// workbook's first tab is called, so only the fixed tabs are named here.
const (
	LotsSheet    = "Lotes"
	HistorySheet = "Historial de movimientos"
)

var (
	// ErrClientNotFound means the sender has no row in the client index.
	ErrClientNotFound = errors.New("client not found")

	// ErrRowNotFound means a row index fell outside the table.
	ErrRowNotFound = errors.New("row not found")
)

// Table addresses one tab of one client's workbook.
type Table struct {
	// Workbook is a backend-specific workbook handle: a spreadsheet ID for
	// the sheets backend, the client phone number for sqlite and memory.
	Workbook string
	Name     string
}

// ClientTables is the result of resolving a sender to their tenancy.
type ClientTables struct {
	ClientName string
	Products   Table
	Lots       Table
	History    Table
}

// Gateway is the narrow record-store surface the domain repositories
// consume. Rows are positional string cells; row indexes are 1-based and
// count the header row, which callers must never treat as data.
type Gateway interface {
	ResolveTables(ctx context.Context, sender string) (*ClientTables, error)
	ReadAllRows(ctx context.Context, t Table) ([][]string, error)
	AppendRow(ctx context.Context, t Table, row []string) error
	UpdateCell(ctx context.Context, t Table, rowIndex, colIndex int, value string) error
	DeleteRow(ctx context.Context, t Table, rowIndex int) error
}
