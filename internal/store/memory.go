package store

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Gateway used by tests and by STORE_BACKEND=memory.
// Data layout mirrors the sheets backend: one workbook per client with a
// products tab, a lots tab and a history tab, each with a header row.
type Memory struct {
	mu      sync.RWMutex
	clients map[string]*memClient
}

type memClient struct {
	name   string
	sheets map[string][][]string
}

// ProductsSheet is the tab name the memory backend uses for the product
// table.
const ProductsSheet = "Productos"

func NewMemory() *Memory {
	return &Memory{clients: map[string]*memClient{}}
}

// RegisterClient creates the three empty tables for a sender. headers maps
// tab name to header row; missing tabs get a single-cell placeholder header.
func (m *Memory) RegisterClient(sender, name string, headers map[string][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := &memClient{name: name, sheets: map[string][][]string{}}
	for _, tab := range []string{ProductsSheet, LotsSheet, HistorySheet} {
		h := headers[tab]
		if h == nil {
			h = []string{tab}
		}
		c.sheets[tab] = [][]string{h}
	}
	m.clients[sender] = c
}

func (m *Memory) ResolveTables(ctx context.Context, sender string) (*ClientTables, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clients[sender]
	if !ok {
		return nil, ErrClientNotFound
	}
	return &ClientTables{
		ClientName: c.name,
		Products:   Table{Workbook: sender, Name: ProductsSheet},
		Lots:       Table{Workbook: sender, Name: LotsSheet},
		History:    Table{Workbook: sender, Name: HistorySheet},
	}, nil
}

func (m *Memory) ReadAllRows(ctx context.Context, t Table) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, err := m.sheet(t)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (m *Memory) AppendRow(ctx context.Context, t Table, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, err := m.sheet(t)
	if err != nil {
		return err
	}
	m.clients[t.Workbook].sheets[t.Name] = append(rows, append([]string(nil), row...))
	return nil
}

func (m *Memory) UpdateCell(ctx context.Context, t Table, rowIndex, colIndex int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, err := m.sheet(t)
	if err != nil {
		return err
	}
	if rowIndex < 1 || rowIndex > len(rows) {
		return ErrRowNotFound
	}
	row := rows[rowIndex-1]
	for len(row) < colIndex {
		row = append(row, "")
	}
	row[colIndex-1] = value
	rows[rowIndex-1] = row
	return nil
}

func (m *Memory) DeleteRow(ctx context.Context, t Table, rowIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, err := m.sheet(t)
	if err != nil {
		return err
	}
	if rowIndex < 1 || rowIndex > len(rows) {
		return ErrRowNotFound
	}
	m.clients[t.Workbook].sheets[t.Name] = append(rows[:rowIndex-1], rows[rowIndex:]...)
	return nil
}

func (m *Memory) sheet(t Table) ([][]string, error) {
	c, ok := m.clients[t.Workbook]
	if !ok {
		return nil, ErrClientNotFound
	}
	rows, ok := c.sheets[t.Name]
	if !ok {
		return nil, fmt.Errorf("no sheet %q for client %s", t.Name, t.Workbook)
	}
	return rows, nil
}
