package sheets

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/msalvatierra/bodegabot/internal/store"
)

// Client index columns, matched by header so the sheet can grow columns.
const (
	numberHeader = "Número"
	nameHeader   = "Nombre"
	urlHeader    = "URL de hoja"
)

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// Gateway implements store.Gateway on Google Sheets. One index spreadsheet
// maps sender numbers to per-client workbooks; each workbook holds the
// product tab (its first tab), the lots tab and the history tab.
type Gateway struct {
	svc     *sheetsapi.Service
	indexID string

	mu       sync.Mutex
	sheetIDs map[string]int64  // workbook+title -> numeric sheet id
	firstTab map[string]string // workbook -> first tab title
}

func NewGateway(ctx context.Context, credentialsJSON []byte, indexSpreadsheet string) (*Gateway, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}
	svc, err := sheetsapi.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Gateway{
		svc:      svc,
		indexID:  extractSpreadsheetID(indexSpreadsheet),
		sheetIDs: map[string]int64{},
		firstTab: map[string]string{},
	}, nil
}

func (g *Gateway) ResolveTables(ctx context.Context, sender string) (*store.ClientTables, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.indexID, "A1:Z").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read client index: %w", err)
	}
	if len(resp.Values) < 2 {
		return nil, store.ErrClientNotFound
	}

	header := toStrings(resp.Values[0])
	numCol := columnOf(header, numberHeader)
	nameCol := columnOf(header, nameHeader)
	urlCol := columnOf(header, urlHeader)
	if numCol < 0 || urlCol < 0 {
		return nil, fmt.Errorf("client index is missing the %q or %q column", numberHeader, urlHeader)
	}

	for _, raw := range resp.Values[1:] {
		row := toStrings(raw)
		if at(row, numCol) != strings.TrimSpace(sender) {
			continue
		}
		workbook := extractSpreadsheetID(at(row, urlCol))
		if workbook == "" {
			return nil, fmt.Errorf("client %s has no workbook URL", sender)
		}
		productsTab, err := g.firstTabTitle(ctx, workbook)
		if err != nil {
			return nil, err
		}
		return &store.ClientTables{
			ClientName: at(row, nameCol),
			Products:   store.Table{Workbook: workbook, Name: productsTab},
			Lots:       store.Table{Workbook: workbook, Name: store.LotsSheet},
			History:    store.Table{Workbook: workbook, Name: store.HistorySheet},
		}, nil
	}
	return nil, store.ErrClientNotFound
}

func (g *Gateway) ReadAllRows(ctx context.Context, t store.Table) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(t.Workbook, quoteSheet(t.Name)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", t.Name, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		rows[i] = toStrings(raw)
	}
	return rows, nil
}

func (g *Gateway) AppendRow(ctx context.Context, t store.Table, row []string) error {
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	_, err := g.svc.Spreadsheets.Values.
		Append(t.Workbook, quoteSheet(t.Name), &sheetsapi.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %q: %w", t.Name, err)
	}
	return nil
}

func (g *Gateway) UpdateCell(ctx context.Context, t store.Table, rowIndex, colIndex int, value string) error {
	cell := fmt.Sprintf("%s!%s%d", quoteSheet(t.Name), columnLetter(colIndex), rowIndex)
	_, err := g.svc.Spreadsheets.Values.
		Update(t.Workbook, cell, &sheetsapi.ValueRange{Values: [][]interface{}{{value}}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", cell, err)
	}
	return nil
}

func (g *Gateway) DeleteRow(ctx context.Context, t store.Table, rowIndex int) error {
	sheetID, err := g.sheetID(ctx, t)
	if err != nil {
		return err
	}
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			DeleteDimension: &sheetsapi.DeleteDimensionRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowIndex - 1),
					EndIndex:   int64(rowIndex),
				},
			},
		}},
	}
	_, err = g.svc.Spreadsheets.BatchUpdate(t.Workbook, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete row %d of %q: %w", rowIndex, t.Name, err)
	}
	return nil
}

func (g *Gateway) firstTabTitle(ctx context.Context, workbook string) (string, error) {
	g.mu.Lock()
	if title, ok := g.firstTab[workbook]; ok {
		g.mu.Unlock()
		return title, nil
	}
	g.mu.Unlock()

	meta, err := g.svc.Spreadsheets.Get(workbook).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("workbook metadata: %w", err)
	}
	if len(meta.Sheets) == 0 {
		return "", fmt.Errorf("workbook %s has no sheets", workbook)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, sh := range meta.Sheets {
		g.sheetIDs[workbook+"|"+sh.Properties.Title] = sh.Properties.SheetId
	}
	title := meta.Sheets[0].Properties.Title
	g.firstTab[workbook] = title
	return title, nil
}

func (g *Gateway) sheetID(ctx context.Context, t store.Table) (int64, error) {
	g.mu.Lock()
	if id, ok := g.sheetIDs[t.Workbook+"|"+t.Name]; ok {
		g.mu.Unlock()
		return id, nil
	}
	g.mu.Unlock()

	// Populates the cache for every tab of the workbook.
	if _, err := g.firstTabTitle(ctx, t.Workbook); err != nil {
		return 0, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.sheetIDs[t.Workbook+"|"+t.Name]
	if !ok {
		return 0, fmt.Errorf("no sheet %q in workbook %s", t.Name, t.Workbook)
	}
	return id, nil
}

func extractSpreadsheetID(s string) string {
	if m := spreadsheetIDPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return strings.TrimSpace(s)
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func columnLetter(col int) string {
	letters := ""
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}

func columnOf(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func toStrings(raw []interface{}) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = fmt.Sprint(v)
	}
	return out
}

func at(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
