package repository

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/msalvatierra/bodegabot/internal/model"
	"github.com/msalvatierra/bodegabot/internal/store"
)

// Lot sheet columns, 1-based.
const (
	colCode = iota + 1
	colLotID
	colPurchaseDate
	colExpiry
	colUnitCost
	colOriginal
	colAvailable
)

const dateLayout = "2006-01-02"

// LotHeader is the header row new lot tables are created with.
var LotHeader = []string{
	"Código", "Lote", "Fecha compra", "Fecha vencimiento",
	"Costo unitario", "Cantidad", "Disponible",
}

type RowRepository struct {
	gw store.Gateway
}

func NewRowRepository(gw store.Gateway) *RowRepository {
	return &RowRepository{gw: gw}
}

func (r *RowRepository) FindAll(ctx context.Context, sender string) ([]model.Lot, error) {
	tables, err := r.gw.ResolveTables(ctx, sender)
	if err != nil {
		return nil, err
	}
	rows, err := r.gw.ReadAllRows(ctx, tables.Lots)
	if err != nil {
		return nil, err
	}

	var lots []model.Lot
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		lot := parseLot(row, i+1)
		if lot.ProductCode == "" {
			continue
		}
		lots = append(lots, lot)
	}
	return lots, nil
}

func (r *RowRepository) FindByProduct(ctx context.Context, sender, code string) ([]model.Lot, error) {
	all, err := r.FindAll(ctx, sender)
	if err != nil {
		return nil, err
	}
	var lots []model.Lot
	for _, lot := range all {
		if strings.EqualFold(lot.ProductCode, code) {
			lots = append(lots, lot)
		}
	}
	return lots, nil
}

func (r *RowRepository) Append(ctx context.Context, sender string, lot *model.Lot) error {
	tables, err := r.gw.ResolveTables(ctx, sender)
	if err != nil {
		return err
	}
	return r.gw.AppendRow(ctx, tables.Lots, formatLot(lot))
}

func (r *RowRepository) SetAvailable(ctx context.Context, sender string, rowIndex, available int) error {
	tables, err := r.gw.ResolveTables(ctx, sender)
	if err != nil {
		return err
	}
	return r.gw.UpdateCell(ctx, tables.Lots, rowIndex, colAvailable, strconv.Itoa(available))
}

func (r *RowRepository) DeleteByProduct(ctx context.Context, sender, code string) (int, error) {
	tables, err := r.gw.ResolveTables(ctx, sender)
	if err != nil {
		return 0, err
	}
	lots, err := r.FindByProduct(ctx, sender, code)
	if err != nil {
		return 0, err
	}

	// Delete bottom-up so earlier deletions do not shift pending indexes.
	sort.Slice(lots, func(i, j int) bool { return lots[i].RowIndex > lots[j].RowIndex })
	for i, lot := range lots {
		if err := r.gw.DeleteRow(ctx, tables.Lots, lot.RowIndex); err != nil {
			return i, err
		}
	}
	return len(lots), nil
}

func parseLot(row []string, rowIndex int) model.Lot {
	lot := model.Lot{
		ProductCode: cell(row, colCode),
		UnitCost:    parseFloat(cell(row, colUnitCost)),
		RowIndex:    rowIndex,
	}
	lot.ID, _ = strconv.Atoi(cell(row, colLotID))
	lot.Original, _ = strconv.Atoi(cell(row, colOriginal))
	lot.Available, _ = strconv.Atoi(cell(row, colAvailable))

	if t, err := time.Parse(dateLayout, cell(row, colPurchaseDate)); err == nil {
		lot.PurchaseDate = t
	}
	if raw := cell(row, colExpiry); raw != "" {
		if t, err := time.Parse(dateLayout, raw); err == nil {
			lot.Expiry = &t
		}
	}
	return lot
}

func formatLot(lot *model.Lot) []string {
	expiry := ""
	if lot.Expiry != nil {
		expiry = lot.Expiry.Format(dateLayout)
	}
	return []string{
		lot.ProductCode,
		strconv.Itoa(lot.ID),
		lot.PurchaseDate.Format(dateLayout),
		expiry,
		strconv.FormatFloat(lot.UnitCost, 'f', -1, 64),
		strconv.Itoa(lot.Original),
		strconv.Itoa(lot.Available),
	}
}

func cell(row []string, col int) string {
	if col > len(row) {
		return ""
	}
	return strings.TrimSpace(row[col-1])
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	return f
}
