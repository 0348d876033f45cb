package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/msalvatierra/bodegabot/internal/model"
	"github.com/msalvatierra/bodegabot/internal/store"
)

// History sheet columns, 1-based.
const (
	colDate = iota + 1
	colCode
	colName
	colKind
	colQuantity
	colFinalStock
	colUnitPrice
	colUnitCost
)

// HistoryHeader is the header row new history tables are created with.
var HistoryHeader = []string{
	"Fecha", "Código", "Nombre", "Tipo", "Cantidad",
	"Stock final", "Precio", "Costo",
}

type RowRepository struct {
	gw store.Gateway
}

func NewRowRepository(gw store.Gateway) *RowRepository {
	return &RowRepository{gw: gw}
}

func (r *RowRepository) FindAll(ctx context.Context, sender string) ([]model.Movement, error) {
	tables, err := r.gw.ResolveTables(ctx, sender)
	if err != nil {
		return nil, err
	}
	rows, err := r.gw.ReadAllRows(ctx, tables.History)
	if err != nil {
		return nil, err
	}

	var movements []model.Movement
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		mv := parseMovement(row)
		if mv.Code == "" {
			continue
		}
		movements = append(movements, mv)
	}
	return movements, nil
}

func (r *RowRepository) Append(ctx context.Context, sender string, mv *model.Movement) error {
	tables, err := r.gw.ResolveTables(ctx, sender)
	if err != nil {
		return err
	}
	return r.gw.AppendRow(ctx, tables.History, formatMovement(mv))
}

func (r *RowRepository) ClientName(ctx context.Context, sender string) (string, error) {
	tables, err := r.gw.ResolveTables(ctx, sender)
	if err != nil {
		return "", err
	}
	return tables.ClientName, nil
}

func parseMovement(row []string) model.Movement {
	mv := model.Movement{
		Date: cell(row, colDate),
		Code: cell(row, colCode),
		Name: cell(row, colName),
		Kind: model.MovementKind(cell(row, colKind)),
	}
	mv.Quantity, _ = strconv.Atoi(cell(row, colQuantity))
	mv.FinalStock, _ = strconv.Atoi(cell(row, colFinalStock))

	// Price and cost cells are blank on rows journaled before cost
	// capture existed; those stay nil so reporting can skip them.
	if raw := cell(row, colUnitPrice); raw != "" {
		if f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64); err == nil {
			mv.UnitPrice = &f
		}
	}
	if raw := cell(row, colUnitCost); raw != "" {
		if f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64); err == nil {
			mv.UnitCost = &f
		}
	}
	return mv
}

func formatMovement(mv *model.Movement) []string {
	price, cost := "", ""
	if mv.UnitPrice != nil {
		price = strconv.FormatFloat(*mv.UnitPrice, 'f', -1, 64)
	}
	if mv.UnitCost != nil {
		cost = strconv.FormatFloat(*mv.UnitCost, 'f', -1, 64)
	}
	return []string{
		mv.Date,
		mv.Code,
		mv.Name,
		string(mv.Kind),
		strconv.Itoa(mv.Quantity),
		strconv.Itoa(mv.FinalStock),
		price,
		cost,
	}
}

func cell(row []string, col int) string {
	if col > len(row) {
		return ""
	}
	return strings.TrimSpace(row[col-1])
}
