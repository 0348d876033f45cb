package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/msalvatierra/bodegabot/internal/catalog"
	"github.com/msalvatierra/bodegabot/internal/model"
	"github.com/msalvatierra/bodegabot/internal/store"
)

// Product sheet columns, 1-based.
const (
	colCode = iota + 1
	colName
	colBrand
	colPrice
	colQuantity
	colMinStock
	colLocation
	colPackage
	colPerishable
	colCategory
)

// ProductHeader is the header row new product tables are created with.
var ProductHeader = []string{
	"Código", "Nombre", "Marca", "Precio", "Cantidad",
	"Stock mínimo", "Lugar", "Empaque", "Perecedero", "Categoría",
}

type RowRepository struct {
	gw store.Gateway
}

func NewRowRepository(gw store.Gateway) *RowRepository {
	return &RowRepository{gw: gw}
}

func (r *RowRepository) FindAll(ctx context.Context, sender string) ([]model.Product, error) {
	tables, err := r.gw.ResolveTables(ctx, sender)
	if err != nil {
		return nil, err
	}
	rows, err := r.gw.ReadAllRows(ctx, tables.Products)
	if err != nil {
		return nil, err
	}

	var products []model.Product
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		p := parseProduct(row, i+1)
		if p.Code == "" {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *RowRepository) FindByCode(ctx context.Context, sender, code string) (*model.Product, error) {
	products, err := r.FindAll(ctx, sender)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if strings.EqualFold(products[i].Code, code) {
			return &products[i], nil
		}
	}
	return nil, catalog.ErrCodeNotFound
}

func (r *RowRepository) Create(ctx context.Context, sender string, p *model.Product) error {
	tables, err := r.gw.ResolveTables(ctx, sender)
	if err != nil {
		return err
	}
	return r.gw.AppendRow(ctx, tables.Products, formatProduct(p))
}

func (r *RowRepository) UpdateField(ctx context.Context, sender string, rowIndex int, field catalog.Field, value string) error {
	tables, err := r.gw.ResolveTables(ctx, sender)
	if err != nil {
		return err
	}
	return r.gw.UpdateCell(ctx, tables.Products, rowIndex, fieldColumn(field), value)
}

func (r *RowRepository) SetQuantity(ctx context.Context, sender string, rowIndex, quantity int) error {
	tables, err := r.gw.ResolveTables(ctx, sender)
	if err != nil {
		return err
	}
	return r.gw.UpdateCell(ctx, tables.Products, rowIndex, colQuantity, strconv.Itoa(quantity))
}

func (r *RowRepository) Delete(ctx context.Context, sender string, rowIndex int) error {
	tables, err := r.gw.ResolveTables(ctx, sender)
	if err != nil {
		return err
	}
	return r.gw.DeleteRow(ctx, tables.Products, rowIndex)
}

func fieldColumn(field catalog.Field) int {
	switch field {
	case catalog.FieldName:
		return colName
	case catalog.FieldBrand:
		return colBrand
	case catalog.FieldPrice:
		return colPrice
	case catalog.FieldMinStock:
		return colMinStock
	case catalog.FieldLocation:
		return colLocation
	}
	return colName
}

func parseProduct(row []string, rowIndex int) model.Product {
	return model.Product{
		Code:       cell(row, colCode),
		Name:       cell(row, colName),
		Brand:      cell(row, colBrand),
		Price:      parseFloat(cell(row, colPrice)),
		Quantity:   parseInt(cell(row, colQuantity)),
		MinStock:   parseInt(cell(row, colMinStock)),
		Location:   cell(row, colLocation),
		Package:    cell(row, colPackage),
		Perishable: strings.EqualFold(cell(row, colPerishable), "si"),
		Category:   cell(row, colCategory),
		RowIndex:   rowIndex,
	}
}

func formatProduct(p *model.Product) []string {
	perishable := "no"
	if p.Perishable {
		perishable = "si"
	}
	return []string{
		p.Code,
		p.Name,
		p.Brand,
		strconv.FormatFloat(p.Price, 'f', -1, 64),
		strconv.Itoa(p.Quantity),
		strconv.Itoa(p.MinStock),
		p.Location,
		p.Package,
		perishable,
		p.Category,
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

func parseInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
