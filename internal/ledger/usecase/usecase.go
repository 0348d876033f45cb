package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/msalvatierra/bodegabot/internal/catalog"
	"github.com/msalvatierra/bodegabot/internal/history"
	"github.com/msalvatierra/bodegabot/internal/ledger"
	"github.com/msalvatierra/bodegabot/internal/ledger/dto"
	"github.com/msalvatierra/bodegabot/internal/model"
	"github.com/msalvatierra/bodegabot/pkg/logger"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// nearExpiryWindow is how far ahead the expiry scan warns, in days.
const nearExpiryWindow = 21

type ledgerUseCase struct {
	repo     ledger.Repository
	products catalog.Repository
	journal  history.Repository
	logger   logger.ZapLogger
}

func NewLedgerUseCase(repo ledger.Repository, products catalog.Repository, journal history.Repository, log logger.ZapLogger) ledger.UseCase {
	return &ledgerUseCase{
		repo:     repo,
		products: products,
		journal:  journal,
		logger:   log,
	}
}

func (uc *ledgerUseCase) Lots(ctx context.Context, sender, code string) ([]model.Lot, error) {
	return uc.repo.FindByProduct(ctx, sender, code)
}

func (uc *ledgerUseCase) RegisterEntry(ctx context.Context, sender string, input *dto.EntryInput) (*model.Lot, int, error) {
	if input.Quantity <= 0 {
		return nil, 0, ledger.ErrInvalidQuantity
	}
	product, err := uc.products.FindByCode(ctx, sender, input.Code)
	if err != nil {
		return nil, 0, err
	}
	lots, err := uc.repo.FindByProduct(ctx, sender, product.Code)
	if err != nil {
		return nil, 0, err
	}

	// Rows written before the perishable column existed fall back to the
	// old signal: any lot carrying an expiry date marks the line
	// perishable.
	perishable := product.Perishable || inferPerishable(lots)
	if perishable && input.Expiry == nil {
		return nil, 0, ledger.ErrExpiryRequired
	}
	expiry := input.Expiry
	if !perishable {
		expiry = nil
	}

	nextID := 1
	for _, lot := range lots {
		if lot.ID >= nextID {
			nextID = lot.ID + 1
		}
	}

	lot := &model.Lot{
		ProductCode:  product.Code,
		ID:           nextID,
		PurchaseDate: input.PurchaseDate,
		Expiry:       expiry,
		UnitCost:     input.UnitCost,
		Original:     input.Quantity,
		Available:    input.Quantity,
	}
	if err := uc.repo.Append(ctx, sender, lot); err != nil {
		return nil, 0, err
	}

	newTotal := product.Quantity + input.Quantity
	if err := uc.products.SetQuantity(ctx, sender, product.RowIndex, newTotal); err != nil {
		return nil, 0, err
	}

	price := product.Price
	cost := input.UnitCost
	mv := &model.Movement{
		Date:       input.PurchaseDate.Format(dateLayout),
		Code:       product.Code,
		Name:       product.Name,
		Kind:       model.KindEntry,
		Quantity:   input.Quantity,
		FinalStock: newTotal,
		UnitPrice:  &price,
		UnitCost:   &cost,
	}
	if err := uc.journal.Append(ctx, sender, mv); err != nil {
		return nil, 0, err
	}

	uc.logger.Info("entry registered",
		zap.String("sender", sender),
		zap.String("code", product.Code),
		zap.Int("lot", lot.ID),
		zap.Int("quantity", input.Quantity))
	return lot, newTotal, nil
}

func (uc *ledgerUseCase) RegisterExit(ctx context.Context, sender string, input *dto.ExitInput) (*model.Lot, int, error) {
	if input.Quantity <= 0 {
		return nil, 0, ledger.ErrInvalidQuantity
	}
	product, err := uc.products.FindByCode(ctx, sender, input.Code)
	if err != nil {
		return nil, 0, err
	}
	lots, err := uc.repo.FindByProduct(ctx, sender, product.Code)
	if err != nil {
		return nil, 0, err
	}

	oldest := oldestOpenLot(lots)
	if oldest == nil {
		return nil, 0, ledger.ErrNoStock
	}
	if oldest.Expired(input.ExitDate) {
		return nil, 0, ledger.ErrLotExpired
	}
	if input.Quantity > oldest.Available {
		return nil, 0, ledger.ErrInsufficientStock
	}

	oldest.Available -= input.Quantity
	if err := uc.repo.SetAvailable(ctx, sender, oldest.RowIndex, oldest.Available); err != nil {
		return nil, 0, err
	}

	newTotal := product.Quantity - input.Quantity
	if err := uc.products.SetQuantity(ctx, sender, product.RowIndex, newTotal); err != nil {
		return nil, 0, err
	}

	price := product.Price
	cost := oldest.UnitCost
	mv := &model.Movement{
		Date:       input.ExitDate.Format(dateLayout),
		Code:       product.Code,
		Name:       product.Name,
		Kind:       model.KindExit,
		Quantity:   input.Quantity,
		FinalStock: newTotal,
		UnitPrice:  &price,
		UnitCost:   &cost,
	}
	if err := uc.journal.Append(ctx, sender, mv); err != nil {
		return nil, 0, err
	}

	uc.logger.Info("exit registered",
		zap.String("sender", sender),
		zap.String("code", product.Code),
		zap.Int("lot", oldest.ID),
		zap.Int("quantity", input.Quantity))
	return oldest, newTotal, nil
}

func (uc *ledgerUseCase) ScanAlerts(ctx context.Context, sender string, today time.Time) (*model.AlertReport, error) {
	products, err := uc.products.FindAll(ctx, sender)
	if err != nil {
		return nil, err
	}
	lots, err := uc.repo.FindAll(ctx, sender)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]model.Product, len(products))
	for _, p := range products {
		byCode[p.Code] = p
	}

	report := &model.AlertReport{}
	for _, lot := range lots {
		product, ok := byCode[lot.ProductCode]
		if !ok {
			continue
		}
		alert := model.LotAlert{Product: product, Lot: lot}

		if lot.Available <= product.MinStock {
			report.LowStock = append(report.LowStock, alert)
		}
		// Near-expiry and expired are mutually exclusive; both are
		// independent of the stock check above.
		if lot.Expiry != nil {
			days := daysUntil(today, *lot.Expiry)
			switch {
			case days < 0:
				report.Expired = append(report.Expired, alert)
			case days <= nearExpiryWindow:
				report.NearExpiry = append(report.NearExpiry, alert)
			}
		}
	}
	return report, nil
}

// oldestOpenLot picks the FIFO candidate: the lot with the earliest purchase
// date that still has availability. Ties keep sheet order.
func oldestOpenLot(lots []model.Lot) *model.Lot {
	var open []model.Lot
	for _, lot := range lots {
		if !lot.Exhausted() {
			open = append(open, lot)
		}
	}
	if len(open) == 0 {
		return nil
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].PurchaseDate.Before(open[j].PurchaseDate)
	})
	return &open[0]
}

func inferPerishable(lots []model.Lot) bool {
	for _, lot := range lots {
		if lot.Expiry != nil {
			return true
		}
	}
	return false
}

func daysUntil(today, expiry time.Time) int {
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(t).Hours() / 24)
}
