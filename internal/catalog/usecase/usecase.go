package usecase

import (
	"context"
	"strconv"

	"github.com/msalvatierra/bodegabot/internal/catalog"
	"github.com/msalvatierra/bodegabot/internal/catalog/dto"
	"github.com/msalvatierra/bodegabot/internal/ledger"
	"github.com/msalvatierra/bodegabot/internal/model"
	"github.com/msalvatierra/bodegabot/pkg/logger"
	"go.uber.org/zap"
)

type catalogUseCase struct {
	repo   catalog.Repository
	lots   ledger.Repository
	logger logger.ZapLogger
}

func NewCatalogUseCase(repo catalog.Repository, lots ledger.Repository, log logger.ZapLogger) catalog.UseCase {
	return &catalogUseCase{
		repo:   repo,
		lots:   lots,
		logger: log,
	}
}

func (uc *catalogUseCase) List(ctx context.Context, sender string) ([]model.Product, error) {
	return uc.repo.FindAll(ctx, sender)
}

func (uc *catalogUseCase) Find(ctx context.Context, sender, code string) (*model.Product, error) {
	return uc.repo.FindByCode(ctx, sender, code)
}

func (uc *catalogUseCase) Add(ctx context.Context, sender string, input *dto.AddProductInput) (*model.Product, error) {
	existing, err := uc.repo.FindAll(ctx, sender)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(existing))
	for _, p := range existing {
		codes = append(codes, p.Code)
	}

	// The suffix is recomputed from the live table on every add; the
	// caller holds the per-sender lock so two of this sender's messages
	// cannot compute the same suffix.
	code, err := catalog.GenerateCode(input.CategoryDigit, input.Brand, input.Package, codes)
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		Code:       code,
		Name:       input.Name,
		Brand:      input.Brand,
		Price:      input.Price,
		Quantity:   0, // stock arrives through ledger entries
		MinStock:   input.MinStock,
		Location:   input.Location,
		Package:    input.Package,
		Perishable: input.Perishable,
		Category:   input.Category,
	}

	if err := uc.repo.Create(ctx, sender, p); err != nil {
		return nil, err
	}

	uc.logger.Info("product added",
		zap.String("sender", sender),
		zap.String("code", code),
		zap.String("name", input.Name))
	return p, nil
}

func (uc *catalogUseCase) UpdateField(ctx context.Context, sender, code string, field catalog.Field, value string) (*model.Product, error) {
	p, err := uc.repo.FindByCode(ctx, sender, code)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateField(ctx, sender, p.RowIndex, field, value); err != nil {
		return nil, err
	}

	switch field {
	case catalog.FieldName:
		p.Name = value
	case catalog.FieldBrand:
		p.Brand = value
	case catalog.FieldPrice:
		p.Price, _ = strconv.ParseFloat(value, 64)
	case catalog.FieldMinStock:
		p.MinStock, _ = strconv.Atoi(value)
	case catalog.FieldLocation:
		p.Location = value
	}
	return p, nil
}

func (uc *catalogUseCase) Remove(ctx context.Context, sender, code string) (int, error) {
	p, err := uc.repo.FindByCode(ctx, sender, code)
	if err != nil {
		return 0, err
	}

	// Lots go first so a failure between the two deletes cannot leave a
	// product without its lot history.
	removed, err := uc.lots.DeleteByProduct(ctx, sender, p.Code)
	if err != nil {
		return 0, err
	}

	if err := uc.repo.Delete(ctx, sender, p.RowIndex); err != nil {
		return removed, err
	}

	uc.logger.Info("product removed",
		zap.String("sender", sender),
		zap.String("code", p.Code),
		zap.Int("lots_removed", removed))
	return removed, nil
}
