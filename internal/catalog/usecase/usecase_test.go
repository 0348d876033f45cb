package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/msalvatierra/bodegabot/internal/catalog"
	"github.com/msalvatierra/bodegabot/internal/catalog/dto"
	catalogrepo "github.com/msalvatierra/bodegabot/internal/catalog/repository"
	"github.com/msalvatierra/bodegabot/internal/catalog/usecase"
	historyrepo "github.com/msalvatierra/bodegabot/internal/history/repository"
	ledgerrepo "github.com/msalvatierra/bodegabot/internal/ledger/repository"
	"github.com/msalvatierra/bodegabot/internal/model"
	"github.com/msalvatierra/bodegabot/internal/store"
)

const sender = "56911111111"

func newFixture(t *testing.T) (catalog.UseCase, *ledgerrepo.RowRepository) {
	t.Helper()

	mem := store.NewMemory()
	mem.RegisterClient(sender, "Bodega Test", map[string][]string{
		store.ProductsSheet: catalogrepo.ProductHeader,
		store.LotsSheet:     ledgerrepo.LotHeader,
		store.HistorySheet:  historyrepo.HistoryHeader,
	})

	productRepo := catalogrepo.NewRowRepository(mem)
	lotRepo := ledgerrepo.NewRowRepository(mem)
	return usecase.NewCatalogUseCase(productRepo, lotRepo, zap.NewNop()), lotRepo
}

func addInput(name, brand, pkg string) *dto.AddProductInput {
	return &dto.AddProductInput{
		CategoryDigit: "1",
		Category:      "Abarrotes",
		Name:          name,
		Brand:         brand,
		Price:         10,
		MinStock:      2,
		Location:      "Estante A",
		Package:       pkg,
	}
}

func TestAddAssignsCodesPerPrefix(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	p1, err := uc.Add(ctx, sender, addInput("Arroz", "Acme", "bolsa"))
	require.NoError(t, err)
	assert.Equal(t, "1AB01", p1.Code)
	assert.Zero(t, p1.Quantity)

	p2, err := uc.Add(ctx, sender, addInput("Azucar", "Acme", "bolsa"))
	require.NoError(t, err)
	assert.Equal(t, "1AB02", p2.Code)

	// A different brand initial opens its own suffix sequence.
	p3, err := uc.Add(ctx, sender, addInput("Fideos", "Molitalia", "bolsa"))
	require.NoError(t, err)
	assert.Equal(t, "1MB01", p3.Code)
}

func TestFindUnknownCode(t *testing.T) {
	uc, _ := newFixture(t)

	_, err := uc.Find(context.Background(), sender, "9ZZ01")
	assert.ErrorIs(t, err, catalog.ErrCodeNotFound)
}

func TestUpdateFieldPersists(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	p, err := uc.Add(ctx, sender, addInput("Arroz", "Acme", "bolsa"))
	require.NoError(t, err)

	updated, err := uc.UpdateField(ctx, sender, p.Code, catalog.FieldPrice, "12.5")
	require.NoError(t, err)
	assert.Equal(t, 12.5, updated.Price)

	got, err := uc.Find(ctx, sender, p.Code)
	require.NoError(t, err)
	assert.Equal(t, 12.5, got.Price)
	assert.Equal(t, "Arroz", got.Name)
}

func TestRemoveCascadesToLots(t *testing.T) {
	uc, lots := newFixture(t)
	ctx := context.Background()

	p, err := uc.Add(ctx, sender, addInput("Arroz", "Acme", "bolsa"))
	require.NoError(t, err)
	keep, err := uc.Add(ctx, sender, addInput("Azucar", "Acme", "caja"))
	require.NoError(t, err)

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 2; i++ {
		require.NoError(t, lots.Append(ctx, sender, &model.Lot{
			ProductCode: p.Code, ID: i, PurchaseDate: day,
			UnitCost: 5, Original: 3, Available: 3,
		}))
	}
	require.NoError(t, lots.Append(ctx, sender, &model.Lot{
		ProductCode: keep.Code, ID: 1, PurchaseDate: day,
		UnitCost: 5, Original: 3, Available: 3,
	}))

	removed, err := uc.Remove(ctx, sender, p.Code)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = uc.Find(ctx, sender, p.Code)
	assert.ErrorIs(t, err, catalog.ErrCodeNotFound)

	// The other product and its lot survive.
	left, err := lots.FindByProduct(ctx, sender, keep.Code)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}
