package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogrepo "github.com/msalvatierra/bodegabot/internal/catalog/repository"
	"github.com/msalvatierra/bodegabot/internal/history"
	historyrepo "github.com/msalvatierra/bodegabot/internal/history/repository"
	"github.com/msalvatierra/bodegabot/internal/history/usecase"
	ledgerrepo "github.com/msalvatierra/bodegabot/internal/ledger/repository"
	"github.com/msalvatierra/bodegabot/internal/model"
	"github.com/msalvatierra/bodegabot/internal/store"
)

const sender = "56911111111"

func newFixture(t *testing.T) (history.UseCase, *historyrepo.RowRepository, *ledgerrepo.RowRepository) {
	t.Helper()

	mem := store.NewMemory()
	mem.RegisterClient(sender, "Bodega Test", map[string][]string{
		store.ProductsSheet: catalogrepo.ProductHeader,
		store.LotsSheet:     ledgerrepo.LotHeader,
		store.HistorySheet:  historyrepo.HistoryHeader,
	})

	historyRepo := historyrepo.NewRowRepository(mem)
	lotRepo := ledgerrepo.NewRowRepository(mem)
	uc := usecase.NewHistoryUseCase(historyRepo, lotRepo, zap.NewNop())
	return uc, historyRepo, lotRepo
}

func fptr(f float64) *float64 { return &f }

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRecordAppendsToJournal(t *testing.T) {
	uc, repo, _ := newFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Record(ctx, sender, &model.Movement{
		Date: "2024-05-01", Code: "1AB01", Name: "Widget",
		Kind: model.KindEntry, Quantity: 5, FinalStock: 5,
		UnitPrice: fptr(10), UnitCost: fptr(6),
	}))

	movements, err := repo.FindAll(ctx, sender)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, "1AB01", movements[0].Code)
	assert.Equal(t, model.KindEntry, movements[0].Kind)
	require.NotNil(t, movements[0].UnitCost)
	assert.Equal(t, 6.0, *movements[0].UnitCost)
}

func TestIsDuplicate(t *testing.T) {
	uc, repo, _ := newFixture(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, sender, &model.Movement{
		Date: "2024-05-01", Code: "1AB01", Name: "Widget",
		Kind: model.KindExit, Quantity: 3, FinalStock: 7,
	}))

	dup, err := uc.IsDuplicate(ctx, sender, "2024-05-01", "1AB01", model.KindExit)
	require.NoError(t, err)
	assert.True(t, dup)

	// Same date and code but the other kind is not a duplicate.
	dup, err = uc.IsDuplicate(ctx, sender, "2024-05-01", "1AB01", model.KindEntry)
	require.NoError(t, err)
	assert.False(t, dup)

	dup, err = uc.IsDuplicate(ctx, sender, "2024-05-02", "1AB01", model.KindExit)
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestBuildReportAggregation(t *testing.T) {
	uc, repo, _ := newFixture(t)
	ctx := context.Background()

	rows := []*model.Movement{
		{Date: "2024-05-01", Code: "X", Name: "Widget", Kind: model.KindExit,
			Quantity: 3, FinalStock: 7, UnitPrice: fptr(10), UnitCost: fptr(6)},
		{Date: "2024-05-01", Code: "X", Name: "Widget", Kind: model.KindExit,
			Quantity: 2, FinalStock: 5, UnitPrice: fptr(10), UnitCost: fptr(6)},
	}
	for _, mv := range rows {
		require.NoError(t, repo.Append(ctx, sender, mv))
	}

	summary, err := uc.BuildReport(ctx, sender, date("2024-06-01"))
	require.NoError(t, err)

	assert.Equal(t, "Bodega Test", summary.ClientName)

	require.Len(t, summary.PeakDates, 1)
	assert.Equal(t, "2024-05-01", summary.PeakDates[0].Date)
	assert.Equal(t, 5, summary.PeakDates[0].Total)

	require.NotEmpty(t, summary.BestSellers)
	assert.Equal(t, "Widget", summary.BestSellers[0].Name)
	assert.Equal(t, 5, summary.BestSellers[0].Total)

	assert.Equal(t, 20.0, summary.Profit)
}

func TestBuildReportSkipsRowsWithoutCostData(t *testing.T) {
	uc, repo, _ := newFixture(t)
	ctx := context.Background()

	// A legacy row without price/cost counts for volume but not profit.
	require.NoError(t, repo.Append(ctx, sender, &model.Movement{
		Date: "2024-05-01", Code: "X", Name: "Widget",
		Kind: model.KindExit, Quantity: 4, FinalStock: 6,
	}))
	require.NoError(t, repo.Append(ctx, sender, &model.Movement{
		Date: "2024-05-02", Code: "X", Name: "Widget", Kind: model.KindExit,
		Quantity: 1, FinalStock: 5, UnitPrice: fptr(10), UnitCost: fptr(6),
	}))

	summary, err := uc.BuildReport(ctx, sender, date("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, 4.0, summary.Profit)
	assert.Equal(t, 5, summary.BestSellers[0].Total)
}

func TestBuildReportEntriesDoNotCount(t *testing.T) {
	uc, repo, _ := newFixture(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, sender, &model.Movement{
		Date: "2024-05-01", Code: "X", Name: "Widget", Kind: model.KindEntry,
		Quantity: 50, FinalStock: 50, UnitPrice: fptr(10), UnitCost: fptr(6),
	}))

	summary, err := uc.BuildReport(ctx, sender, date("2024-06-01"))
	require.NoError(t, err)
	assert.Empty(t, summary.PeakDates)
	assert.Empty(t, summary.BestSellers)
	assert.Zero(t, summary.Profit)
}

func TestBuildReportRanksBestAndWorst(t *testing.T) {
	uc, repo, _ := newFixture(t)
	ctx := context.Background()

	sales := map[string]int{"A": 9, "B": 7, "C": 5, "D": 3}
	for _, name := range []string{"A", "B", "C", "D"} {
		require.NoError(t, repo.Append(ctx, sender, &model.Movement{
			Date: "2024-05-01", Code: name, Name: name,
			Kind: model.KindExit, Quantity: sales[name], FinalStock: 0,
		}))
	}

	summary, err := uc.BuildReport(ctx, sender, date("2024-06-01"))
	require.NoError(t, err)

	require.Len(t, summary.BestSellers, 3)
	assert.Equal(t, "A", summary.BestSellers[0].Name)
	assert.Equal(t, "B", summary.BestSellers[1].Name)
	assert.Equal(t, "C", summary.BestSellers[2].Name)

	require.Len(t, summary.WorstSellers, 3)
	assert.Equal(t, "D", summary.WorstSellers[0].Name)
	assert.Equal(t, "C", summary.WorstSellers[1].Name)
	assert.Equal(t, "B", summary.WorstSellers[2].Name)
}

func TestBuildReportExpiryLoss(t *testing.T) {
	uc, _, lots := newFixture(t)
	ctx := context.Background()

	expired := date("2024-04-01")
	fresh := date("2024-12-01")
	require.NoError(t, lots.Append(ctx, sender, &model.Lot{
		ProductCode: "X", ID: 1, PurchaseDate: date("2024-03-01"),
		Expiry: &expired, UnitCost: 4, Original: 5, Available: 3,
	}))
	require.NoError(t, lots.Append(ctx, sender, &model.Lot{
		ProductCode: "X", ID: 2, PurchaseDate: date("2024-05-01"),
		Expiry: &fresh, UnitCost: 4, Original: 5, Available: 5,
	}))
	// Exhausted expired lots cost nothing.
	require.NoError(t, lots.Append(ctx, sender, &model.Lot{
		ProductCode: "X", ID: 3, PurchaseDate: date("2024-02-01"),
		Expiry: &expired, UnitCost: 9, Original: 5, Available: 0,
	}))

	summary, err := uc.BuildReport(ctx, sender, date("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, 12.0, summary.ExpiryLoss)
}
