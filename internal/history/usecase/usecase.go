package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/msalvatierra/bodegabot/internal/history"
	"github.com/msalvatierra/bodegabot/internal/ledger"
	"github.com/msalvatierra/bodegabot/internal/model"
	"github.com/msalvatierra/bodegabot/pkg/logger"
	"go.uber.org/zap"
)

type historyUseCase struct {
	repo   history.Repository
	lots   ledger.Repository
	logger logger.ZapLogger
}

func NewHistoryUseCase(repo history.Repository, lots ledger.Repository, log logger.ZapLogger) history.UseCase {
	return &historyUseCase{
		repo:   repo,
		lots:   lots,
		logger: log,
	}
}

func (uc *historyUseCase) IsDuplicate(ctx context.Context, sender, date, code string, kind model.MovementKind) (bool, error) {
	movements, err := uc.repo.FindAll(ctx, sender)
	if err != nil {
		return false, err
	}
	for _, mv := range movements {
		if mv.Date == date && mv.Code == code && mv.Kind == kind {
			return true, nil
		}
	}
	return false, nil
}

func (uc *historyUseCase) Record(ctx context.Context, sender string, mv *model.Movement) error {
	if err := uc.repo.Append(ctx, sender, mv); err != nil {
		return err
	}
	uc.logger.Info("movement journaled",
		zap.String("sender", sender),
		zap.String("code", mv.Code),
		zap.String("kind", string(mv.Kind)))
	return nil
}

func (uc *historyUseCase) BuildReport(ctx context.Context, sender string, today time.Time) (*model.ReportSummary, error) {
	movements, err := uc.repo.FindAll(ctx, sender)
	if err != nil {
		return nil, err
	}
	lots, err := uc.lots.FindAll(ctx, sender)
	if err != nil {
		return nil, err
	}
	name, err := uc.repo.ClientName(ctx, sender)
	if err != nil {
		return nil, err
	}

	summary := aggregate(movements, lots, today)
	summary.ClientName = name
	return summary, nil
}

// aggregate folds the exit history and the lot ledger into the report
// summary. Rankings keep first-seen order on ties.
func aggregate(movements []model.Movement, lots []model.Lot, today time.Time) *model.ReportSummary {
	summary := &model.ReportSummary{}

	byDate := map[string]int{}
	var dateOrder []string
	byProduct := map[string]int{}
	var productOrder []string

	for _, mv := range movements {
		if mv.Kind != model.KindExit {
			continue
		}
		if _, seen := byDate[mv.Date]; !seen {
			dateOrder = append(dateOrder, mv.Date)
		}
		byDate[mv.Date] += mv.Quantity

		if _, seen := byProduct[mv.Name]; !seen {
			productOrder = append(productOrder, mv.Name)
		}
		byProduct[mv.Name] += mv.Quantity

		// Rows from before cost capture carry neither figure and are
		// skipped, not counted as zero profit.
		if mv.UnitPrice != nil && mv.UnitCost != nil {
			summary.Profit += (*mv.UnitPrice - *mv.UnitCost) * float64(mv.Quantity)
		}
	}

	peak := 0
	for _, total := range byDate {
		if total > peak {
			peak = total
		}
	}
	for _, date := range dateOrder {
		if byDate[date] == peak && peak > 0 {
			summary.PeakDates = append(summary.PeakDates, model.DateTotal{Date: date, Total: peak})
		}
	}

	ranked := make([]model.ProductTotal, 0, len(productOrder))
	for _, name := range productOrder {
		ranked = append(ranked, model.ProductTotal{Name: name, Total: byProduct[name]})
	}
	best := append([]model.ProductTotal(nil), ranked...)
	sort.SliceStable(best, func(i, j int) bool { return best[i].Total > best[j].Total })
	summary.BestSellers = topN(best, 3)

	worst := append([]model.ProductTotal(nil), ranked...)
	sort.SliceStable(worst, func(i, j int) bool { return worst[i].Total < worst[j].Total })
	summary.WorstSellers = topN(worst, 3)

	for _, lot := range lots {
		if !lot.Exhausted() && lot.Expired(today) {
			summary.ExpiryLoss += float64(lot.Available) * lot.UnitCost
		}
	}
	return summary
}

func topN(totals []model.ProductTotal, n int) []model.ProductTotal {
	if len(totals) > n {
		totals = totals[:n]
	}
	return totals
}
