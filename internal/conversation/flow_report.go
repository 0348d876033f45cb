package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/msalvatierra/bodegabot/internal/model"
	"go.uber.org/zap"
)

// buildReport answers main-menu option 8 with a PDF link.
func (e *Engine) buildReport(ctx context.Context, sender string) *Reply {
	summary, err := e.history.BuildReport(ctx, sender, e.now())
	if err != nil {
		return &Reply{Text: e.statelessFailure(err)}
	}

	clientName := summary.ClientName
	if clientName == "" {
		clientName = sender
	}
	data, err := e.renderer.Render(summary, clientName)
	if err != nil {
		e.logger.Error("report render failed", zap.String("sender", sender), zap.Error(err))
		return &Reply{Text: errorReply}
	}

	filename := fmt.Sprintf("reporte_%s_%s.pdf", sender, uuid.NewString()[:8])
	url, err := e.publisher.Publish(data, filename)
	if err != nil {
		e.logger.Error("report publish failed", zap.String("sender", sender), zap.Error(err))
		return &Reply{Text: errorReply}
	}

	return &Reply{
		Text:     "📊 Tu reporte de ventas está listo:\n" + url,
		MediaURL: url,
	}
}

// purchaseSuggestions answers main-menu option 9: products at or below their
// minimum stock, with a reorder quantity that restores twice the minimum.
func (e *Engine) purchaseSuggestions(ctx context.Context, sender string) string {
	products, err := e.catalog.List(ctx, sender)
	if err != nil {
		return e.statelessFailure(err)
	}

	var b strings.Builder
	for _, p := range products {
		if p.Quantity > p.MinStock {
			continue
		}
		suggested := p.MinStock*2 - p.Quantity
		if suggested < p.MinStock {
			suggested = p.MinStock
		}
		fmt.Fprintf(&b, "• *%s* %s: stock %d (mínimo %d) → comprar %d\n",
			p.Code, p.Name, p.Quantity, p.MinStock, suggested)
	}
	if b.Len() == 0 {
		return "🛒 Sin sugerencias: ningún producto está en su stock mínimo."
	}
	return "🛒 Sugerencias de compra:\n" + strings.TrimRight(b.String(), "\n")
}

// stockAlerts answers main-menu option 0 with the three independent scans.
func (e *Engine) stockAlerts(ctx context.Context, sender string) string {
	report, err := e.ledger.ScanAlerts(ctx, sender, e.now())
	if err != nil {
		return e.statelessFailure(err)
	}

	var b strings.Builder
	section := func(title string, alerts []model.LotAlert, expiry bool) {
		b.WriteString(title + "\n")
		if len(alerts) == 0 {
			b.WriteString("• Sin alertas\n")
			return
		}
		for _, a := range alerts {
			if expiry && a.Lot.Expiry != nil {
				fmt.Fprintf(&b, "• *%s* %s, lote %d: vence %s (%d disponibles)\n",
					a.Product.Code, a.Product.Name, a.Lot.ID,
					a.Lot.Expiry.Format(dateLayout), a.Lot.Available)
				continue
			}
			fmt.Fprintf(&b, "• *%s* %s, lote %d: %d disponibles (mínimo %d)\n",
				a.Product.Code, a.Product.Name, a.Lot.ID, a.Lot.Available, a.Product.MinStock)
		}
	}

	section("📉 Stock mínimo:", report.LowStock, false)
	section("⏳ Por vencer (21 días):", report.NearExpiry, true)
	section("❌ Vencidos:", report.Expired, true)
	return strings.TrimRight(b.String(), "\n")
}
