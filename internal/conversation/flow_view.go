package conversation

import (
	"context"
	"fmt"
	"strings"
)

// listProducts answers main-menu option 1.
func (e *Engine) listProducts(ctx context.Context, sender string) string {
	products, err := e.catalog.List(ctx, sender)
	if err != nil {
		return e.statelessFailure(err)
	}
	if len(products) == 0 {
		return "📦 Aún no tienes productos registrados. Envía *3* para agregar el primero."
	}

	var b strings.Builder
	b.WriteString("📦 Tus productos:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "• *%s* %s (%s) — %d und — $%.2f — %s\n",
			p.Code, p.Name, p.Brand, p.Quantity, p.Price, p.Location)
	}
	return strings.TrimRight(b.String(), "\n")
}

// filterCode answers the code prompt of main-menu option 2.
func (e *Engine) filterCode(ctx context.Context, sess *Session, text string) outcome {
	p, out, ok := e.lookupProduct(ctx, sess, text, StepFilterRetry)
	if !ok {
		return out
	}

	lots, err := e.ledger.Lots(ctx, sess.Sender, p.Code)
	if err != nil {
		return e.failure(sess.Step, err)
	}

	perishable := "no"
	if p.Perishable {
		perishable = "si"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🔎 *%s* — %s\n", p.Code, p.Name)
	fmt.Fprintf(&b, "Marca: %s\nPrecio: $%.2f\nStock: %d (mínimo %d)\n", p.Brand, p.Price, p.Quantity, p.MinStock)
	fmt.Fprintf(&b, "Lugar: %s\nEmpaque: %s\nPerecedero: %s\nCategoría: %s\n", p.Location, p.Package, perishable, p.Category)

	if len(lots) > 0 {
		b.WriteString("Lotes:\n")
		for _, lot := range lots {
			expiry := "sin vencimiento"
			if lot.Expiry != nil {
				expiry = "vence " + lot.Expiry.Format(dateLayout)
			}
			fmt.Fprintf(&b, "• Lote %d: %d/%d disponibles, %s\n", lot.ID, lot.Available, lot.Original, expiry)
		}
	}
	return end(strings.TrimRight(b.String(), "\n"))
}

// statelessFailure is the failure path for menu options that never open a
// session.
func (e *Engine) statelessFailure(err error) string {
	out := e.failure(StepNone, err)
	return out.text
}
