package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/msalvatierra/bodegabot/internal/ledger"
	ledgerdto "github.com/msalvatierra/bodegabot/internal/ledger/dto"
	"github.com/msalvatierra/bodegabot/internal/model"
)

func entryDetailsPrompt(perishable bool) string {
	prompt := "Envía los datos separados por coma:\n" +
		"fecha compra (AAAA-MM-DD), costo unitario, cantidad"
	if perishable {
		prompt += ", fecha vencimiento (AAAA-MM-DD)"
	}
	return prompt
}

func (e *Engine) entryNeedsExpiry(sess *Session) bool {
	return sess.Product.Perishable || sess.Fields["vencimiento_requerido"] == "si"
}

func (e *Engine) entryCode(ctx context.Context, sess *Session, text string) outcome {
	p, out, ok := e.lookupProduct(ctx, sess, text, StepEntryRetry)
	if !ok {
		return out
	}
	return to(StepEntryDetails, fmt.Sprintf("📥 *%s* — %s\n%s", p.Code, p.Name, entryDetailsPrompt(p.Perishable)))
}

func (e *Engine) entryDetails(ctx context.Context, sess *Session, text string) outcome {
	needsExpiry := e.entryNeedsExpiry(sess)

	specs := []fieldSpec{
		{"fecha compra", kindDate},
		{"costo unitario", kindFloat},
		{"cantidad", kindPositiveInt},
	}
	if needsExpiry {
		specs = append(specs, fieldSpec{"fecha vencimiento", kindDate})
	}

	values, err := parseLine(text, specs)
	if err != nil {
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			return to(sess.Step, "⚠️ "+inputErr.Error()+"\n"+entryDetailsPrompt(needsExpiry))
		}
		return e.failure(sess.Step, err)
	}

	sess.Fields["fecha"] = values[0]
	sess.Fields["costo"] = values[1]
	sess.Fields["cantidad"] = values[2]
	if needsExpiry {
		sess.Fields["vencimiento"] = values[3]
	}

	dup, err := e.history.IsDuplicate(ctx, sess.Sender, values[0], sess.Product.Code, model.KindEntry)
	if err != nil {
		return e.failure(sess.Step, err)
	}
	if dup {
		return to(StepEntryDuplicate, fmt.Sprintf(
			"⚠️ Ya registraste una entrada de *%s* el %s. ¿Registrar de todos modos? (si/no)",
			sess.Product.Code, values[0]))
	}
	return e.applyEntry(ctx, sess)
}

func (e *Engine) entryDuplicate(ctx context.Context, sess *Session, text string) outcome {
	switch {
	case isYes(text):
		return e.applyEntry(ctx, sess)
	case isNo(text):
		return end("👍 Entrada descartada, no se registró ningún movimiento.")
	}
	return to(sess.Step, "Responde *si* o *no*.")
}

func (e *Engine) applyEntry(ctx context.Context, sess *Session) outcome {
	input := &ledgerdto.EntryInput{
		Code:         sess.Product.Code,
		PurchaseDate: parseDateValue(sess.Fields["fecha"]),
		UnitCost:     parseFloatValue(sess.Fields["costo"]),
		Quantity:     parseIntValue(sess.Fields["cantidad"]),
	}
	if v := sess.Fields["vencimiento"]; v != "" {
		expiry := parseDateValue(v)
		input.Expiry = &expiry
	}

	lot, total, err := e.ledger.RegisterEntry(ctx, sess.Sender, input)
	if err != nil {
		// Old rows can mark a line perishable even when the product
		// cell says otherwise; re-ask including the expiry date.
		if errors.Is(err, ledger.ErrExpiryRequired) {
			sess.Fields["vencimiento_requerido"] = "si"
			return to(StepEntryDetails, "⚠️ Este producto es perecedero.\n"+entryDetailsPrompt(true))
		}
		return e.failure(sess.Step, err)
	}

	return to(StepEntryAnother, fmt.Sprintf(
		"✅ Entrada registrada: lote %d de *%s*, stock total %d.\n¿Registrar otra entrada? (si/no)",
		lot.ID, sess.Product.Code, total))
}
