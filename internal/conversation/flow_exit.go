package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/msalvatierra/bodegabot/internal/ledger"
	ledgerdto "github.com/msalvatierra/bodegabot/internal/ledger/dto"
	"github.com/msalvatierra/bodegabot/internal/model"
)

const exitDetailsPrompt = "Envía los datos separados por coma:\nfecha (AAAA-MM-DD), cantidad"

func (e *Engine) exitCode(ctx context.Context, sess *Session, text string) outcome {
	p, out, ok := e.lookupProduct(ctx, sess, text, StepExitRetry)
	if !ok {
		return out
	}
	return to(StepExitDetails, fmt.Sprintf("📤 *%s* — %s, stock %d\n%s", p.Code, p.Name, p.Quantity, exitDetailsPrompt))
}

func (e *Engine) exitDetails(ctx context.Context, sess *Session, text string) outcome {
	values, err := parseLine(text, []fieldSpec{
		{"fecha", kindDate},
		{"cantidad", kindPositiveInt},
	})
	if err != nil {
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			return to(sess.Step, "⚠️ "+inputErr.Error()+"\n"+exitDetailsPrompt)
		}
		return e.failure(sess.Step, err)
	}

	sess.Fields["fecha"] = values[0]
	sess.Fields["cantidad"] = values[1]

	dup, err := e.history.IsDuplicate(ctx, sess.Sender, values[0], sess.Product.Code, model.KindExit)
	if err != nil {
		return e.failure(sess.Step, err)
	}
	if dup {
		return to(StepExitDuplicate, fmt.Sprintf(
			"⚠️ Ya registraste una salida de *%s* el %s. ¿Registrar de todos modos? (si/no)",
			sess.Product.Code, values[0]))
	}
	return e.applyExit(ctx, sess)
}

func (e *Engine) exitDuplicate(ctx context.Context, sess *Session, text string) outcome {
	switch {
	case isYes(text):
		return e.applyExit(ctx, sess)
	case isNo(text):
		return end("👍 Salida descartada, no se registró ningún movimiento.")
	}
	return to(sess.Step, "Responde *si* o *no*.")
}

func (e *Engine) applyExit(ctx context.Context, sess *Session) outcome {
	input := &ledgerdto.ExitInput{
		Code:     sess.Product.Code,
		ExitDate: parseDateValue(sess.Fields["fecha"]),
		Quantity: parseIntValue(sess.Fields["cantidad"]),
	}

	lot, total, err := e.ledger.RegisterExit(ctx, sess.Sender, input)
	switch {
	case errors.Is(err, ledger.ErrLotExpired):
		return end(fmt.Sprintf(
			"❌ El lote más antiguo de *%s* está vencido; no se puede vender producto vencido. "+
				"No se realizó ningún movimiento. Revisa la opción 0 del menú.", sess.Product.Code))
	case errors.Is(err, ledger.ErrNoStock):
		return end(fmt.Sprintf("❌ *%s* no tiene lotes con stock disponible.", sess.Product.Code))
	case errors.Is(err, ledger.ErrInsufficientStock):
		return to(StepExitDetails,
			"⚠️ El lote más antiguo no alcanza para esa cantidad. Envía una cantidad menor.\n"+exitDetailsPrompt)
	case err != nil:
		return e.failure(sess.Step, err)
	}

	return to(StepExitAnother, fmt.Sprintf(
		"✅ Salida registrada del lote %d de *%s*, stock total %d.\n¿Registrar otra salida? (si/no)",
		lot.ID, sess.Product.Code, total))
}
