package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/msalvatierra/bodegabot/internal/catalog"
	catalogdto "github.com/msalvatierra/bodegabot/internal/catalog/dto"
	ledgerdto "github.com/msalvatierra/bodegabot/internal/ledger/dto"
)

func addDetailsPrompt(perishable bool) string {
	prompt := "Envía los datos separados por coma:\n" +
		"nombre, marca, precio, cantidad, stock mínimo, lugar"
	if perishable {
		prompt += ", fecha vencimiento (AAAA-MM-DD)"
	}
	return prompt
}

func (e *Engine) addPerishable(sess *Session, text string) outcome {
	switch {
	case isYes(text):
		sess.Fields["perecedero"] = "si"
		return to(StepAddCategory, categoryMenu(true))
	case isNo(text):
		sess.Fields["perecedero"] = "no"
		return to(StepAddCategory, categoryMenu(false))
	}
	return to(sess.Step, "Responde *si* o *no*: ¿el producto es perecedero?")
}

func (e *Engine) addCategory(sess *Session, text string) outcome {
	perishable := sess.Fields["perecedero"] == "si"
	category, ok := categoryByDigit(perishable, text)
	if !ok {
		return to(sess.Step, "Elige una categoría válida.\n"+categoryMenu(perishable))
	}
	sess.Fields["categoria"] = category
	sess.Fields["digito"] = text
	return to(StepAddDetails, addDetailsPrompt(perishable))
}

func (e *Engine) addDetails(sess *Session, text string) outcome {
	perishable := sess.Fields["perecedero"] == "si"

	specs := []fieldSpec{
		{"nombre", kindText},
		{"marca", kindText},
		{"precio", kindFloat},
		{"cantidad", kindInt},
		{"stock mínimo", kindInt},
		{"lugar", kindText},
	}
	if perishable {
		specs = append(specs, fieldSpec{"fecha vencimiento", kindDate})
	}

	values, err := parseLine(text, specs)
	if err != nil {
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			return to(sess.Step, "⚠️ "+inputErr.Error()+"\n"+addDetailsPrompt(perishable))
		}
		return e.failure(sess.Step, err)
	}
	// Zero means no initial stock; negatives are a typo.
	if parseIntValue(values[3]) < 0 {
		inputErr := &InputError{Field: "cantidad", Reason: "no puede ser negativa"}
		return to(sess.Step, "⚠️ "+inputErr.Error()+"\n"+addDetailsPrompt(perishable))
	}

	sess.Fields["nombre"] = values[0]
	sess.Fields["marca"] = values[1]
	sess.Fields["precio"] = values[2]
	sess.Fields["cantidad"] = values[3]
	sess.Fields["stock_minimo"] = values[4]
	sess.Fields["lugar"] = values[5]
	if perishable {
		sess.Fields["vencimiento"] = values[6]
	}
	return to(StepAddPackage, "¿Tipo de empaque? (ej. botella, caja, bolsa)")
}

func (e *Engine) addPackage(ctx context.Context, sess *Session, text string) outcome {
	if text == "" {
		return to(sess.Step, "El empaque no puede estar vacío. ¿Tipo de empaque?")
	}
	sess.Fields["empaque"] = text

	if parseIntValue(sess.Fields["cantidad"]) > 0 {
		return to(StepAddUnitCost, "¿Costo unitario de compra del stock inicial?")
	}
	return e.finishAdd(ctx, sess)
}

func (e *Engine) addUnitCost(ctx context.Context, sess *Session, text string) outcome {
	if _, err := parseLine(text, []fieldSpec{{"costo unitario", kindFloat}}); err != nil {
		return to(sess.Step, "⚠️ El costo debe ser un número. ¿Costo unitario de compra?")
	}
	sess.Fields["costo"] = text
	return e.finishAdd(ctx, sess)
}

// finishAdd generates the code, appends the product row and, when an
// initial quantity was captured, registers the first lot as a stock entry.
func (e *Engine) finishAdd(ctx context.Context, sess *Session) outcome {
	perishable := sess.Fields["perecedero"] == "si"

	input := &catalogdto.AddProductInput{
		CategoryDigit: sess.Fields["digito"],
		Category:      sess.Fields["categoria"],
		Perishable:    perishable,
		Name:          sess.Fields["nombre"],
		Brand:         sess.Fields["marca"],
		Price:         parseFloatValue(sess.Fields["precio"]),
		MinStock:      parseIntValue(sess.Fields["stock_minimo"]),
		Location:      sess.Fields["lugar"],
		Package:       sess.Fields["empaque"],
	}

	p, err := e.catalog.Add(ctx, sess.Sender, input)
	if err != nil {
		if errors.Is(err, catalog.ErrCodeSpaceFull) {
			return end("❌ Ya no quedan códigos disponibles para esa combinación de categoría, marca y empaque. " +
				"Elimina códigos en desuso o usa otra marca/empaque.")
		}
		return e.failure(sess.Step, err)
	}

	quantity := parseIntValue(sess.Fields["cantidad"])
	stock := 0
	if quantity > 0 {
		entry := &ledgerdto.EntryInput{
			Code:         p.Code,
			PurchaseDate: e.now(),
			UnitCost:     parseFloatValue(sess.Fields["costo"]),
			Quantity:     quantity,
		}
		if v := sess.Fields["vencimiento"]; v != "" {
			expiry := parseDateValue(v)
			entry.Expiry = &expiry
		}
		if _, total, err := e.ledger.RegisterEntry(ctx, sess.Sender, entry); err != nil {
			return e.failure(sess.Step, err)
		} else {
			stock = total
		}
	}

	msg := fmt.Sprintf("✅ Producto *%s* registrado con código *%s*. Stock inicial: %d.\n"+
		"¿Registrar otro producto? (si/no)", p.Name, p.Code, stock)
	return to(StepAddAnother, msg)
}
