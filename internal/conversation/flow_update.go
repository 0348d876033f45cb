package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/msalvatierra/bodegabot/internal/catalog"
)

const updateFieldMenu = "¿Qué campo quieres cambiar?\n" +
	"1️⃣ Nombre\n" +
	"2️⃣ Marca\n" +
	"3️⃣ Precio\n" +
	"4️⃣ Stock mínimo\n" +
	"5️⃣ Lugar"

var updateFields = map[string]struct {
	label string
	field catalog.Field
	kind  fieldKind
}{
	"1": {"nombre", catalog.FieldName, kindText},
	"2": {"marca", catalog.FieldBrand, kindText},
	"3": {"precio", catalog.FieldPrice, kindFloat},
	"4": {"stock mínimo", catalog.FieldMinStock, kindInt},
	"5": {"lugar", catalog.FieldLocation, kindText},
}

func (e *Engine) updateCode(ctx context.Context, sess *Session, text string) outcome {
	p, out, ok := e.lookupProduct(ctx, sess, text, StepUpdateRetry)
	if !ok {
		return out
	}
	return to(StepUpdateField, fmt.Sprintf("✏️ *%s* — %s\n%s", p.Code, p.Name, updateFieldMenu))
}

func (e *Engine) updateField(sess *Session, text string) outcome {
	choice, ok := updateFields[strings.TrimSpace(text)]
	if !ok {
		return to(sess.Step, "Elige una opción válida.\n"+updateFieldMenu)
	}
	sess.Fields["campo"] = strings.TrimSpace(text)
	return to(StepUpdateValue, "Envía el nuevo valor para *"+choice.label+"*:")
}

func (e *Engine) updateValue(sess *Session, text string) outcome {
	choice := updateFields[sess.Fields["campo"]]

	if _, err := parseLine(text, []fieldSpec{{choice.label, choice.kind}}); err != nil {
		return to(sess.Step, "⚠️ "+err.Error()+"\nEnvía el nuevo valor para *"+choice.label+"*:")
	}

	value := strings.TrimSpace(text)
	sess.Fields["valor"] = value
	old := currentFieldValue(sess, choice.field)
	return to(StepUpdateConfirm, fmt.Sprintf("¿Confirmas cambiar *%s* de %q a %q? (si/no)", choice.label, old, value))
}

func (e *Engine) updateConfirm(ctx context.Context, sess *Session, text string) outcome {
	switch {
	case isYes(text):
		choice := updateFields[sess.Fields["campo"]]
		p, err := e.catalog.UpdateField(ctx, sess.Sender, sess.Product.Code, choice.field, sess.Fields["valor"])
		if err != nil {
			return e.failure(sess.Step, err)
		}
		return end(fmt.Sprintf("✅ Producto *%s* actualizado.", p.Code))
	case isNo(text):
		return end("👍 Operación cancelada, no se cambió nada.")
	}
	return to(sess.Step, "Responde *si* o *no*.")
}

func currentFieldValue(sess *Session, field catalog.Field) string {
	p := sess.Product
	if p == nil {
		return ""
	}
	switch field {
	case catalog.FieldName:
		return p.Name
	case catalog.FieldBrand:
		return p.Brand
	case catalog.FieldPrice:
		return strconv.FormatFloat(p.Price, 'f', -1, 64)
	case catalog.FieldMinStock:
		return strconv.Itoa(p.MinStock)
	case catalog.FieldLocation:
		return p.Location
	}
	return ""
}
