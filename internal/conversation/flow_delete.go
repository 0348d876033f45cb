package conversation

import (
	"context"
	"fmt"
)

func (e *Engine) deleteCode(ctx context.Context, sess *Session, text string) outcome {
	p, out, ok := e.lookupProduct(ctx, sess, text, StepDeleteRetry)
	if !ok {
		return out
	}
	return to(StepDeleteConfirm, fmt.Sprintf(
		"🗑️ ¿Eliminar *%s* (%s)? Sus lotes se eliminarán también; el historial se conserva. (si/no)",
		p.Name, p.Code))
}

func (e *Engine) deleteConfirm(ctx context.Context, sess *Session, text string) outcome {
	switch {
	case isYes(text):
		lots, err := e.catalog.Remove(ctx, sess.Sender, sess.Product.Code)
		if err != nil {
			return e.failure(sess.Step, err)
		}
		return end(fmt.Sprintf("✅ Producto *%s* eliminado junto con %d lote(s).", sess.Product.Code, lots))
	case isNo(text):
		return end("👍 Operación cancelada, el producto sigue en tu inventario.")
	}
	return to(sess.Step, "Responde *si* o *no*.")
}
