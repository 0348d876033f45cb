package conversation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/msalvatierra/bodegabot/internal/catalog"
	"github.com/msalvatierra/bodegabot/internal/history"
	"github.com/msalvatierra/bodegabot/internal/ledger"
	"github.com/msalvatierra/bodegabot/internal/model"
	"github.com/msalvatierra/bodegabot/internal/report"
	"github.com/msalvatierra/bodegabot/internal/store"
	"github.com/msalvatierra/bodegabot/pkg/logger"
	"go.uber.org/zap"
)

// Reply is what goes back to the sender: one text body and, for the report
// flow, one media link.
type Reply struct {
	Text     string
	MediaURL string
}

// outcome is a step handler's result. Handlers never touch the session map
// or re-enter the dispatcher; the engine applies the transition.
type outcome struct {
	text  string
	media string
	next  Step
	done  bool
}

func to(next Step, text string) outcome {
	return outcome{text: text, next: next}
}

func end(text string) outcome {
	return outcome{text: text, done: true}
}

type Deps struct {
	Sessions  *SessionStore
	Catalog   catalog.UseCase
	Ledger    ledger.UseCase
	History   history.UseCase
	Renderer  report.Renderer
	Publisher report.Publisher
	Logger    logger.ZapLogger
	Timeout   time.Duration
	Now       func() time.Time
}

// Engine routes each inbound message to the handler for the sender's
// current step.
type Engine struct {
	sessions  *SessionStore
	catalog   catalog.UseCase
	ledger    ledger.UseCase
	history   history.UseCase
	renderer  report.Renderer
	publisher report.Publisher
	logger    logger.ZapLogger
	timeout   time.Duration
	now       func() time.Time
}

func NewEngine(d Deps) *Engine {
	if d.Sessions == nil {
		d.Sessions = NewSessionStore()
	}
	if d.Timeout <= 0 {
		d.Timeout = 15 * time.Second
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Engine{
		sessions:  d.Sessions,
		catalog:   d.Catalog,
		ledger:    d.Ledger,
		history:   d.History,
		renderer:  d.Renderer,
		publisher: d.Publisher,
		logger:    d.Logger,
		timeout:   d.Timeout,
		now:       d.Now,
	}
}

// Handle advances the sender's conversation with one inbound message and
// returns the reply. Messages from the same sender are serialized; distinct
// senders proceed in parallel.
func (e *Engine) Handle(ctx context.Context, sender, raw string) *Reply {
	unlock := e.sessions.LockSender(sender)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	text := strings.TrimSpace(raw)

	// Reset keywords always work, whatever step the sender is in.
	if isResetKeyword(text) {
		e.sessions.Remove(sender)
		return &Reply{Text: mainMenu}
	}

	sess, ok := e.sessions.Get(sender)
	if !ok {
		return e.menuSelect(ctx, sender, text)
	}

	out := e.dispatch(ctx, sess, text)
	e.apply(sess, out)
	return &Reply{Text: out.text, MediaURL: out.media}
}

func (e *Engine) apply(sess *Session, out outcome) {
	if out.done {
		e.sessions.Remove(sess.Sender)
		return
	}
	sess.Step = out.next
	e.sessions.Put(sess)
}

// start creates a session at a flow's first step.
func (e *Engine) start(sender string, step Step, prompt string) *Reply {
	e.sessions.Put(newSession(sender, step))
	return &Reply{Text: prompt}
}

func (e *Engine) menuSelect(ctx context.Context, sender, text string) *Reply {
	switch text {
	case "1":
		return &Reply{Text: e.listProducts(ctx, sender)}
	case "2":
		return e.start(sender, StepFilterAwaitCode, "🔎 Envía el código del producto:")
	case "3":
		return e.start(sender, StepAddPerishable, "🆕 ¿El producto es perecedero? (si/no)")
	case "4":
		return e.start(sender, StepUpdateAwaitCode, "✏️ Envía el código del producto a actualizar:")
	case "5":
		return e.start(sender, StepDeleteAwaitCode, "🗑️ Envía el código del producto a eliminar:")
	case "6":
		return e.start(sender, StepEntryAwaitCode, "📥 Envía el código del producto para la entrada:")
	case "7":
		return e.start(sender, StepExitAwaitCode, "📤 Envía el código del producto para la salida:")
	case "8":
		return e.buildReport(ctx, sender)
	case "9":
		return &Reply{Text: e.purchaseSuggestions(ctx, sender)}
	case "0":
		return &Reply{Text: e.stockAlerts(ctx, sender)}
	}
	return &Reply{Text: fallbackReply}
}

func (e *Engine) dispatch(ctx context.Context, sess *Session, text string) outcome {
	switch sess.Step {
	case StepFilterAwaitCode:
		return e.filterCode(ctx, sess, text)
	case StepFilterRetry:
		return e.retryBranch(sess, text, StepFilterAwaitCode, "🔎 Envía el código del producto:")

	case StepAddPerishable:
		return e.addPerishable(sess, text)
	case StepAddCategory:
		return e.addCategory(sess, text)
	case StepAddDetails:
		return e.addDetails(sess, text)
	case StepAddPackage:
		return e.addPackage(ctx, sess, text)
	case StepAddUnitCost:
		return e.addUnitCost(ctx, sess, text)
	case StepAddAnother:
		return e.anotherBranch(sess, text, StepAddPerishable, "🆕 ¿El producto es perecedero? (si/no)")

	case StepUpdateAwaitCode:
		return e.updateCode(ctx, sess, text)
	case StepUpdateRetry:
		return e.retryBranch(sess, text, StepUpdateAwaitCode, "✏️ Envía el código del producto a actualizar:")
	case StepUpdateField:
		return e.updateField(sess, text)
	case StepUpdateValue:
		return e.updateValue(sess, text)
	case StepUpdateConfirm:
		return e.updateConfirm(ctx, sess, text)

	case StepDeleteAwaitCode:
		return e.deleteCode(ctx, sess, text)
	case StepDeleteRetry:
		return e.retryBranch(sess, text, StepDeleteAwaitCode, "🗑️ Envía el código del producto a eliminar:")
	case StepDeleteConfirm:
		return e.deleteConfirm(ctx, sess, text)

	case StepEntryAwaitCode:
		return e.entryCode(ctx, sess, text)
	case StepEntryRetry:
		return e.retryBranch(sess, text, StepEntryAwaitCode, "📥 Envía el código del producto para la entrada:")
	case StepEntryDetails:
		return e.entryDetails(ctx, sess, text)
	case StepEntryDuplicate:
		return e.entryDuplicate(ctx, sess, text)
	case StepEntryAnother:
		return e.anotherBranch(sess, text, StepEntryAwaitCode, "📥 Envía el código del producto para la entrada:")

	case StepExitAwaitCode:
		return e.exitCode(ctx, sess, text)
	case StepExitRetry:
		return e.retryBranch(sess, text, StepExitAwaitCode, "📤 Envía el código del producto para la salida:")
	case StepExitDetails:
		return e.exitDetails(ctx, sess, text)
	case StepExitDuplicate:
		return e.exitDuplicate(ctx, sess, text)
	case StepExitAnother:
		return e.anotherBranch(sess, text, StepExitAwaitCode, "📤 Envía el código del producto para la salida:")

	case StepNone:
	}
	// Unreachable while sessions are only created at flow entry points.
	return end(fallbackReply)
}

// lookupProduct resolves a code for the flows that start with one. On a
// miss it branches to the flow's retry step; on a collaborator failure the
// step is preserved so the sender can simply resend.
func (e *Engine) lookupProduct(ctx context.Context, sess *Session, code string, retryStep Step) (*model.Product, outcome, bool) {
	p, err := e.catalog.Find(ctx, sess.Sender, code)
	if err == nil {
		sess.Product = p
		return p, outcome{}, true
	}
	if errors.Is(err, catalog.ErrCodeNotFound) {
		return nil, to(retryStep, "❌ No encontré el código *"+strings.ToUpper(code)+"*. ¿Intentar con otro código? (si/no)"), false
	}
	return nil, e.failure(sess.Step, err), false
}

// retryBranch handles every "code not found, try again?" step.
func (e *Engine) retryBranch(sess *Session, text string, backTo Step, prompt string) outcome {
	if isYes(text) {
		return to(backTo, prompt)
	}
	if isNo(text) {
		return end("👍 Operación cancelada. Envía *menu* para volver al inicio.")
	}
	return to(sess.Step, "Responde *si* o *no*.")
}

// anotherBranch handles every "register another?" loop step.
func (e *Engine) anotherBranch(sess *Session, text string, backTo Step, prompt string) outcome {
	if isYes(text) {
		sess.Fields = map[string]string{}
		sess.Product = nil
		return to(backTo, prompt)
	}
	if isNo(text) {
		return end("👍 Listo. Envía *menu* cuando necesites algo más.")
	}
	return to(sess.Step, "Responde *si* o *no*.")
}

// failure maps a collaborator error to a reply. Missing tenancy ends the
// session; anything else is treated as transient, logged, and leaves the
// step unchanged so captured fields survive the retry.
func (e *Engine) failure(current Step, err error) outcome {
	if errors.Is(err, store.ErrClientNotFound) {
		return end(noSheetReply)
	}
	e.logger.Error("collaborator failure", zap.String("step", current.String()), zap.Error(err))
	return to(current, errorReply)
}
