package conversation_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/msalvatierra/bodegabot/internal/catalog"
	catalogdto "github.com/msalvatierra/bodegabot/internal/catalog/dto"
	catalogrepo "github.com/msalvatierra/bodegabot/internal/catalog/repository"
	catalogusecase "github.com/msalvatierra/bodegabot/internal/catalog/usecase"
	"github.com/msalvatierra/bodegabot/internal/conversation"
	historyrepo "github.com/msalvatierra/bodegabot/internal/history/repository"
	historyusecase "github.com/msalvatierra/bodegabot/internal/history/usecase"
	"github.com/msalvatierra/bodegabot/internal/ledger"
	ledgerdto "github.com/msalvatierra/bodegabot/internal/ledger/dto"
	ledgerrepo "github.com/msalvatierra/bodegabot/internal/ledger/repository"
	ledgerusecase "github.com/msalvatierra/bodegabot/internal/ledger/usecase"
	"github.com/msalvatierra/bodegabot/internal/model"
	"github.com/msalvatierra/bodegabot/internal/store"
)

const sender = "56911111111"

var today = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type stubRenderer struct {
	clientName string
}

func (r *stubRenderer) Render(_ *model.ReportSummary, clientName string) ([]byte, error) {
	r.clientName = clientName
	return []byte("%PDF-stub"), nil
}

type stubPublisher struct{}

func (stubPublisher) Publish(data []byte, filename string) (string, error) {
	return "https://files.test/" + filename, nil
}

type fixture struct {
	engine   *conversation.Engine
	catalog  catalog.UseCase
	ledger   ledger.UseCase
	renderer *stubRenderer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mem := store.NewMemory()
	mem.RegisterClient(sender, "Bodega Test", map[string][]string{
		store.ProductsSheet: catalogrepo.ProductHeader,
		store.LotsSheet:     ledgerrepo.LotHeader,
		store.HistorySheet:  historyrepo.HistoryHeader,
	})

	log := zap.NewNop()
	productRepo := catalogrepo.NewRowRepository(mem)
	lotRepo := ledgerrepo.NewRowRepository(mem)
	journalRepo := historyrepo.NewRowRepository(mem)

	catalogUC := catalogusecase.NewCatalogUseCase(productRepo, lotRepo, log)
	ledgerUC := ledgerusecase.NewLedgerUseCase(lotRepo, productRepo, journalRepo, log)
	historyUC := historyusecase.NewHistoryUseCase(journalRepo, lotRepo, log)

	renderer := &stubRenderer{}
	engine := conversation.NewEngine(conversation.Deps{
		Catalog:   catalogUC,
		Ledger:    ledgerUC,
		History:   historyUC,
		Renderer:  renderer,
		Publisher: stubPublisher{},
		Logger:    log,
		Now:       func() time.Time { return today },
	})
	return &fixture{engine: engine, catalog: catalogUC, ledger: ledgerUC, renderer: renderer}
}

func (f *fixture) send(text string) *conversation.Reply {
	return f.engine.Handle(context.Background(), sender, text)
}

func (f *fixture) seedProduct(t *testing.T, perishable bool) *model.Product {
	t.Helper()
	p, err := f.catalog.Add(context.Background(), sender, &catalogdto.AddProductInput{
		CategoryDigit: "1",
		Category:      "Abarrotes",
		Perishable:    perishable,
		Name:          "Arroz",
		Brand:         "Acme",
		Price:         10,
		MinStock:      2,
		Location:      "Estante A",
		Package:       "bolsa",
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) seedEntry(t *testing.T, code string, quantity int, expiry *time.Time) {
	t.Helper()
	_, _, err := f.ledger.RegisterEntry(context.Background(), sender, &ledgerdto.EntryInput{
		Code:         code,
		PurchaseDate: time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
		Expiry:       expiry,
		UnitCost:     6,
		Quantity:     quantity,
	})
	require.NoError(t, err)
}

func TestResetKeywordShowsMenu(t *testing.T) {
	f := newFixture(t)

	for _, kw := range []string{"hola", "menu", "menú", "inicio", "  HOLA  "} {
		reply := f.send(kw)
		assert.Contains(t, reply.Text, "Elige una opción", "keyword %q", kw)
	}
}

func TestFallbackWithoutSession(t *testing.T) {
	f := newFixture(t)

	reply := f.send("qué tal")
	assert.Contains(t, reply.Text, "No entendí")
}

func TestUnknownClientGetsActivationNotice(t *testing.T) {
	f := newFixture(t)

	reply := f.engine.Handle(context.Background(), "56900000000", "1")
	assert.Contains(t, reply.Text, "No encontré una hoja de inventario")
}

func TestResetKeywordClearsSessionMidFlow(t *testing.T) {
	f := newFixture(t)

	f.send("3")
	reply := f.send("menu")
	assert.Contains(t, reply.Text, "Elige una opción")

	// The answer that would have continued the add flow now falls through.
	reply = f.send("no")
	assert.Contains(t, reply.Text, "No entendí")
}

func TestAddFlowGeneratesSequentialCodes(t *testing.T) {
	f := newFixture(t)

	reply := f.send("3")
	assert.Contains(t, reply.Text, "perecedero")

	reply = f.send("no")
	assert.Contains(t, reply.Text, "Abarrotes")

	reply = f.send("1")
	assert.Contains(t, reply.Text, "nombre, marca, precio")

	reply = f.send("Arroz, Acme, 10, 5, 2, Estante A")
	assert.Contains(t, reply.Text, "empaque")

	reply = f.send("bolsa")
	assert.Contains(t, reply.Text, "Costo unitario")

	reply = f.send("6.5")
	assert.Contains(t, reply.Text, "*1AB01*")
	assert.Contains(t, reply.Text, "Stock inicial: 5")

	// Loop around and add a second product with the same prefix.
	reply = f.send("si")
	assert.Contains(t, reply.Text, "perecedero")
	f.send("no")
	f.send("1")
	f.send("Azucar, Acme, 12, 0, 2, Estante B")
	reply = f.send("bolsa")
	assert.Contains(t, reply.Text, "*1AB02*")
	assert.Contains(t, reply.Text, "Stock inicial: 0")

	reply = f.send("no")
	assert.Contains(t, reply.Text, "Listo")

	// The initial quantity went in as a lot, not a direct cell write.
	p, err := f.catalog.Find(context.Background(), sender, "1AB01")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Quantity)
	lots, err := f.ledger.Lots(context.Background(), sender, "1AB01")
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, 5, lots[0].Available)
}

func TestAddFlowRepromptsOnBadField(t *testing.T) {
	f := newFixture(t)

	f.send("3")
	f.send("no")
	f.send("1")

	reply := f.send("Arroz, Acme, caro, 5, 2, Estante A")
	assert.Contains(t, reply.Text, "precio")
	assert.Contains(t, reply.Text, "debe ser un número")

	// The step did not advance; a corrected line goes through.
	reply = f.send("Arroz, Acme, 10, 5, 2, Estante A")
	assert.Contains(t, reply.Text, "empaque")
}

func TestFilterUnknownCodeRetries(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, false)

	f.send("2")
	reply := f.send("ZZZ99")
	assert.Contains(t, reply.Text, "No encontré el código *ZZZ99*")

	reply = f.send("si")
	assert.Contains(t, reply.Text, "Envía el código")

	reply = f.send(p.Code)
	assert.Contains(t, reply.Text, p.Name)
	assert.Contains(t, reply.Text, "Perecedero: no")
}

func TestUpdateFlowConfirmsBeforeWriting(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, false)

	f.send("4")
	reply := f.send(p.Code)
	assert.Contains(t, reply.Text, "Qué campo")

	reply = f.send("3")
	assert.Contains(t, reply.Text, "nuevo valor")

	reply = f.send("12.5")
	assert.Contains(t, reply.Text, `de "10" a "12.5"`)

	reply = f.send("si")
	assert.Contains(t, reply.Text, "actualizado")

	got, err := f.catalog.Find(context.Background(), sender, p.Code)
	require.NoError(t, err)
	assert.Equal(t, 12.5, got.Price)
}

func TestUpdateFlowCancelKeepsValue(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, false)

	f.send("4")
	f.send(p.Code)
	f.send("3")
	f.send("12.5")
	reply := f.send("no")
	assert.Contains(t, reply.Text, "no se cambió nada")

	got, err := f.catalog.Find(context.Background(), sender, p.Code)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Price)
}

func TestDeleteFlowCascades(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, false)
	f.seedEntry(t, p.Code, 5, nil)

	f.send("5")
	reply := f.send(p.Code)
	assert.Contains(t, reply.Text, "Eliminar")

	reply = f.send("si")
	assert.Contains(t, reply.Text, "1 lote(s)")

	_, err := f.catalog.Find(context.Background(), sender, p.Code)
	assert.Error(t, err)
}

func TestEntryDuplicateBranches(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, false)

	f.send("6")
	f.send(p.Code)
	reply := f.send("2024-05-20, 6, 4")
	assert.Contains(t, reply.Text, "Entrada registrada: lote 1")
	assert.Contains(t, reply.Text, "stock total 4")

	// Same date and code again: the bot asks before journaling.
	f.send("si")
	f.send(p.Code)
	reply = f.send("2024-05-20, 6, 4")
	assert.Contains(t, reply.Text, "Ya registraste una entrada")

	reply = f.send("no")
	assert.Contains(t, reply.Text, "descartada")
	got, err := f.catalog.Find(context.Background(), sender, p.Code)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)

	// Confirming the duplicate applies it.
	f.send("6")
	f.send(p.Code)
	f.send("2024-05-20, 6, 4")
	reply = f.send("si")
	assert.Contains(t, reply.Text, "lote 2")
	assert.Contains(t, reply.Text, "stock total 8")
}

func TestEntryPerishableAsksForExpiry(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, true)

	f.send("6")
	reply := f.send(p.Code)
	assert.Contains(t, reply.Text, "fecha vencimiento")

	reply = f.send("2024-05-20, 6, 4, 2024-09-01")
	assert.Contains(t, reply.Text, "Entrada registrada")

	lots, err := f.ledger.Lots(context.Background(), sender, p.Code)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	require.NotNil(t, lots[0].Expiry)
	assert.Equal(t, "2024-09-01", lots[0].Expiry.Format("2006-01-02"))
}

func TestExitInsufficientStockStaysInStep(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, false)
	f.seedEntry(t, p.Code, 5, nil)

	f.send("7")
	f.send(p.Code)
	reply := f.send("2024-06-01, 9")
	assert.Contains(t, reply.Text, "cantidad menor")

	reply = f.send("2024-06-01, 3")
	assert.Contains(t, reply.Text, "Salida registrada")
	assert.Contains(t, reply.Text, "stock total 2")
}

func TestExitRejectsNegativeQuantity(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, false)
	f.seedEntry(t, p.Code, 5, nil)

	f.send("7")
	f.send(p.Code)

	// A negative exit would add stock instead of removing it.
	reply := f.send("2024-06-01, -3")
	assert.Contains(t, reply.Text, "cantidad")
	assert.Contains(t, reply.Text, "mayor que cero")

	got, err := f.catalog.Find(context.Background(), sender, p.Code)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
	lots, err := f.ledger.Lots(context.Background(), sender, p.Code)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, 5, lots[0].Available)

	// The step did not advance; a corrected line goes through.
	reply = f.send("2024-06-01, 3")
	assert.Contains(t, reply.Text, "Salida registrada")
}

func TestExitExpiredLotEndsWithoutMutation(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, true)
	expiry := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.seedEntry(t, p.Code, 5, &expiry)

	f.send("7")
	f.send(p.Code)
	reply := f.send("2024-06-01, 1")
	assert.Contains(t, reply.Text, "vencido")

	got, err := f.catalog.Find(context.Background(), sender, p.Code)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)

	// The session ended, so a menu digit works again.
	reply = f.send("1")
	assert.Contains(t, reply.Text, "Tus productos")
}

func TestReportReplyCarriesMedia(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, false)
	f.seedEntry(t, p.Code, 5, nil)

	reply := f.send("8")
	assert.Contains(t, reply.Text, "reporte")
	assert.True(t, strings.HasPrefix(reply.MediaURL, "https://files.test/reporte_"+sender), reply.MediaURL)

	// The report greets the client by their index name, not the phone.
	assert.Equal(t, "Bodega Test", f.renderer.clientName)
}

func TestPurchaseSuggestions(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, false)
	f.seedEntry(t, p.Code, 1, nil)

	reply := f.send("9")
	assert.Contains(t, reply.Text, p.Code)
	// minimum 2, stock 1, reorder restores twice the minimum
	assert.Contains(t, reply.Text, "comprar 3")
}

func TestStockAlertSections(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, true)
	nearExpiry := today.AddDate(0, 0, 10)
	f.seedEntry(t, p.Code, 1, &nearExpiry)

	reply := f.send("0")
	assert.Contains(t, reply.Text, "📉 Stock mínimo:")
	assert.Contains(t, reply.Text, "⏳ Por vencer")
	assert.Contains(t, reply.Text, "❌ Vencidos:\n• Sin alertas")
}

func TestSendersAreIsolated(t *testing.T) {
	f := newFixture(t)

	f.send("3")

	// A second sender's message does not touch the first one's session.
	other := f.engine.Handle(context.Background(), "56922222222", "no")
	assert.Contains(t, other.Text, "No entendí")

	reply := f.send("no")
	assert.Contains(t, reply.Text, "Abarrotes")
}
