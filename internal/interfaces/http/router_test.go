package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-gst-engine/internal/application/billing"
	"github.com/jhoicas/invoice-gst-engine/internal/domain"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/tax"
	"github.com/jhoicas/invoice-gst-engine/internal/infrastructure/escpos"
	"github.com/jhoicas/invoice-gst-engine/internal/infrastructure/printer"
	apphttp "github.com/jhoicas/invoice-gst-engine/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type memSequences struct {
	mu   sync.Mutex
	last map[string]int
	err  error
}

func (m *memSequences) Next(_ context.Context, prefix, date string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if m.last == nil {
		m.last = map[string]int{}
	}
	m.last[prefix+date]++
	return m.last[prefix+date], nil
}

func (m *memSequences) NextNumber(ctx context.Context, prefix, date string) (int, error) {
	return m.Next(ctx, prefix, date)
}

type memClients struct {
	byID map[string]*entity.ClientConfig
}

func (m *memClients) GetByID(_ context.Context, id string) (*entity.ClientConfig, error) {
	return m.byID[id], nil
}

func (m *memClients) Upsert(_ context.Context, cfg *entity.ClientConfig) error {
	m.byID[cfg.ID] = cfg
	return nil
}

type memLedger struct {
	mu      sync.Mutex
	created []*entity.IssuedInvoice
}

func (m *memLedger) Create(_ context.Context, inv *entity.IssuedInvoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, inv)
	return nil
}

func (m *memLedger) GetByNumber(_ context.Context, number string) (*entity.IssuedInvoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.created {
		if c.InvoiceNumber == number {
			return c, nil
		}
	}
	return nil, nil
}

type stubPDF struct{}

func (stubPDF) GenerateInvoicePDF(context.Context, *entity.Invoice) ([]byte, error) {
	return []byte("%PDF-1.3 stub"), nil
}

type memPrinters struct {
	mu        sync.Mutex
	connected []string
	written   bytes.Buffer
}

func (m *memPrinters) Connect(_ context.Context, id, kind, address string) (*printer.Device, error) {
	if kind == "bluetooth" {
		return nil, domain.ErrInvalidInput
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = append(m.connected, id)
	return &printer.Device{ID: id, Kind: kind, Address: address}, nil
}

func (m *memPrinters) Disconnect(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.Index(m.connected, id)
	if i < 0 {
		return domain.ErrNotFound
	}
	m.connected = slices.Delete(m.connected, i, i+1)
	return nil
}

func (m *memPrinters) Devices() []printer.Device {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]printer.Device, len(m.connected))
	for i, id := range m.connected {
		out[i] = printer.Device{ID: id}
	}
	return out
}

func (m *memPrinters) Write(_ context.Context, id string, p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.connected, id) {
		return errors.New("no conectada")
	}
	m.written.Write(p)
	return nil
}

func (m *memPrinters) ConnectedDevices(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.connected), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	app      *fiber.App
	ledger   *memLedger
	printers *memPrinters
	seq      *memSequences
}

func buildTestApp(t *testing.T) *testEnv {
	t.Helper()
	seq := &memSequences{}
	clients := &memClients{byID: map[string]*entity.ClientConfig{
		"c1": {ID: "c1", InvPrefix: "SHOP", GSTMethod: entity.GSTExclusive, ClientName: "Sharma Traders"},
	}}
	ledger := &memLedger{}
	printers := &memPrinters{}

	allocator := billing.NewNumberAllocator(seq, nil)
	receipts := billing.NewPrintUseCase(escpos.NewReceiptRenderer(time.UTC), printers,
		billing.PrintConfig{ChunkSize: 100, ChunkDelay: time.Millisecond})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CreateInvoice: billing.NewCreateInvoiceUseCase(tax.NewEngine(), allocator, ledger),
		Allocator:     allocator,
		InvoicePDF:    billing.NewPDFUseCase(stubPDF{}),
		PrintReceipt:  receipts,
		Printers:      printers,
		Clients:       clients,
		Sequences:     seq,
		DefaultPrefix: "INV",
	})
	return &testEnv{app: app, ledger: ledger, printers: printers, seq: seq}
}

type result struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode(t *testing.T, raw []byte) result {
	t.Helper()
	var out result
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func invoiceBody() map[string]any {
	return map[string]any{
		"date": "2025-01-05",
		"client": map[string]any{
			"inv_prefix": "INV", "gst_method": "Inclusive GST", "client_name": "Sharma Traders",
		},
		"items": []map[string]any{
			{"product_id": "p1", "name": "Widget", "quantity": 2, "unit_price": "100", "gst_rate": "18"},
			{"product_id": "p2", "name": "Gadget", "quantity": 2, "unit_price": "100", "gst_rate": "18"},
		},
		"customer": map[string]any{"name": "Ravi Kumar"},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCompute_Inclusivo(t *testing.T) {
	env := buildTestApp(t)
	resp, raw := do(t, env.app, http.MethodPost, "/api/invoices/compute", invoiceBody())
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	res := decode(t, raw)
	require.True(t, res.Success)
	var inv struct {
		Number string `json:"invoice_number"`
		Totals struct {
			TaxableValue string `json:"taxable_value"`
			GSTAmount    string `json:"gst_amount"`
			CGST         string `json:"cgst"`
			GrandTotal   string `json:"grand_total"`
		} `json:"totals"`
		Words string `json:"amount_in_words"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &inv))
	assert.Empty(t, inv.Number)
	assert.Empty(t, env.seq.last, "calcular no consume consecutivos")
	assert.Equal(t, "338.98", inv.Totals.TaxableValue)
	assert.Equal(t, "61.02", inv.Totals.GSTAmount)
	assert.Equal(t, "30.51", inv.Totals.CGST)
	assert.Equal(t, "400", inv.Totals.GrandTotal)
	assert.Equal(t, "Four Hundred Rupees Only", inv.Words)
}

func TestCompute_ConfigDesdeRepositorio(t *testing.T) {
	env := buildTestApp(t)
	body := invoiceBody()
	delete(body, "client")
	body["client_id"] = "c1"

	resp, raw := do(t, env.app, http.MethodPost, "/api/invoices/compute", body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var inv struct {
		Number string `json:"invoice_number"`
		Totals struct {
			GrandTotal string `json:"grand_total"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &inv))
	assert.Empty(t, inv.Number)
	assert.Equal(t, "472", inv.Totals.GrandTotal)
}

func TestCompute_ClienteInexistente(t *testing.T) {
	env := buildTestApp(t)
	body := invoiceBody()
	delete(body, "client")
	body["client_id"] = "nadie"

	resp, raw := do(t, env.app, http.MethodPost, "/api/invoices/compute", body)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode(t, raw).Error.Code)
}

func TestCompute_SinLineas(t *testing.T) {
	env := buildTestApp(t)
	body := invoiceBody()
	body["items"] = []any{}

	resp, raw := do(t, env.app, http.MethodPost, "/api/invoices/compute", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	res := decode(t, raw)
	assert.False(t, res.Success)
	assert.Equal(t, "NO_LINE_ITEMS", res.Error.Code)
}

func TestCompute_FechaInvalida(t *testing.T) {
	env := buildTestApp(t)
	body := invoiceBody()
	body["date"] = "05/01/2025"
	resp, raw := do(t, env.app, http.MethodPost, "/api/invoices/compute", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode(t, raw).Error.Code)
}

func TestCreate_RegistraYRechazaDuplicado(t *testing.T) {
	env := buildTestApp(t)
	body := invoiceBody()
	body["invoice_number"] = "INV-D-2025-01-05-010"

	resp, raw := do(t, env.app, http.MethodPost, "/api/invoices", body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
	require.Len(t, env.ledger.created, 1)
	assert.Equal(t, billing.TierProvided, env.ledger.created[0].AllocatedBy)

	resp, raw = do(t, env.app, http.MethodPost, "/api/invoices", body)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decode(t, raw).Error.Code)
}

func TestNumber_Creciente(t *testing.T) {
	env := buildTestApp(t)
	for want := 1; want <= 3; want++ {
		resp, raw := do(t, env.app, http.MethodPost, "/api/invoices/number", map[string]string{"prefix": "INV", "date": "2025-01-05"})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var out struct {
			Number   string `json:"invoice_number"`
			Sequence int    `json:"sequence"`
			Tier     string `json:"tier"`
		}
		require.NoError(t, json.Unmarshal(decode(t, raw).Data, &out))
		assert.Equal(t, want, out.Sequence)
		assert.Equal(t, billing.TierRemote, out.Tier)
	}
}

func TestPDF_JSONYDescarga(t *testing.T) {
	env := buildTestApp(t)
	body := invoiceBody()
	body["invoice_number"] = "INV-D-2025-01-05-001"

	resp, raw := do(t, env.app, http.MethodPost, "/api/invoices/pdf", body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var doc struct {
		FileName      string `json:"file_name"`
		ContentBase64 string `json:"content_base64"`
	}
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &doc))
	assert.Equal(t, "Invoice_INV_D_2025_01_05_001.pdf", doc.FileName)
	assert.NotEmpty(t, doc.ContentBase64)

	resp, raw = do(t, env.app, http.MethodPost, "/api/invoices/pdf?download=true", body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Invoice_INV_D_2025_01_05_001.pdf")
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestPrint_FlujoCompleto(t *testing.T) {
	env := buildTestApp(t)

	body := invoiceBody()
	body["invoice_number"] = "INV-D-2025-01-05-001"
	body["device_id"] = "counter-1"
	resp, raw := do(t, env.app, http.MethodPost, "/api/invoices/print", body)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "PRINTER_NOT_CONNECTED", decode(t, raw).Error.Code)

	resp, _ = do(t, env.app, http.MethodPost, "/api/printers/connect",
		map[string]string{"id": "counter-1", "kind": "network", "address": "10.0.0.5:9100"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, raw = do(t, env.app, http.MethodPost, "/api/invoices/print", body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	assert.Contains(t, env.printers.written.String(), "Ravi Kumar")
	assert.True(t, bytes.HasPrefix(env.printers.written.Bytes(), []byte{escpos.ESC, '@'}))

	resp, _ = do(t, env.app, http.MethodDelete, "/api/printers/counter-1", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, env.app, http.MethodDelete, "/api/printers/counter-1", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPrint_SinDispositivo(t *testing.T) {
	env := buildTestApp(t)
	resp, raw := do(t, env.app, http.MethodPost, "/api/invoices/print", invoiceBody())
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode(t, raw).Error.Code)
}

func TestRender_SinNumeroSeRechazaAntesDeRenderizar(t *testing.T) {
	env := buildTestApp(t)
	resp, _ := do(t, env.app, http.MethodPost, "/api/printers/connect",
		map[string]string{"id": "counter-1", "kind": "network", "address": "10.0.0.5:9100"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, raw := do(t, env.app, http.MethodPost, "/api/invoices/pdf", invoiceBody())
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_INVOICE_NUMBER", decode(t, raw).Error.Code)

	body := invoiceBody()
	body["device_id"] = "counter-1"
	body["invoice_number"] = "   "
	resp, raw = do(t, env.app, http.MethodPost, "/api/invoices/print", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_INVOICE_NUMBER", decode(t, raw).Error.Code)

	assert.Zero(t, env.printers.written.Len(), "no se envía nada a la impresora")
	assert.Empty(t, env.seq.last, "no se consumen consecutivos")
}

func TestFactura_MismoNumeroEnTodoElFlujo(t *testing.T) {
	env := buildTestApp(t)
	resp, _ := do(t, env.app, http.MethodPost, "/api/printers/connect",
		map[string]string{"id": "counter-1", "kind": "network", "address": "10.0.0.5:9100"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, raw := do(t, env.app, http.MethodPost, "/api/invoices", invoiceBody())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
	var issued struct {
		Number string `json:"invoice_number"`
	}
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &issued))
	require.Equal(t, "INV-D-2025-01-05-001", issued.Number)

	body := invoiceBody()
	body["invoice_number"] = issued.Number

	resp, raw = do(t, env.app, http.MethodPost, "/api/invoices/compute", body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var computed struct {
		Number string `json:"invoice_number"`
	}
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &computed))
	assert.Equal(t, issued.Number, computed.Number)

	resp, raw = do(t, env.app, http.MethodPost, "/api/invoices/pdf", body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var doc struct {
		FileName string `json:"file_name"`
	}
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &doc))
	assert.Equal(t, "Invoice_INV_D_2025_01_05_001.pdf", doc.FileName)

	body["device_id"] = "counter-1"
	resp, raw = do(t, env.app, http.MethodPost, "/api/invoices/print", body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var printed struct {
		Number string `json:"invoice_number"`
	}
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &printed))
	assert.Equal(t, issued.Number, printed.Number)
	assert.Contains(t, env.printers.written.String(), issued.Number)

	// el siguiente consecutivo sigue sin huecos
	resp, raw = do(t, env.app, http.MethodPost, "/api/invoices/number", map[string]string{"prefix": "INV", "date": "2025-01-05"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var next struct {
		Sequence int `json:"sequence"`
	}
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &next))
	assert.Equal(t, 2, next.Sequence)
}

func TestClientConfig_PutYGet(t *testing.T) {
	env := buildTestApp(t)

	resp, _ := do(t, env.app, http.MethodPut, "/api/clients/c2/config", map[string]any{
		"inv_prefix": "BLR", "gst_method": "Exclusive GST", "client_name": "Bangalore Stores",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, raw := do(t, env.app, http.MethodGet, "/api/clients/c2/config", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var cfg struct {
		InvPrefix string `json:"inv_prefix"`
		GSTMethod string `json:"gst_method"`
	}
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &cfg))
	assert.Equal(t, "BLR", cfg.InvPrefix)
	assert.Equal(t, "Exclusive GST", cfg.GSTMethod)

	resp, _ = do(t, env.app, http.MethodGet, "/api/clients/zz/config", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSequenceNext_Contrato(t *testing.T) {
	env := buildTestApp(t)
	resp, raw := do(t, env.app, http.MethodPost, "/api/invoice-sequences/next", map[string]string{"prefix": "INV", "date": "2025-01-05"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true,"next_number":1}`, string(raw))

	resp, raw = do(t, env.app, http.MethodPost, "/api/invoice-sequences/next", map[string]string{"prefix": "INV"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), `"success":false`)
}

func TestPrinters_ConectarYListar(t *testing.T) {
	env := buildTestApp(t)

	resp, raw := do(t, env.app, http.MethodPost, "/api/printers/connect",
		map[string]string{"id": "bt-1", "kind": "bluetooth", "address": "00:11:22"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode(t, raw).Error.Code)

	resp, _ = do(t, env.app, http.MethodPost, "/api/printers/connect",
		map[string]string{"id": "usb-1", "kind": "usb", "address": "/dev/usb/lp0"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, raw = do(t, env.app, http.MethodGet, "/api/printers", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var devices []printer.Device
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &devices))
	require.Len(t, devices, 1)
	assert.Equal(t, "usb-1", devices[0].ID)
}
