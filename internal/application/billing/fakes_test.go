package billing_test

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
)

// ── Fakes de los puertos ──────────────────────────────────────────────────────

// fakeRemote simula el servicio de consecutivos con un contador por (prefijo, fecha).
type fakeRemote struct {
	mu    sync.Mutex
	next  map[string]int
	fixed int
	err   error
	calls int
}

func (f *fakeRemote) NextNumber(_ context.Context, prefix, date string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	if f.fixed != 0 {
		return f.fixed, nil
	}
	if f.next == nil {
		f.next = map[string]int{}
	}
	f.next[prefix+"|"+date]++
	return f.next[prefix+"|"+date], nil
}

type fakeCounter struct {
	mu     sync.Mutex
	values map[string]int
	err    error
	keys   []string
}

func (f *fakeCounter) Increment(_ context.Context, key string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	if f.err != nil {
		return 0, f.err
	}
	if f.values == nil {
		f.values = map[string]int{}
	}
	f.values[key]++
	return f.values[key], nil
}

type fakeLedger struct {
	created []*entity.IssuedInvoice
}

func (f *fakeLedger) Create(_ context.Context, inv *entity.IssuedInvoice) error {
	f.created = append(f.created, inv)
	return nil
}

func (f *fakeLedger) GetByNumber(_ context.Context, number string) (*entity.IssuedInvoice, error) {
	for _, c := range f.created {
		if c.InvoiceNumber == number {
			return c, nil
		}
	}
	return nil, nil
}

type fakePDF struct {
	out   []byte
	err   error
	panic bool
}

func (f *fakePDF) GenerateInvoicePDF(_ context.Context, _ *entity.Invoice) ([]byte, error) {
	if f.panic {
		panic("fila fuera de página")
	}
	return f.out, f.err
}

type fakeFormatter struct{ out []byte }

func (f fakeFormatter) FormatReceipt(_ *entity.Invoice) []byte { return f.out }

// fakeTransport registra lo escrito; failAt simula que el dispositivo se cae en ese bloque.
type fakeTransport struct {
	mu        sync.Mutex
	connected []string
	written   [][]byte
	failAt    int // 1-based; 0 = nunca
	dropOnErr bool
	listErr   error
}

func (f *fakeTransport) Write(_ context.Context, _ string, p []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAt > 0 && len(f.written)+1 == f.failAt {
		if f.dropOnErr {
			f.connected = nil
		}
		return errors.New("broken pipe")
	}
	f.written = append(f.written, append([]byte(nil), p...))
	return nil
}

func (f *fakeTransport) ConnectedDevices(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.connected...), f.listErr
}
