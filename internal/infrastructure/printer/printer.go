// Package printer mantiene las conexiones abiertas con impresoras térmicas.
// Implementa billing.PrinterTransport: un device id identifica una conexión
// viva (TCP a un puerto 9100 o archivo de dispositivo USB).
package printer

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/invoice-gst-engine/internal/domain"
)

// Tipos de conexión soportados.
const (
	KindNetwork = "network"
	KindUSB     = "usb"
)

const (
	dialTimeout  = 5 * time.Second
	writeTimeout = 10 * time.Second
)

// Device descripción de un dispositivo conectado.
type Device struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Address     string    `json:"address"`
	ConnectedAt time.Time `json:"connected_at"`
}

type conn struct {
	Device
	w  io.WriteCloser
	mu sync.Mutex
}

// Registry conjunto de dispositivos conectados.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*conn
	dial  func(ctx context.Context, network, address string) (net.Conn, error)
}

// NewRegistry crea un registro vacío.
func NewRegistry() *Registry {
	d := &net.Dialer{Timeout: dialTimeout}
	return &Registry{conns: map[string]*conn{}, dial: d.DialContext}
}

// Connect abre la conexión y la registra con id. Si id ya estaba, la reemplaza.
//
//	kind: "network" (address "192.168.1.100:9100") o "usb" (address "/dev/usb/lp0")
func (r *Registry) Connect(ctx context.Context, id, kind, address string) (*Device, error) {
	if id == "" || address == "" {
		return nil, fmt.Errorf("%w: id y dirección son obligatorios", domain.ErrInvalidInput)
	}

	var w io.WriteCloser
	switch kind {
	case KindNetwork, "":
		kind = KindNetwork
		c, err := r.dial(ctx, "tcp", address)
		if err != nil {
			return nil, fmt.Errorf("printer: conectar a %s: %w", address, err)
		}
		w = c
	case KindUSB:
		f, err := os.OpenFile(address, os.O_WRONLY, 0)
		if err != nil {
			return nil, fmt.Errorf("printer: abrir dispositivo USB %s: %w", address, err)
		}
		w = f
	default:
		return nil, fmt.Errorf("%w: tipo de impresora desconocido %q (usb o network)", domain.ErrInvalidInput, kind)
	}

	c := &conn{
		Device: Device{ID: id, Kind: kind, Address: address, ConnectedAt: time.Now().UTC()},
		w:      w,
	}

	r.mu.Lock()
	old := r.conns[id]
	r.conns[id] = c
	r.mu.Unlock()
	if old != nil {
		_ = old.w.Close()
	}

	log.Info().Str("device", id).Str("kind", kind).Str("address", address).Msg("impresora conectada")
	dev := c.Device
	return &dev, nil
}

// Disconnect cierra y olvida el dispositivo.
func (r *Registry) Disconnect(id string) error {
	r.mu.Lock()
	c, ok := r.conns[id]
	delete(r.conns, id)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: impresora %q", domain.ErrNotFound, id)
	}
	log.Info().Str("device", id).Msg("impresora desconectada")
	return c.w.Close()
}

// Devices dispositivos conectados ordenados por id.
func (r *Registry) Devices() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Device, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c.Device)
	}
	slices.SortFunc(out, func(a, b Device) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// ConnectedDevices ids conectados (billing.PrinterTransport).
func (r *Registry) ConnectedDevices(_ context.Context) ([]string, error) {
	devs := r.Devices()
	ids := make([]string, len(devs))
	for i, d := range devs {
		ids[i] = d.ID
	}
	return ids, nil
}

// Write envía p al dispositivo. Si la escritura falla la conexión se da por
// perdida y se retira del registro.
func (r *Registry) Write(ctx context.Context, id string, p []byte) error {
	r.mu.RLock()
	c, ok := r.conns[id]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: dispositivo %q", domain.ErrPrinterNotConnected, id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if nc, isNet := c.w.(net.Conn); isNet {
		deadline := time.Now().Add(writeTimeout)
		if d, has := ctx.Deadline(); has && d.Before(deadline) {
			deadline = d
		}
		_ = nc.SetWriteDeadline(deadline)
	}
	if _, err := c.w.Write(p); err != nil {
		r.drop(id, c)
		return fmt.Errorf("printer: escribir en %s: %w", c.Address, err)
	}
	return nil
}

func (r *Registry) drop(id string, c *conn) {
	r.mu.Lock()
	if r.conns[id] == c {
		delete(r.conns, id)
	}
	r.mu.Unlock()
	_ = c.w.Close()
	log.Warn().Str("device", id).Msg("impresora perdida durante la escritura")
}

// Close cierra todas las conexiones.
func (r *Registry) Close() error {
	r.mu.Lock()
	conns := r.conns
	r.conns = map[string]*conn{}
	r.mu.Unlock()
	for _, c := range conns {
		_ = c.w.Close()
	}
	return nil
}
