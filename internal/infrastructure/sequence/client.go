// Package sequence consume el servicio remoto de consecutivos de factura.
package sequence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/invoice-gst-engine/internal/domain"
)

const defaultTimeout = 5 * time.Second

type nextRequest struct {
	Prefix string `json:"prefix"`
	Date   string `json:"date"`
}

type nextResponse struct {
	Success    bool   `json:"success"`
	NextNumber int    `json:"next_number"`
	Message    string `json:"message,omitempty"`
}

// Client implementa billing.SequenceAllocator sobre HTTP:
// POST {baseURL}/api/invoice-sequences/next  {prefix,date} → {success,next_number}.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient timeout <= 0 usa 5 s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NextNumber pide el siguiente consecutivo para (prefix, date).
// success=false, estado HTTP distinto de 200 o next_number < 1 => ErrSequenceUnavailable.
func (c *Client) NextNumber(ctx context.Context, prefix, date string) (int, error) {
	body, err := json.Marshal(nextRequest{Prefix: prefix, Date: date})
	if err != nil {
		return 0, fmt.Errorf("sequence: serializar solicitud: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/invoice-sequences/next", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("sequence: construir solicitud: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrSequenceUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return 0, fmt.Errorf("%w: leer respuesta: %w", domain.ErrSequenceUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: HTTP %d: %s", domain.ErrSequenceUnavailable, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out nextResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, fmt.Errorf("%w: respuesta inválida: %w", domain.ErrSequenceUnavailable, err)
	}
	if !out.Success || out.NextNumber < 1 {
		return 0, fmt.Errorf("%w: success=%t next_number=%d %s",
			domain.ErrSequenceUnavailable, out.Success, out.NextNumber, out.Message)
	}
	return out.NextNumber, nil
}
