// Package sqlite guarda el contador local de facturas del dispositivo.
// Es el segundo nivel del asignador de números: se usa cuando el servicio
// remoto de consecutivos no responde.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/jhoicas/invoice-gst-engine/internal/domain"
)

// ─── Schema ─────────────────────────────────────────────────────────────────

func migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS local_counters (
			key        TEXT PRIMARY KEY,
			value      INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
	}
}

// ─── Store ──────────────────────────────────────────────────────────────────

// CounterStore implementa billing.CounterStore. El incremento es atómico:
// mutex en el proceso y transacción en la base.
type CounterStore struct {
	db *sql.DB
	mu sync.Mutex
}

// Open abre (o crea) la base en path. ":memory:" sirve para pruebas.
func Open(ctx context.Context, path string) (*CounterStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: abrir %s: %w", path, err)
	}
	// una sola conexión: SQLite serializa escrituras y :memory: es por conexión
	db.SetMaxOpenConns(1)

	for _, stmt := range migrations() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: migración: %w", err)
		}
	}
	return &CounterStore{db: db}, nil
}

// Increment suma 1 al contador key y devuelve el valor nuevo (el primero es 1).
func (s *CounterStore) Increment(ctx context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: iniciar transacción: %w", domain.ErrCounterStorage, err)
	}
	defer tx.Rollback() //nolint:errcheck

	var value int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO local_counters (key, value, updated_at)
		VALUES (?, 1, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET
			value      = local_counters.value + 1,
			updated_at = datetime('now')
		RETURNING value
	`, key).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("%w: incrementar %s: %w", domain.ErrCounterStorage, key, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: confirmar %s: %w", domain.ErrCounterStorage, key, err)
	}
	return value, nil
}

// Get valor actual; 0 si la clave no existe.
func (s *CounterStore) Get(ctx context.Context, key string) (int, error) {
	var value int
	err := s.db.QueryRowContext(ctx, `SELECT value FROM local_counters WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: leer %s: %w", domain.ErrCounterStorage, key, err)
	}
	return value, nil
}

// Close cierra la base.
func (s *CounterStore) Close() error {
	return s.db.Close()
}
