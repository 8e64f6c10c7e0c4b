package repository

import (
	"context"
	"time"

	"github.com/jcamargo/stocktrack-api/internal/domain/entity"
)

// LedgerFilter filtros para listar el libro de movimientos.
// LocationID coincide contra origen O destino. Limit en cero usa el default del caller.
type LedgerFilter struct {
	ProductID    string
	LocationID   string
	DocumentType string
	Status       string
	Limit        int
}

// StockLedgerRepository puerto de persistencia del libro de movimientos (stock_ledger).
// Las filas VALIDATED/CANCELLED son inmutables; nunca se borran (son la pista de auditoría).
type StockLedgerRepository interface {
	Create(ctx context.Context, entry *entity.LedgerEntry) error
	GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error)
	// GetForUpdate bloquea la fila del movimiento (SELECT FOR UPDATE) para serializar
	// dos commits concurrentes del mismo movimiento. Devuelve nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.LedgerEntry, error)
	MarkValidated(ctx context.Context, id string, at time.Time) error
	MarkCancelled(ctx context.Context, id string) error
	List(ctx context.Context, f LedgerFilter) ([]*entity.LedgerEntry, error)
}
