package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jcamargo/stocktrack-api/internal/application/stock"
	"github.com/jcamargo/stocktrack-api/internal/domain"
	"github.com/jcamargo/stocktrack-api/internal/domain/repository"
)

var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Es la unidad
// atómica del coordinador de commit: los locks de fila (FOR UPDATE) tomados por
// los repos dentro de fn se sostienen hasta el Commit/Rollback.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Begin/Commit fallidos se reportan como ErrStorageFailure: la unidad atómica no pudo
// aplicarse de forma durable y no queda ningún efecto parcial.
func (r *TxRunner) Run(ctx context.Context, fn func(
	ledgerRepo repository.StockLedgerRepository,
	levelRepo repository.StockLevelRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", domain.ErrStorageFailure, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ledgerRepo := NewStockLedgerRepository(tx)
	levelRepo := NewStockLevelRepository(tx)

	if err := fn(ledgerRepo, levelRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit transaction: %v", domain.ErrStorageFailure, err)
	}
	return nil
}
