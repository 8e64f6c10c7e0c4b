package stock

import (
	"context"

	"github.com/jcamargo/stocktrack-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Es la unidad atómica del motor de stock: o todos los niveles y el
// flip de estado del movimiento se aplican, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ledgerRepo repository.StockLedgerRepository,
		levelRepo repository.StockLevelRepository,
	) error) error
}
