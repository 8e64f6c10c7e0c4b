package stock

import (
	"context"

	"github.com/jcamargo/stocktrack-api/internal/domain"
	"github.com/jcamargo/stocktrack-api/internal/domain/entity"
	"github.com/jcamargo/stocktrack-api/internal/domain/repository"
)

// DefaultHistoryLimit límite por defecto para el historial del libro.
const DefaultHistoryLimit = 50

// QueryUseCase proyecciones de solo lectura sobre el libro y los niveles.
// Sin efectos de escritura; opera sobre repositorios atados al pool (fuera de
// la transacción de commit), así que nunca ve efectos de un commit a medias.
type QueryUseCase struct {
	ledgerRepo repository.StockLedgerRepository
	levelRepo  repository.StockLevelRepository
}

// NewQueryUseCase construye la fachada de consultas.
func NewQueryUseCase(
	ledgerRepo repository.StockLedgerRepository,
	levelRepo repository.StockLevelRepository,
) *QueryUseCase {
	return &QueryUseCase{ledgerRepo: ledgerRepo, levelRepo: levelRepo}
}

// CurrentLevel devuelve el nivel actual de un par (producto, ubicación).
// ErrNotFound si el par nunca tuvo stock.
func (uc *QueryUseCase) CurrentLevel(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	if productID == "" || locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	level, err := uc.levelRepo.Get(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, domain.ErrNotFound
	}
	return level, nil
}

// History devuelve movimientos del libro, más recientes primero. LocationID
// filtra contra origen O destino.
func (uc *QueryUseCase) History(ctx context.Context, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultHistoryLimit
	}
	return uc.ledgerRepo.List(ctx, f)
}

// Levels lista niveles de stock con filtros opcionales, más recientes primero.
func (uc *QueryUseCase) Levels(ctx context.Context, f repository.LevelFilter) ([]*entity.StockLevel, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	return uc.levelRepo.List(ctx, f)
}

// LowStock devuelve los niveles con on_hand en o por debajo del punto de reorden
// del producto. El umbral es dato del catálogo; acá solo se filtra.
func (uc *QueryUseCase) LowStock(ctx context.Context) ([]repository.LowStockItem, error) {
	return uc.levelRepo.ListBelowReorder(ctx)
}
