package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jcamargo/stocktrack-api/internal/domain/entity"
)

// LevelFilter filtros para listar niveles de stock.
type LevelFilter struct {
	ProductID   string
	LocationID  string
	MinQuantity *decimal.Decimal // filtra on_hand >= MinQuantity
	Limit       int
	Offset      int
}

// LowStockItem nivel por debajo del umbral de reorden, enriquecido con datos del catálogo.
type LowStockItem struct {
	Level        entity.StockLevel
	ProductSKU   string
	ProductName  string
	ReorderLevel decimal.Decimal
}

// StockLevelRepository puerto de persistencia para los niveles materializados
// (stock_levels). La ruta de escritura pertenece en exclusiva al coordinador de
// commit, dentro de la transacción que provee el TxRunner.
type StockLevelRepository interface {
	// Get devuelve el nivel actual o nil si el par (producto, ubicación) nunca tuvo stock.
	Get(ctx context.Context, productID, locationID string) (*entity.StockLevel, error)
	// GetForUpdate crea la fila en cero si no existe y la bloquea (SELECT FOR UPDATE).
	// El insert participa de la transacción: si el commit aborta, la fila no queda.
	GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockLevel, error)
	// Save persiste on_hand, reserved, available y updated_at del nivel.
	Save(ctx context.Context, level *entity.StockLevel) error
	List(ctx context.Context, f LevelFilter) ([]*entity.StockLevel, error)
	// ListBelowReorder devuelve los niveles con on_hand <= reorder_level del producto
	// (solo productos con reorder_level > 0), con mayor déficit primero.
	ListBelowReorder(ctx context.Context) ([]LowStockItem, error)
}
