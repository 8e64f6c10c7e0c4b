package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jcamargo/stocktrack-api/internal/domain/entity"
	"github.com/jcamargo/stocktrack-api/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación de los niveles materializados sobre PostgreSQL
// (usable con pool o tx). La escritura solo ocurre con instancias atadas a la
// transacción del TxRunner.
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

const levelColumns = `product_id, location_id, on_hand, reserved, available, updated_at`

// Get obtiene el nivel actual de un par. Devuelve nil si el par nunca tuvo stock.
func (r *StockLevelRepo) Get(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	query := `SELECT ` + levelColumns + ` FROM stock_levels WHERE product_id = $1 AND location_id = $2`
	var s entity.StockLevel
	err := r.q.QueryRow(ctx, query, productID, locationID).Scan(
		&s.ProductID, &s.LocationID, &s.OnHand, &s.Reserved, &s.Available, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return &s, nil
}

// GetForUpdate crea la fila en cero si no existe y la bloquea (SELECT FOR UPDATE).
// El insert previo cierra la carrera de creación perezosa: dos primeras entradas
// concurrentes al mismo par serializan sobre la misma fila en vez de leer ambas
// un nivel inexistente. Si la transacción aborta, el insert se revierte con ella.
func (r *StockLevelRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_levels (product_id, location_id, on_hand, reserved, available, updated_at)
		VALUES ($1, $2, 0, 0, 0, now())
		ON CONFLICT (product_id, location_id) DO NOTHING`,
		productID, locationID,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure stock level: %w", err)
	}

	query := `SELECT ` + levelColumns + ` FROM stock_levels WHERE product_id = $1 AND location_id = $2 FOR UPDATE`
	var s entity.StockLevel
	err = r.q.QueryRow(ctx, query, productID, locationID).Scan(
		&s.ProductID, &s.LocationID, &s.OnHand, &s.Reserved, &s.Available, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock level for update: %w", err)
	}
	return &s, nil
}

// Save persiste las cantidades del nivel. La fila ya existe (GetForUpdate la garantiza).
func (r *StockLevelRepo) Save(ctx context.Context, level *entity.StockLevel) error {
	_, err := r.q.Exec(ctx, `
		UPDATE stock_levels
		SET on_hand = $3, reserved = $4, available = $5, updated_at = $6
		WHERE product_id = $1 AND location_id = $2`,
		level.ProductID, level.LocationID, level.OnHand, level.Reserved, level.Available, level.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save stock level: %w", err)
	}
	return nil
}

// List devuelve niveles filtrados, más recientes primero.
func (r *StockLevelRepo) List(ctx context.Context, f repository.LevelFilter) ([]*entity.StockLevel, error) {
	query := `SELECT ` + levelColumns + ` FROM stock_levels WHERE 1=1`
	args := []any{}
	pos := 1
	if f.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.LocationID != "" {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, f.LocationID)
		pos++
	}
	if f.MinQuantity != nil {
		query += fmt.Sprintf(" AND on_hand >= $%d", pos)
		args = append(args, *f.MinQuantity)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLevel
	for rows.Next() {
		var s entity.StockLevel
		if err := rows.Scan(&s.ProductID, &s.LocationID, &s.OnHand, &s.Reserved, &s.Available, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ListBelowReorder devuelve los niveles con on_hand <= reorder_level del producto
// (solo productos activos con reorder_level > 0), con mayor déficit primero.
func (r *StockLevelRepo) ListBelowReorder(ctx context.Context) ([]repository.LowStockItem, error) {
	query := `
		SELECT s.product_id, s.location_id, s.on_hand, s.reserved, s.available, s.updated_at,
		       p.sku, p.name, p.reorder_level
		FROM stock_levels s
		JOIN products p ON p.id = s.product_id
		WHERE p.is_active AND p.reorder_level > 0 AND s.on_hand <= p.reorder_level
		ORDER BY (p.reorder_level - s.on_hand) DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list below reorder: %w", err)
	}
	defer rows.Close()
	var items []repository.LowStockItem
	for rows.Next() {
		var it repository.LowStockItem
		if err := rows.Scan(
			&it.Level.ProductID, &it.Level.LocationID, &it.Level.OnHand,
			&it.Level.Reserved, &it.Level.Available, &it.Level.UpdatedAt,
			&it.ProductSKU, &it.ProductName, &it.ReorderLevel,
		); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
