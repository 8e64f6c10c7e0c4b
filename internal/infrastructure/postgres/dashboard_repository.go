package postgres

import (
	"context"
	"fmt"

	"github.com/jcamargo/stocktrack-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas agregadas de solo lectura para el tablero.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador. Pasar el pool (no requiere tx).
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// CountActiveProducts cuenta productos activos del catálogo.
func (r *DashboardRepo) CountActiveProducts(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM products WHERE is_active`)
}

// CountActiveLocations cuenta ubicaciones activas.
func (r *DashboardRepo) CountActiveLocations(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM locations WHERE is_active`)
}

// CountLedger cuenta movimientos por tipo y estado (ej. RECEIPT en DRAFT = recepciones pendientes).
func (r *DashboardRepo) CountLedger(ctx context.Context, documentType, status string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM stock_ledger WHERE document_type = $1 AND status = $2`,
		documentType, status,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count ledger: %w", err)
	}
	return n, nil
}

// StockTotals agrega unidades y valor de inventario a costo de catálogo.
func (r *DashboardRepo) StockTotals(ctx context.Context) (*repository.StockTotals, error) {
	query := `
		SELECT COALESCE(SUM(s.on_hand), 0),
		       COALESCE(SUM(s.on_hand * p.unit_cost), 0),
		       COALESCE(SUM(s.reserved * p.unit_cost), 0),
		       COALESCE(SUM(s.available * p.unit_cost), 0)
		FROM stock_levels s
		JOIN products p ON p.id = s.product_id`
	var t repository.StockTotals
	err := r.q.QueryRow(ctx, query).Scan(&t.TotalUnits, &t.StockValue, &t.ReservedValue, &t.AvailableValue)
	if err != nil {
		return nil, fmt.Errorf("stock totals: %w", err)
	}
	return &t, nil
}

func (r *DashboardRepo) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
