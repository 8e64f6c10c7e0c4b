package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockTotals agregados de valor de inventario a costo de catálogo.
type StockTotals struct {
	TotalUnits     decimal.Decimal
	StockValue     decimal.Decimal
	ReservedValue  decimal.Decimal
	AvailableValue decimal.Decimal
}

// DashboardRepository consultas agregadas de solo lectura para los KPIs del tablero.
type DashboardRepository interface {
	CountActiveProducts(ctx context.Context) (int, error)
	CountActiveLocations(ctx context.Context) (int, error)
	CountLedger(ctx context.Context, documentType, status string) (int, error)
	StockTotals(ctx context.Context) (*StockTotals, error)
}
