package dto

import "github.com/shopspring/decimal"

// DashboardKPIs métricas agregadas para el tablero.
type DashboardKPIs struct {
	TotalProducts     int                   `json:"total_products"`
	TotalLocations    int                   `json:"total_locations"`
	PendingReceipts   int                   `json:"pending_receipts"`
	PendingDeliveries int                   `json:"pending_deliveries"`
	LowStockCount     int                   `json:"low_stock_count"`
	TotalStockItems   decimal.Decimal       `json:"total_stock_items"`
	TotalStockValue   decimal.Decimal       `json:"total_stock_value"`
	ReservedValue     decimal.Decimal       `json:"reserved_value"`
	AvailableValue    decimal.Decimal       `json:"available_value"`
	RecentMoves       []LedgerEntryResponse `json:"recent_moves"`
}
