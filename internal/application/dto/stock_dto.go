package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOperationRequest crea un borrador de movimiento (entrada del colaborador).
// La factibilidad de stock se valida en el commit, no acá.
type CreateOperationRequest struct {
	DocumentType          string          `json:"document_type"`
	ProductID             string          `json:"product_id"`
	SourceLocationID      string          `json:"source_location_id"`
	DestinationLocationID string          `json:"destination_location_id"`
	Quantity              decimal.Decimal `json:"quantity"`
	Reference             string          `json:"reference"`
	Notes                 string          `json:"notes"`
}

// LedgerEntryResponse un movimiento del libro.
type LedgerEntryResponse struct {
	ID                    string          `json:"id"`
	DocumentType          string          `json:"document_type"`
	ProductID             string          `json:"product_id"`
	SourceLocationID      string          `json:"source_location_id,omitempty"`
	DestinationLocationID string          `json:"destination_location_id,omitempty"`
	Quantity              decimal.Decimal `json:"quantity"`
	Status                string          `json:"status"`
	Reference             string          `json:"reference,omitempty"`
	Notes                 string          `json:"notes,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	ValidatedAt           *time.Time      `json:"validated_at,omitempty"`
	CreatedBy             string          `json:"created_by,omitempty"`
}

// LedgerListResponse historial del libro.
type LedgerListResponse struct {
	Items []LedgerEntryResponse `json:"items"`
	Total int                   `json:"total"`
}

// StockLevelResponse nivel actual de un par (producto, ubicación).
type StockLevelResponse struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	OnHand     decimal.Decimal `json:"on_hand"`
	Reserved   decimal.Decimal `json:"reserved"`
	Available  decimal.Decimal `json:"available"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// StockLevelListResponse listado de niveles.
type StockLevelListResponse struct {
	Items []StockLevelResponse `json:"items"`
	Total int                  `json:"total"`
}

// LowStockItemResponse nivel bajo el punto de reorden, con datos de catálogo.
type LowStockItemResponse struct {
	ProductID    string          `json:"product_id"`
	ProductSKU   string          `json:"product_sku"`
	ProductName  string          `json:"product_name"`
	LocationID   string          `json:"location_id"`
	OnHand       decimal.Decimal `json:"on_hand"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}
