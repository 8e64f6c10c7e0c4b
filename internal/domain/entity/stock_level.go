package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel representa la cantidad actual de un producto en una ubicación
// (tabla materializada, clave compuesta product_id + location_id).
// Available se deriva siempre de OnHand - Reserved; Recompute es el único
// punto donde se calcula para evitar divergencia con la columna persistida.
type StockLevel struct {
	ProductID  string
	LocationID string
	OnHand     decimal.Decimal
	Reserved   decimal.Decimal
	Available  decimal.Decimal
	UpdatedAt  time.Time
}

// NewStockLevel crea el nivel inicial en cero para un par (producto, ubicación).
// Se crea de forma perezosa en el primer incremento; nunca se borra (cero es estado válido).
func NewStockLevel(productID, locationID string) *StockLevel {
	return &StockLevel{
		ProductID:  productID,
		LocationID: locationID,
		OnHand:     decimal.Zero,
		Reserved:   decimal.Zero,
		Available:  decimal.Zero,
	}
}

// Recompute recalcula Available = OnHand - Reserved.
func (s *StockLevel) Recompute() {
	s.Available = s.OnHand.Sub(s.Reserved)
}
