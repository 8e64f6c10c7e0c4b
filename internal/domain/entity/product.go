package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo.
// ReorderLevel alimenta las alertas de stock bajo; el motor de stock lo trata
// como un umbral externo (el catálogo es el dueño del dato).
type Product struct {
	ID            string
	SKU           string // código único
	Name          string
	Description   string
	Category      string
	UnitOfMeasure string // pcs, kg, l, box, etc.
	UnitCost      decimal.Decimal
	ReorderLevel  decimal.Decimal // 0 = sin alerta de reorden
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
