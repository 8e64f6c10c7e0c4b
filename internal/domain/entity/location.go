package entity

import "time"

// Tipos de ubicación física.
const (
	LocationTypeWarehouse = "WAREHOUSE"
	LocationTypeRack      = "RACK"
	LocationTypeShelf     = "SHELF"
	LocationTypeZone      = "ZONE"
	LocationTypeSupplier  = "SUPPLIER"
	LocationTypeCustomer  = "CUSTOMER"
)

// Location representa una ubicación física donde puede existir stock.
// El motor de stock la consume como clave opaca; el catálogo es el dueño del CRUD.
type Location struct {
	ID        string
	Code      string // código corto único, ej. "WH-A-01"
	Name      string
	Type      string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidLocationType verifica que t sea un tipo de ubicación conocido.
func ValidLocationType(t string) bool {
	switch t {
	case LocationTypeWarehouse, LocationTypeRack, LocationTypeShelf,
		LocationTypeZone, LocationTypeSupplier, LocationTypeCustomer:
		return true
	}
	return false
}
