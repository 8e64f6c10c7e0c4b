package dto

import "time"

// CreateLocationRequest alta de ubicación.
type CreateLocationRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Type    string `json:"type"` // WAREHOUSE, RACK, SHELF, ZONE, SUPPLIER, CUSTOMER
	Address string `json:"address"`
}

// UpdateLocationRequest actualización parcial de ubicación.
type UpdateLocationRequest struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"is_active"`
}

// LocationResponse ubicación del catálogo.
type LocationResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationListResponse listado paginado de ubicaciones.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
