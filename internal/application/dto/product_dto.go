package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto en el catálogo.
type CreateProductRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
}

// UpdateProductRequest actualización parcial de producto (punteros = opcional).
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category"`
	UnitOfMeasure *string          `json:"unit_of_measure"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
	ReorderLevel  *decimal.Decimal `json:"reorder_level"`
	IsActive      *bool            `json:"is_active"`
}

// ProductResponse producto del catálogo.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category,omitempty"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
