package repository

import "github.com/jcamargo/stocktrack-api/internal/domain/entity"

// ProductRepository puerto de persistencia del catálogo de productos.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(onlyActive bool, limit, offset int) ([]*entity.Product, error)
}
