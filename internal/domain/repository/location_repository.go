package repository

import "github.com/jcamargo/stocktrack-api/internal/domain/entity"

// LocationRepository puerto de persistencia del catálogo de ubicaciones.
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	GetByCode(code string) (*entity.Location, error)
	Update(location *entity.Location) error
	List(onlyActive bool, limit, offset int) ([]*entity.Location, error)
}
