package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jcamargo/stocktrack-api/internal/domain"
	"github.com/jcamargo/stocktrack-api/internal/domain/entity"
	"github.com/jcamargo/stocktrack-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del catálogo de ubicaciones sobre PostgreSQL (usable con pool o tx).
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, code, name, type, address, is_active, created_at, updated_at`

// Create persiste una nueva ubicación.
func (r *LocationRepo) Create(l *entity.Location) error {
	query := `
		INSERT INTO locations (` + locationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.Code, l.Name, l.Type, l.Address, l.IsActive, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	return r.getBy(`WHERE id = $1`, id)
}

// GetByCode obtiene una ubicación por código.
func (r *LocationRepo) GetByCode(code string) (*entity.Location, error) {
	return r.getBy(`WHERE code = $1`, code)
}

func (r *LocationRepo) getBy(where string, arg any) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations ` + where
	var l entity.Location
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&l.ID, &l.Code, &l.Name, &l.Type, &l.Address, &l.IsActive, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// Update actualiza una ubicación existente. Code no se modifica.
func (r *LocationRepo) Update(l *entity.Location) error {
	query := `
		UPDATE locations
		SET name = $2, type = $3, address = $4, is_active = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.Name, l.Type, l.Address, l.IsActive, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

// List lista ubicaciones con paginación.
func (r *LocationRepo) List(onlyActive bool, limit, offset int) ([]*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations`
	if onlyActive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY code ASC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.Code, &l.Name, &l.Type, &l.Address, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
