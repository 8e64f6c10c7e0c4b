package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jcamargo/stocktrack-api/internal/domain/entity"
	"github.com/jcamargo/stocktrack-api/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*StockLedgerRepo)(nil)

// StockLedgerRepo implementación del libro de movimientos sobre PostgreSQL (usable con pool o tx).
type StockLedgerRepo struct {
	q Querier
}

// NewStockLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLedgerRepository(q Querier) *StockLedgerRepo {
	return &StockLedgerRepo{q: q}
}

const ledgerColumns = `id, document_type, product_id, source_location_id, destination_location_id,
		quantity, status, reference, notes, created_at, validated_at, created_by`

// Create persiste un movimiento (normalmente en DRAFT).
func (r *StockLedgerRepo) Create(ctx context.Context, e *entity.LedgerEntry) error {
	query := `
		INSERT INTO stock_ledger (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.DocumentType, e.ProductID,
		nullable(e.SourceLocationID), nullable(e.DestinationLocationID),
		e.Quantity, e.Status, nullable(e.Reference), nullable(e.Notes),
		e.CreatedAt, e.ValidatedAt, nullable(e.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Devuelve nil si no existe.
func (r *StockLedgerRepo) GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetForUpdate obtiene el movimiento bloqueando su fila (SELECT FOR UPDATE), para
// serializar dos commits concurrentes del mismo movimiento. Devuelve nil si no existe.
func (r *StockLedgerRepo) GetForUpdate(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// MarkValidated flipea el estado a VALIDATED con su timestamp. Solo desde DRAFT:
// el WHERE protege contra un doble flip si el caller se saltó la verificación.
func (r *StockLedgerRepo) MarkValidated(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE stock_ledger SET status = $2, validated_at = $3 WHERE id = $1 AND status = $4`,
		id, entity.StatusValidated, at, entity.StatusDraft,
	)
	if err != nil {
		return fmt.Errorf("mark validated: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("mark validated: movimiento %s no está en DRAFT", id)
	}
	return nil
}

// MarkCancelled flipea el estado a CANCELLED. Solo desde DRAFT; nunca toca niveles.
func (r *StockLedgerRepo) MarkCancelled(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE stock_ledger SET status = $2 WHERE id = $1 AND status = $3`,
		id, entity.StatusCancelled, entity.StatusDraft,
	)
	if err != nil {
		return fmt.Errorf("mark cancelled: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("mark cancelled: movimiento %s no está en DRAFT", id)
	}
	return nil
}

// List devuelve movimientos filtrados, más recientes primero.
// LocationID coincide contra origen O destino.
func (r *StockLedgerRepo) List(ctx context.Context, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger WHERE 1=1`
	args := []any{}
	pos := 1
	if f.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.LocationID != "" {
		query += fmt.Sprintf(" AND (source_location_id = $%d OR destination_location_id = $%d)", pos, pos)
		args = append(args, f.LocationID)
		pos++
	}
	if f.DocumentType != "" {
		query += fmt.Sprintf(" AND document_type = $%d", pos)
		args = append(args, f.DocumentType)
		pos++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", pos)
	args = append(args, f.Limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		e, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *StockLedgerRepo) scanOne(row pgx.Row) (*entity.LedgerEntry, error) {
	e, err := scanLedger(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return e, nil
}

func (r *StockLedgerRepo) scanRow(rows pgx.Rows) (*entity.LedgerEntry, error) {
	e, err := scanLedger(rows.Scan)
	if err != nil {
		return nil, fmt.Errorf("scan ledger entry: %w", err)
	}
	return e, nil
}

func scanLedger(scan func(dest ...any) error) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	var source, destination, reference, notes, createdBy *string
	if err := scan(
		&e.ID, &e.DocumentType, &e.ProductID, &source, &destination,
		&e.Quantity, &e.Status, &reference, &notes,
		&e.CreatedAt, &e.ValidatedAt, &createdBy,
	); err != nil {
		return nil, err
	}
	e.SourceLocationID = orEmpty(source)
	e.DestinationLocationID = orEmpty(destination)
	e.Reference = orEmpty(reference)
	e.Notes = orEmpty(notes)
	e.CreatedBy = orEmpty(createdBy)
	return &e, nil
}
