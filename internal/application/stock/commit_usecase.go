package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/jcamargo/stocktrack-api/internal/domain"
	"github.com/jcamargo/stocktrack-api/internal/domain/entity"
	"github.com/jcamargo/stocktrack-api/internal/domain/repository"
)

// CommitOperationUseCase es el único punto de entrada que convierte un LedgerEntry
// DRAFT en VALIDATED con sus efectos sobre stock_levels, como una sola operación
// indivisible. Nadie más muta niveles.
type CommitOperationUseCase struct {
	txRunner TxRunner
}

// NewCommitOperationUseCase construye el coordinador de commit.
func NewCommitOperationUseCase(txRunner TxRunner) *CommitOperationUseCase {
	return &CommitOperationUseCase{txRunner: txRunner}
}

// Commit valida y aplica el movimiento movementID:
//
//  1. Carga el LedgerEntry con bloqueo de fila; ErrNotFound si no existe,
//     ErrAlreadyFinalized si no está en DRAFT (el commit no es idempotente:
//     aceptar un segundo intento en silencio escondería un bug del caller).
//  2. Calcula los efectos y los ordena en orden global fijo.
//  3. Por cada efecto bloquea (o crea en cero) el nivel, verifica factibilidad
//     y aplica el delta.
//  4. Marca el movimiento VALIDATED con validatedAt.
//
// Todo dentro de una transacción del TxRunner: o se aplica completo o no se
// aplica nada. No hay reintentos internos; la contención sobre un par se
// resuelve por serialización (el lock de fila), no por retry.
func (uc *CommitOperationUseCase) Commit(ctx context.Context, movementID string) (*entity.LedgerEntry, error) {
	if movementID == "" {
		return nil, domain.ErrInvalidInput
	}

	var committed *entity.LedgerEntry
	err := uc.txRunner.Run(ctx, func(
		ledgerRepo repository.StockLedgerRepository,
		levelRepo repository.StockLevelRepository,
	) error {
		entry, err := ledgerRepo.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		if !entry.IsDraft() {
			return domain.ErrAlreadyFinalized
		}

		effects, err := ComputeEffects(entry)
		if err != nil {
			return err
		}
		sortEffects(effects)

		now := time.Now()
		for _, eff := range effects {
			level, err := levelRepo.GetForUpdate(ctx, eff.ProductID, eff.LocationID)
			if err != nil {
				return err
			}
			if err := ApplyEffect(level, eff); err != nil {
				return err
			}
			level.UpdatedAt = now
			if err := levelRepo.Save(ctx, level); err != nil {
				return err
			}
		}

		if err := ledgerRepo.MarkValidated(ctx, entry.ID, now); err != nil {
			return err
		}
		entry.Status = entity.StatusValidated
		entry.ValidatedAt = &now
		committed = entry
		return nil
	})
	if err != nil {
		return nil, asEngineError(err)
	}

	log.Info().
		Str("movement_id", committed.ID).
		Str("document_type", committed.DocumentType).
		Str("product_id", committed.ProductID).
		Str("quantity", committed.Quantity.String()).
		Msg("movimiento validado")
	return committed, nil
}

// asEngineError conserva los errores del dominio tal cual y envuelve cualquier otro
// (begin/commit de la tx, I/O, timeout de la capa de storage) como ErrStorageFailure,
// para que el caller distinga por tipo sin inspeccionar strings.
func asEngineError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrAlreadyFinalized),
		errors.Is(err, domain.ErrUnsupportedDocumentType),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrStorageFailure):
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
}
