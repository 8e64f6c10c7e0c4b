package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jcamargo/stocktrack-api/internal/application/dto"
	"github.com/jcamargo/stocktrack-api/internal/domain"
	"github.com/jcamargo/stocktrack-api/internal/domain/entity"
	"github.com/jcamargo/stocktrack-api/internal/domain/repository"
)

// OperationUseCase crea y cancela borradores de movimiento. No toca stock_levels:
// el efecto sobre niveles ocurre recién en el commit.
type OperationUseCase struct {
	ledgerRepo   repository.StockLedgerRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewOperationUseCase construye el caso de uso de operaciones.
func NewOperationUseCase(
	ledgerRepo repository.StockLedgerRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *OperationUseCase {
	return &OperationUseCase{
		ledgerRepo:   ledgerRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// CreateDraft valida forma y referencias, y persiste un LedgerEntry en DRAFT.
// La factibilidad de stock NO se verifica acá: se verifica en el commit, contra
// el nivel bloqueado (verificarla antes daría una respuesta que puede quedar
// obsoleta al momento de commitear).
func (uc *OperationUseCase) CreateDraft(ctx context.Context, actorID string, in dto.CreateOperationRequest) (*entity.LedgerEntry, error) {
	entry := &entity.LedgerEntry{
		ID:                    uuid.New().String(),
		DocumentType:          in.DocumentType,
		ProductID:             in.ProductID,
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		Quantity:              in.Quantity,
		Status:                entity.StatusDraft,
		Reference:             in.Reference,
		Notes:                 in.Notes,
		CreatedAt:             time.Now(),
		CreatedBy:             actorID,
	}
	if entry.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	// Misma validación de forma que usará el commit (ubicaciones requeridas por tipo,
	// magnitud positiva, transfer con ubicaciones distintas, cantidad no nula).
	if _, err := ComputeEffects(entry); err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(entry.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, domain.ErrNotFound
	}
	for _, locID := range []string{entry.SourceLocationID, entry.DestinationLocationID} {
		if locID == "" {
			continue
		}
		loc, err := uc.locationRepo.GetByID(locID)
		if err != nil {
			return nil, err
		}
		if loc == nil || !loc.IsActive {
			return nil, domain.ErrNotFound
		}
	}

	if err := uc.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Cancel pasa un movimiento de DRAFT a CANCELLED. Un movimiento VALIDATED es
// inmutable: revertirlo se modela como un ADJUSTMENT compensatorio, nunca como
// mutación, así que cancelar algo ya finalizado es ErrAlreadyFinalized.
func (uc *OperationUseCase) Cancel(ctx context.Context, movementID string) (*entity.LedgerEntry, error) {
	entry, err := uc.ledgerRepo.GetByID(ctx, movementID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	if !entry.IsDraft() {
		return nil, domain.ErrAlreadyFinalized
	}
	if err := uc.ledgerRepo.MarkCancelled(ctx, movementID); err != nil {
		return nil, err
	}
	entry.Status = entity.StatusCancelled
	return entry, nil
}
