package usecase

import (
	"context"

	"github.com/jcamargo/stocktrack-api/internal/application/dto"
	"github.com/jcamargo/stocktrack-api/internal/application/stock"
	"github.com/jcamargo/stocktrack-api/internal/domain/entity"
	"github.com/jcamargo/stocktrack-api/internal/domain/repository"
)

// DashboardUseCase arma los KPIs del tablero combinando conteos del catálogo,
// pendientes del libro y agregados de stock. Solo lectura.
type DashboardUseCase struct {
	dashRepo repository.DashboardRepository
	queries  *stock.QueryUseCase
}

// NewDashboardUseCase construye el caso de uso del tablero.
func NewDashboardUseCase(dashRepo repository.DashboardRepository, queries *stock.QueryUseCase) *DashboardUseCase {
	return &DashboardUseCase{dashRepo: dashRepo, queries: queries}
}

// KPIs devuelve las métricas del tablero: productos/ubicaciones activos,
// recepciones y entregas pendientes (DRAFT), alertas de stock bajo, totales
// valorizados a costo de catálogo y los últimos movimientos.
func (uc *DashboardUseCase) KPIs(ctx context.Context) (*dto.DashboardKPIs, error) {
	totalProducts, err := uc.dashRepo.CountActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	totalLocations, err := uc.dashRepo.CountActiveLocations(ctx)
	if err != nil {
		return nil, err
	}
	pendingReceipts, err := uc.dashRepo.CountLedger(ctx, entity.DocumentTypeRECEIPT, entity.StatusDraft)
	if err != nil {
		return nil, err
	}
	pendingDeliveries, err := uc.dashRepo.CountLedger(ctx, entity.DocumentTypeDELIVERY, entity.StatusDraft)
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.queries.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := uc.dashRepo.StockTotals(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := uc.queries.History(ctx, repository.LedgerFilter{Limit: 10})
	if err != nil {
		return nil, err
	}

	moves := make([]dto.LedgerEntryResponse, 0, len(recent))
	for _, e := range recent {
		moves = append(moves, dto.LedgerEntryResponse{
			ID:                    e.ID,
			DocumentType:          e.DocumentType,
			ProductID:             e.ProductID,
			SourceLocationID:      e.SourceLocationID,
			DestinationLocationID: e.DestinationLocationID,
			Quantity:              e.Quantity,
			Status:                e.Status,
			Reference:             e.Reference,
			CreatedAt:             e.CreatedAt,
			ValidatedAt:           e.ValidatedAt,
			CreatedBy:             e.CreatedBy,
		})
	}

	return &dto.DashboardKPIs{
		TotalProducts:     totalProducts,
		TotalLocations:    totalLocations,
		PendingReceipts:   pendingReceipts,
		PendingDeliveries: pendingDeliveries,
		LowStockCount:     len(lowStock),
		TotalStockItems:   totals.TotalUnits,
		TotalStockValue:   totals.StockValue,
		ReservedValue:     totals.ReservedValue,
		AvailableValue:    totals.AvailableValue,
		RecentMoves:       moves,
	}, nil
}
