package stock

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jcamargo/stocktrack-api/internal/domain"
	"github.com/jcamargo/stocktrack-api/internal/domain/entity"
)

// LevelEffect un delta de on_hand a aplicar sobre un par (producto, ubicación).
type LevelEffect struct {
	ProductID   string
	LocationID  string
	OnHandDelta decimal.Decimal
}

// ComputeEffects calcula los efectos declarativos de un movimiento según su tipo de
// documento, sin tocar persistencia. La factibilidad contra el nivel actual se verifica
// aparte con ApplyEffect, sobre la fila ya bloqueada, para que lectura y escritura usen
// el mismo snapshot.
//
//   - RECEIPT: +quantity en destino.
//   - DELIVERY: -quantity en origen.
//   - INTERNAL_TRANSFER: -quantity en origen y +quantity en destino.
//   - ADJUSTMENT: el signo de quantity determina dirección; positivo suma en destino,
//     negativo resta |quantity| en origen. quantity == 0 es entrada inválida.
func ComputeEffects(entry *entity.LedgerEntry) ([]LevelEffect, error) {
	if !entity.ValidDocumentType(entry.DocumentType) {
		return nil, domain.ErrUnsupportedDocumentType
	}
	if entry.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	switch entry.DocumentType {
	case entity.DocumentTypeRECEIPT:
		if entry.DestinationLocationID == "" || !entry.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		return []LevelEffect{
			{ProductID: entry.ProductID, LocationID: entry.DestinationLocationID, OnHandDelta: entry.Quantity},
		}, nil

	case entity.DocumentTypeDELIVERY:
		if entry.SourceLocationID == "" || !entry.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		return []LevelEffect{
			{ProductID: entry.ProductID, LocationID: entry.SourceLocationID, OnHandDelta: entry.Quantity.Neg()},
		}, nil

	case entity.DocumentTypeINTERNALTRANSFER:
		if entry.SourceLocationID == "" || entry.DestinationLocationID == "" ||
			entry.SourceLocationID == entry.DestinationLocationID ||
			!entry.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		return []LevelEffect{
			{ProductID: entry.ProductID, LocationID: entry.SourceLocationID, OnHandDelta: entry.Quantity.Neg()},
			{ProductID: entry.ProductID, LocationID: entry.DestinationLocationID, OnHandDelta: entry.Quantity},
		}, nil

	case entity.DocumentTypeADJUSTMENT:
		// El signo es el único determinante de dirección; el caller debe haber fijado
		// la ubicación correcta para el signo (contrato heredado del flujo de ajustes).
		if entry.Quantity.GreaterThan(decimal.Zero) {
			if entry.DestinationLocationID == "" {
				return nil, domain.ErrInvalidInput
			}
			return []LevelEffect{
				{ProductID: entry.ProductID, LocationID: entry.DestinationLocationID, OnHandDelta: entry.Quantity},
			}, nil
		}
		if entry.SourceLocationID == "" {
			return nil, domain.ErrInvalidInput
		}
		return []LevelEffect{
			{ProductID: entry.ProductID, LocationID: entry.SourceLocationID, OnHandDelta: entry.Quantity},
		}, nil
	}
	return nil, domain.ErrUnsupportedDocumentType
}

// ApplyEffect aplica el delta sobre un nivel ya bloqueado, verificando factibilidad:
// el nuevo on_hand no puede quedar negativo ni por debajo de reserved (una baja que
// rompa on_hand >= reserved es ErrInsufficientStock aunque on_hand quede >= 0).
func ApplyEffect(level *entity.StockLevel, eff LevelEffect) error {
	newOnHand := level.OnHand.Add(eff.OnHandDelta)
	if newOnHand.LessThan(decimal.Zero) || newOnHand.LessThan(level.Reserved) {
		return domain.ErrInsufficientStock
	}
	level.OnHand = newOnHand
	level.Recompute()
	return nil
}

// sortEffects ordena los efectos en orden global fijo (product_id, location_id) para
// que dos commits concurrentes que tocan los mismos pares bloqueen en el mismo orden
// (evita deadlock entre transfers cruzados).
func sortEffects(effects []LevelEffect) {
	sort.Slice(effects, func(i, j int) bool {
		if effects[i].ProductID != effects[j].ProductID {
			return effects[i].ProductID < effects[j].ProductID
		}
		return effects[i].LocationID < effects[j].LocationID
	})
}
