package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento de un movimiento de stock.
const (
	DocumentTypeRECEIPT          = "RECEIPT"           // entrada desde proveedor
	DocumentTypeDELIVERY         = "DELIVERY"          // salida hacia cliente
	DocumentTypeINTERNALTRANSFER = "INTERNAL_TRANSFER" // traslado entre ubicaciones
	DocumentTypeADJUSTMENT       = "ADJUSTMENT"        // ajuste (signo determina dirección)
)

// Estados del ciclo de vida de un LedgerEntry. VALIDATED y CANCELLED son terminales.
const (
	StatusDraft     = "DRAFT"
	StatusValidated = "VALIDATED"
	StatusCancelled = "CANCELLED"
)

// LedgerEntry representa un movimiento de stock solicitado: una fila inmutable del
// libro de movimientos (stock_ledger). Es la fuente de verdad de "qué pasó".
// SourceLocationID/DestinationLocationID vacíos significan NULL (según el tipo de documento).
// Quantity es magnitud positiva salvo en ADJUSTMENT, donde el signo determina dirección.
type LedgerEntry struct {
	ID                    string
	DocumentType          string
	ProductID             string
	SourceLocationID      string
	DestinationLocationID string
	Quantity              decimal.Decimal
	Status                string
	Reference             string // documento externo: orden de compra, remisión, nota de ajuste
	Notes                 string
	CreatedAt             time.Time
	ValidatedAt           *time.Time
	CreatedBy             string // UserID del actor
}

// IsDraft indica si el movimiento aún puede ser validado o cancelado.
func (e *LedgerEntry) IsDraft() bool { return e.Status == StatusDraft }

// IsTerminal indica si el movimiento alcanzó un estado final (VALIDATED o CANCELLED).
func (e *LedgerEntry) IsTerminal() bool {
	return e.Status == StatusValidated || e.Status == StatusCancelled
}

// ValidDocumentType verifica que t sea un tipo de documento conocido.
func ValidDocumentType(t string) bool {
	switch t {
	case DocumentTypeRECEIPT, DocumentTypeDELIVERY, DocumentTypeINTERNALTRANSFER, DocumentTypeADJUSTMENT:
		return true
	}
	return false
}
