package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jcamargo/stocktrack-api/internal/application/dto"
	"github.com/jcamargo/stocktrack-api/internal/application/stock"
	"github.com/jcamargo/stocktrack-api/internal/domain"
	"github.com/jcamargo/stocktrack-api/internal/domain/entity"
	"github.com/jcamargo/stocktrack-api/internal/domain/repository"
)

// OperationHandler maneja las peticiones HTTP de movimientos de stock (protegido):
// creación de borradores, commit, cancelación e historial.
type OperationHandler struct {
	operations *stock.OperationUseCase
	commit     *stock.CommitOperationUseCase
	queries    *stock.QueryUseCase
}

// NewOperationHandler construye el handler.
func NewOperationHandler(
	operations *stock.OperationUseCase,
	commit *stock.CommitOperationUseCase,
	queries *stock.QueryUseCase,
) *OperationHandler {
	return &OperationHandler{operations: operations, commit: commit, queries: queries}
}

// Create godoc
// @Summary      Crear borrador de movimiento
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOperationRequest  true  "document_type, product_id, ubicaciones según tipo, quantity"
// @Success      201   {object}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/operations [post]
func (h *OperationHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.operations.CreateDraft(c.Context(), userID, in)
	if err != nil {
		return respondEngineError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLedgerEntryResponse(entry))
}

// Commit godoc
// @Summary      Validar (commitear) un movimiento
// @Description  Aplica atómicamente los efectos del movimiento sobre los niveles
//	de stock y pasa el estado a VALIDATED. No es idempotente: un segundo commit
//	responde 409 ALREADY_FINALIZED.
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.LedgerEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/commit [post]
func (h *OperationHandler) Commit(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	entry, err := h.commit.Commit(c.Context(), id)
	if err != nil {
		return respondEngineError(c, err)
	}
	return c.JSON(toLedgerEntryResponse(entry))
}

// Cancel godoc
// @Summary      Cancelar un borrador de movimiento
// @Description  Solo movimientos en DRAFT. Un movimiento VALIDATED se revierte con
//	un ADJUSTMENT compensatorio, no se cancela.
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.LedgerEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/cancel [post]
func (h *OperationHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	entry, err := h.operations.Cancel(c.Context(), id)
	if err != nil {
		return respondEngineError(c, err)
	}
	return c.JSON(toLedgerEntryResponse(entry))
}

// History godoc
// @Summary      Historial del libro de movimientos
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        product_id     query  string  false  "Filtrar por producto"
// @Param        location_id    query  string  false  "Filtrar por ubicación (origen o destino)"
// @Param        document_type  query  string  false  "RECEIPT, DELIVERY, INTERNAL_TRANSFER, ADJUSTMENT"
// @Param        status         query  string  false  "DRAFT, VALIDATED, CANCELLED"
// @Param        limit          query  int     false  "Límite (default 50)"
// @Success      200  {object}  dto.LedgerListResponse
// @Router       /api/operations [get]
func (h *OperationHandler) History(c *fiber.Ctx) error {
	f := repository.LedgerFilter{
		ProductID:    c.Query("product_id"),
		LocationID:   c.Query("location_id"),
		DocumentType: c.Query("document_type"),
		Status:       c.Query("status"),
		Limit:        c.QueryInt("limit", stock.DefaultHistoryLimit),
	}
	list, err := h.queries.History(c.Context(), f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	items := make([]dto.LedgerEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, toLedgerEntryResponse(e))
	}
	return c.JSON(dto.LedgerListResponse{Items: items, Total: len(items)})
}

// respondEngineError mapea los errores del motor de stock a HTTP con códigos
// estables distinguibles por el cliente.
func respondEngineError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrUnsupportedDocumentType):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNSUPPORTED_DOCUMENT_TYPE", Message: "tipo de documento no soportado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrAlreadyFinalized):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_FINALIZED", Message: "el movimiento ya fue finalizado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrStorageFailure):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORAGE_FAILURE", Message: "no se pudo aplicar la operación"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toLedgerEntryResponse(e *entity.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:                    e.ID,
		DocumentType:          e.DocumentType,
		ProductID:             e.ProductID,
		SourceLocationID:      e.SourceLocationID,
		DestinationLocationID: e.DestinationLocationID,
		Quantity:              e.Quantity,
		Status:                e.Status,
		Reference:             e.Reference,
		Notes:                 e.Notes,
		CreatedAt:             e.CreatedAt,
		ValidatedAt:           e.ValidatedAt,
		CreatedBy:             e.CreatedBy,
	}
}
