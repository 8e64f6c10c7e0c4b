package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/jcamargo/stocktrack-api/internal/application/dto"
	"github.com/jcamargo/stocktrack-api/internal/application/stock"
	"github.com/jcamargo/stocktrack-api/internal/domain/entity"
	"github.com/jcamargo/stocktrack-api/internal/domain/repository"
)

// StockHandler maneja las consultas de niveles de stock (protegido, solo lectura).
type StockHandler struct {
	queries *stock.QueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(queries *stock.QueryUseCase) *StockHandler {
	return &StockHandler{queries: queries}
}

// Levels godoc
// @Summary      Listar niveles de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Filtrar por producto"
// @Param        location_id   query  string  false  "Filtrar por ubicación"
// @Param        min_quantity  query  string  false  "on_hand mínimo (decimal)"
// @Param        limit         query  int     false  "Límite (default 100)"
// @Param        offset        query  int     false  "Offset"
// @Success      200  {object}  dto.StockLevelListResponse
// @Router       /api/stock/levels [get]
func (h *StockHandler) Levels(c *fiber.Ctx) error {
	f := repository.LevelFilter{
		ProductID:  c.Query("product_id"),
		LocationID: c.Query("location_id"),
		Limit:      c.QueryInt("limit", 100),
		Offset:     c.QueryInt("offset", 0),
	}
	if raw := c.Query("min_quantity"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "min_quantity inválido"})
		}
		f.MinQuantity = &min
	}
	list, err := h.queries.Levels(c.Context(), f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	items := make([]dto.StockLevelResponse, 0, len(list))
	for _, l := range list {
		items = append(items, toStockLevelResponse(l))
	}
	return c.JSON(dto.StockLevelListResponse{Items: items, Total: len(items)})
}

// CurrentLevel godoc
// @Summary      Nivel actual de un par (producto, ubicación)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId   path  string  true  "ID del producto"
// @Param        locationId  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.StockLevelResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/levels/{productId}/{locationId} [get]
func (h *StockHandler) CurrentLevel(c *fiber.Ctx) error {
	level, err := h.queries.CurrentLevel(c.Context(), c.Params("productId"), c.Params("locationId"))
	if err != nil {
		return respondEngineError(c, err)
	}
	return c.JSON(toStockLevelResponse(level))
}

// LowStock godoc
// @Summary      Niveles en o por debajo del punto de reorden
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItemResponse
// @Router       /api/stock/low [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.queries.LowStock(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LowStockItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LowStockItemResponse{
			ProductID:    it.Level.ProductID,
			ProductSKU:   it.ProductSKU,
			ProductName:  it.ProductName,
			LocationID:   it.Level.LocationID,
			OnHand:       it.Level.OnHand,
			ReorderLevel: it.ReorderLevel,
		})
	}
	return c.JSON(out)
}

func toStockLevelResponse(l *entity.StockLevel) dto.StockLevelResponse {
	return dto.StockLevelResponse{
		ProductID:  l.ProductID,
		LocationID: l.LocationID,
		OnHand:     l.OnHand,
		Reserved:   l.Reserved,
		Available:  l.Available,
		UpdatedAt:  l.UpdatedAt,
	}
}
