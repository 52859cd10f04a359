package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
)

// StockHandler maneja movimientos manuales, ajustes y consultas del ledger (protegido).
type StockHandler struct {
	mutations   *stock.MutationService
	adjustments *stock.AdjustmentUseCase
	ledger      *usecase.LedgerUseCase
}

// NewStockHandler construye el handler de stock.
func NewStockHandler(mutations *stock.MutationService, adjustments *stock.AdjustmentUseCase, ledger *usecase.LedgerUseCase) *StockHandler {
	return &StockHandler{mutations: mutations, adjustments: adjustments, ledger: ledger}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual de existencias
// @Description  Entrada (IN) o salida (OUT) manual. Las salidas validan existencia suficiente.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "item_id, type (IN|OUT), quantity"
// @Success      201   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.mutations.RegisterMovement(c.Context(), GetUserID(c), in)
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MutationResponse{
		ItemID:        in.ItemID,
		NewQuantity:   result.NewQuantity,
		LedgerEntryID: result.LedgerEntryID,
	})
}

// CreateAdjustment godoc
// @Summary      Registrar ajuste manual de existencias
// @Description  Corrección con delta con signo. Un delta negativo mayor que la existencia
//
//	deja la cantidad en cero; el ledger conserva el delta solicitado.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "item_id, delta, reason"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) CreateAdjustment(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	adj, err := h.adjustments.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(adj)
}

// ListAdjustments godoc
// @Summary      Listar ajustes
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  false  "filtrar por artículo"
// @Success      200  {array}  dto.AdjustmentResponse
// @Router       /api/stock/adjustments [get]
func (h *StockHandler) ListAdjustments(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.adjustments.List(c.Context(), c.Query("item_id"), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"adjustments": list, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// ListLedger godoc
// @Summary      Historial del ledger de un artículo
// @Description  Entradas inmutables del artículo, más recientes primero. from/to en RFC 3339.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID del artículo"
// @Param        from  query  string  false  "fecha mínima (RFC 3339)"
// @Param        to    query  string  false  "fecha máxima (RFC 3339)"
// @Success      200  {array}  dto.LedgerEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/ledger/{id} [get]
func (h *StockHandler) ListLedger(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	from, err := parseTimeQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido, usar RFC 3339"})
	}
	to, err := parseTimeQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido, usar RFC 3339"})
	}
	entries, err := h.ledger.ListByItem(c.Context(), c.Params("id"), from, to, page)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "artículo no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LedgerEntryResponse{
			ID:        e.ID,
			ItemID:    e.ItemID,
			Delta:     e.Delta,
			Kind:      e.Kind,
			ActorID:   e.ActorID,
			Reference: e.Reference,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"entries": out, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// GetLedgerEntry godoc
// @Summary      Detalle de una entrada del ledger
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la entrada"
// @Success      200  {object}  dto.LedgerEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/ledger/entries/{id} [get]
func (h *StockHandler) GetLedgerEntry(c *fiber.Ctx) error {
	entry, err := h.ledger.GetEntry(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "entrada de ledger no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.LedgerEntryResponse{
		ID:        entry.ID,
		ItemID:    entry.ItemID,
		Delta:     entry.Delta,
		Kind:      entry.Kind,
		ActorID:   entry.ActorID,
		Reference: entry.Reference,
		Note:      entry.Note,
		CreatedAt: entry.CreatedAt,
	})
}

// Reconcile godoc
// @Summary      Conciliar existencia contra el ledger
// @Description  Compara la cantidad actual del artículo con la suma de deltas del ledger.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  usecase.ReconciliationResult
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/ledger/{id}/reconcile [get]
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	result, err := h.ledger.Reconcile(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "artículo no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(result)
}

// stockError mapea los errores de dominio de mutaciones a códigos HTTP.
func stockError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "artículo no encontrado"})
	case domain.ErrInsufficientStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "existencia insuficiente"})
	case domain.ErrUnauthorized:
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func parseTimeQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
