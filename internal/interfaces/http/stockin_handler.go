package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stockin"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// StockInHandler maneja actas de entrada de mercancía (protegido).
type StockInHandler struct {
	uc *stockin.UseCase
}

// NewStockInHandler construye el handler de actas de entrada.
func NewStockInHandler(uc *stockin.UseCase) *StockInHandler {
	return &StockInHandler{uc: uc}
}

// Create godoc
// @Summary      Crear acta de entrada
// @Description  Crea el acta en DRAFT sin líneas ni efecto sobre existencias.
// @Tags         stock-in
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockInRequest  true  "supplier_id, reference"
// @Success      201   {object}  dto.StockInResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-in [post]
func (h *StockInHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockInRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.CreateDocument(c.Context(), GetUserID(c), in)
	if err != nil {
		return stockInError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockInResponse(doc))
}

// AddLines godoc
// @Summary      Agregar líneas al acta
// @Description  Agrega las líneas recibidas, incrementa existencias por artículo y deja el
//
//	acta en RECEIVED en el mismo acto. Solo válido sobre actas en DRAFT.
//
// @Tags         stock-in
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del acta"
// @Param        body  body  dto.AddStockInLinesRequest  true  "lines"
// @Success      200   {object}  dto.StockInResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-in/{id}/lines [post]
func (h *StockInHandler) AddLines(c *fiber.Ctx) error {
	var in dto.AddStockInLinesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.AddLines(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return stockInError(c, err)
	}
	return c.JSON(toStockInResponse(doc))
}

// Cancel godoc
// @Summary      Cancelar acta de entrada
// @Description  Cancela un acta en DRAFT. Un acta RECEIVED no se cancela; se corrige con ajustes.
// @Tags         stock-in
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del acta"
// @Success      200  {object}  dto.StockInResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-in/{id}/cancel [post]
func (h *StockInHandler) Cancel(c *fiber.Ctx) error {
	doc, err := h.uc.Cancel(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return stockInError(c, err)
	}
	return c.JSON(toStockInResponse(doc))
}

// GetByID godoc
// @Summary      Obtener acta de entrada
// @Tags         stock-in
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del acta"
// @Success      200  {object}  dto.StockInResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-in/{id} [get]
func (h *StockInHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return stockInError(c, err)
	}
	return c.JSON(toStockInResponse(doc))
}

// List godoc
// @Summary      Listar actas de entrada
// @Tags         stock-in
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "DRAFT, RECEIVED o CANCELLED"
// @Success      200  {array}  dto.StockInResponse
// @Router       /api/stock-in [get]
func (h *StockInHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	docs, err := h.uc.List(c.Context(), c.Query("status"), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.StockInResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toStockInResponse(d))
	}
	return c.JSON(fiber.Map{"documents": out, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// stockInError mapea los errores del flujo de actas de entrada a códigos HTTP.
func stockInError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "acta, proveedor o artículo no encontrado"})
	case domain.ErrInvalidState:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "el acta no está en borrador"})
	case domain.ErrDuplicate:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "REFERENCE_EXISTS", Message: "la referencia ya existe"})
	case domain.ErrUnauthorized:
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toStockInResponse(d *entity.StockInDocument) dto.StockInResponse {
	out := dto.StockInResponse{
		ID:         d.ID,
		SupplierID: d.SupplierID,
		ReceiverID: d.ReceiverID,
		Reference:  d.Reference,
		Status:     d.Status,
		Notes:      d.Notes,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	for _, l := range d.Lines {
		out.Lines = append(out.Lines, dto.StockInLineResponse{
			ID:        l.ID,
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
			ExpiresAt: l.ExpiresAt,
			Location:  l.Location,
		})
	}
	return out
}
