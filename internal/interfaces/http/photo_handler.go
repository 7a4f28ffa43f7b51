package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/higiplas/higiplas-api/internal/application/dto"
	"github.com/higiplas/higiplas-api/internal/application/usecase"
	"github.com/higiplas/higiplas-api/internal/domain/entity"
)

// PhotoHandler listagem das fotos enviadas pelos promotores (protegido).
type PhotoHandler struct {
	uc *usecase.PhotoUseCase
}

// NewPhotoHandler constrói o handler.
func NewPhotoHandler(uc *usecase.PhotoUseCase) *PhotoHandler {
	return &PhotoHandler{uc: uc}
}

// List godoc
// @Summary      Listar fotos de promotores
// @Tags         photos
// @Security     Bearer
// @Produce      json
// @Param        promotor_id  query  int     false  "Filtrar por promotor"
// @Param        de           query  string  false  "Data inicial (YYYY-MM-DD)"
// @Param        ate          query  string  false  "Data final (YYYY-MM-DD)"
// @Param        busca        query  string  false  "Busca parcial na legenda"
// @Success      200  {array}   dto.PhotoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/photos [get]
func (h *PhotoHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}

	var filter entity.PhotoFilter
	if v := c.QueryInt("promotor_id", 0); v > 0 {
		id := int64(v)
		filter.PromoterID = &id
	}
	if v := c.Query("de"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "'de' deve estar no formato YYYY-MM-DD"})
		}
		filter.From = &from
	}
	if v := c.Query("ate"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "'ate' deve estar no formato YYYY-MM-DD"})
		}
		// inclui o dia inteiro
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	filter.Search = c.Query("busca")

	out, err := h.uc.List(companyID, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
