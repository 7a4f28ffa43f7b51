package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/higiplas/higiplas-api/internal/application/dto"
	"github.com/higiplas/higiplas-api/internal/application/insights"
	"github.com/higiplas/higiplas-api/internal/domain"
)

// askTimeout teto da chamada ao serviço de IA.
const askTimeout = 60 * time.Second

// InsightsHandler KPIs do dashboard e análise com IA (protegido, gestor/admin).
type InsightsHandler struct {
	uc *insights.InsightsUseCase
}

// NewInsightsHandler constrói o handler.
func NewInsightsHandler(uc *insights.InsightsUseCase) *InsightsHandler {
	return &InsightsHandler{uc: uc}
}

// KPIs godoc
// @Summary      Indicadores do dashboard
// @Description  Fotos de hoje, promotores ativos hoje, fotos do mês e ranking.
// @Tags         insights
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.KPIResponse
// @Router       /api/insights/kpis [get]
func (h *InsightsHandler) KPIs(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.KPIs(c.Context(), companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Ask godoc
// @Summary      Pergunta em linguagem natural sobre os dados
// @Description  Responde em Markdown usando as fotos dos últimos dias como contexto.
// @Tags         insights
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AskRequest  true  "Pergunta"
// @Success      200   {object}  dto.AskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/insights/ask [post]
func (h *InsightsHandler) Ask(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AskRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), askTimeout)
	defer cancel()
	out, err := h.uc.Ask(ctx, companyID, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "question é obrigatório"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
