package http

import (
	"errors"

	"github.com/beevik/etree"
	"github.com/gofiber/fiber/v2"

	"github.com/higiplas/higiplas-api/internal/application/usecase"
	"github.com/higiplas/higiplas-api/internal/domain"
	"github.com/higiplas/higiplas-api/pkg/logger"
)

// Respostas enviadas de volta ao promotor via TwiML.
const (
	replyPhotoSaved     = "Foto recebida! Já está registrada no sistema. ✅"
	replyUnknownNumber  = "Não encontrei seu número no cadastro. Fale com seu gestor para liberar o acesso."
	replyNoMedia        = "Envie uma foto do ponto de venda (a legenda é opcional)."
	replyProcessingFail = "Não consegui processar sua foto agora. Tente de novo em instantes."
)

// WhatsAppHandler recebe o webhook do Twilio (público; o Twilio não manda JWT).
// A resposta é sempre 200 com TwiML: status de erro faria o Twilio reenviar.
type WhatsAppHandler struct {
	uc  *usecase.PhotoUseCase
	log *logger.Logger
}

// NewWhatsAppHandler constrói o handler.
func NewWhatsAppHandler(uc *usecase.PhotoUseCase, log *logger.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{uc: uc, log: log}
}

// Webhook godoc
// @Summary      Webhook de mensagens do WhatsApp (Twilio)
// @Description  Recebe form-encoded do Twilio. Se houver mídia, baixa e
// @Description  registra como foto do promotor identificado pelo número.
// @Tags         webhook
// @Accept       x-www-form-urlencoded
// @Produce      xml
// @Success      200  {string}  string  "TwiML"
// @Router       /webhook/whatsapp [post]
func (h *WhatsAppHandler) Webhook(c *fiber.Ctx) error {
	from := c.FormValue("From")
	caption := c.FormValue("Body")
	numMedia := c.FormValue("NumMedia")
	mediaURL := c.FormValue("MediaUrl0")

	if numMedia == "" || numMedia == "0" || mediaURL == "" {
		return h.twiml(c, replyNoMedia)
	}

	photo, err := h.uc.IngestWhatsAppMedia(c.Context(), from, mediaURL, caption)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.log.Warn().Str("from", from).Msg("webhook: número sem promotor cadastrado")
			return h.twiml(c, replyUnknownNumber)
		}
		h.log.Error().Err(err).Str("from", from).Msg("webhook: falha ao processar mídia")
		return h.twiml(c, replyProcessingFail)
	}

	h.log.Info().
		Int64("promoter_id", photo.PromoterID).
		Int64("photo_id", photo.ID).
		Msg("webhook: foto registrada")
	return h.twiml(c, replyPhotoSaved)
}

// twiml serializa a resposta no formato TwiML do Twilio.
func (h *WhatsAppHandler) twiml(c *fiber.Ctx, message string) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	response := doc.CreateElement("Response")
	response.CreateElement("Message").SetText(message)

	out, err := doc.WriteToString()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("")
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	return c.SendString(out)
}
