package http

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/higiplas/higiplas-api/internal/application/dto"
	"github.com/higiplas/higiplas-api/internal/application/usecase"
	"github.com/higiplas/higiplas-api/internal/domain"
)

// maxContractBytes teto de tamanho do arquivo de contrato.
const maxContractBytes = 20 * 1024 * 1024

// ContractHandler upload e listagem de contratos assinados (protegido).
type ContractHandler struct {
	uc *usecase.ContractUseCase
}

// NewContractHandler constrói o handler.
func NewContractHandler(uc *usecase.ContractUseCase) *ContractHandler {
	return &ContractHandler{uc: uc}
}

// Upload godoc
// @Summary      Upload de contrato assinado
// @Description  Aceita pdf, jpeg ou png. O arquivo é gravado com nome uuid;
// @Description  a resposta inclui a URL de acesso.
// @Tags         contracts
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file           formData  file    true  "Contrato (pdf/jpeg/png)"
// @Param        nome_promotor  formData  string  true  "Nome do promotor"
// @Param        cpf_promotor   formData  string  true  "CPF do promotor"
// @Success      201  {object}  dto.ContractResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/contracts/upload [post]
func (h *ContractHandler) Upload(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == 0 || userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "arquivo 'file' é obrigatório (multipart/form-data)"})
	}
	if fileHeader.Size > maxContractBytes {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "arquivo muito grande"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "não foi possível ler o arquivo enviado"})
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, maxContractBytes))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "não foi possível ler o arquivo enviado"})
	}

	out, err := h.uc.Upload(usecase.UploadInput{
		CompanyID:    companyID,
		UserID:       userID,
		PromoterName: c.FormValue("nome_promotor"),
		PromoterCPF:  c.FormValue("cpf_promotor"),
		OriginalName: fileHeader.Filename,
		ContentType:  fileHeader.Header.Get(fiber.HeaderContentType),
		Content:      content,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "nome_promotor e cpf_promotor são obrigatórios e o arquivo deve ser pdf, jpeg ou png"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar contratos da empresa
// @Tags         contracts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ContractResponse
// @Router       /api/contracts [get]
func (h *ContractHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.List(companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
