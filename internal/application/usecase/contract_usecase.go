package usecase

import (
	"fmt"
	"path"
	"time"

	"github.com/higiplas/higiplas-api/internal/application/dto"
	"github.com/higiplas/higiplas-api/internal/domain"
	"github.com/higiplas/higiplas-api/internal/domain/entity"
	"github.com/higiplas/higiplas-api/internal/domain/repository"
)

// Tipos de arquivo aceitos para contrato.
var contractContentTypes = map[string]string{
	"application/pdf": "pdf",
	"image/jpeg":      "jpg",
	"image/png":       "png",
}

// ContractUseCase upload e listagem de contratos assinados.
type ContractUseCase struct {
	repo  repository.ContractRepository
	store BlobStore
}

// NewContractUseCase constrói o caso de uso.
func NewContractUseCase(repo repository.ContractRepository, store BlobStore) *ContractUseCase {
	return &ContractUseCase{repo: repo, store: store}
}

// UploadInput dados do upload de contrato.
type UploadInput struct {
	CompanyID    int64
	UserID       int64
	PromoterName string
	PromoterCPF  string
	OriginalName string
	ContentType  string
	Content      []byte
}

// Upload valida o tipo do arquivo, persiste o blob e registra o contrato.
func (uc *ContractUseCase) Upload(in UploadInput) (*dto.ContractResponse, error) {
	if in.PromoterName == "" || in.PromoterCPF == "" || len(in.Content) == 0 {
		return nil, domain.ErrInvalidInput
	}
	ext, ok := contractContentTypes[in.ContentType]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	serverName, fullPath, err := uc.store.Save(in.Content, ext)
	if err != nil {
		return nil, fmt.Errorf("salvar contrato: %w", err)
	}
	contract := &entity.Contract{
		CompanyID:    in.CompanyID,
		UserID:       in.UserID,
		PromoterName: in.PromoterName,
		PromoterCPF:  in.PromoterCPF,
		OriginalName: in.OriginalName,
		ServerName:   serverName,
		Path:         fullPath,
		UploadedAt:   time.Now(),
	}
	if err := uc.repo.Create(contract); err != nil {
		return nil, err
	}
	return toContractResponse(contract), nil
}

// List devolve os contratos da empresa, mais recentes primeiro.
func (uc *ContractUseCase) List(companyID int64) ([]dto.ContractResponse, error) {
	list, err := uc.repo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ContractResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toContractResponse(c))
	}
	return out, nil
}

func toContractResponse(c *entity.Contract) *dto.ContractResponse {
	return &dto.ContractResponse{
		ID:           c.ID,
		PromoterName: c.PromoterName,
		PromoterCPF:  c.PromoterCPF,
		OriginalName: c.OriginalName,
		UploadedAt:   c.UploadedAt,
		UserID:       c.UserID,
		AccessURL:    path.Join("/arquivos-contratos", c.ServerName),
	}
}
