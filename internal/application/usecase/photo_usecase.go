package usecase

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/higiplas/higiplas-api/internal/application/dto"
	"github.com/higiplas/higiplas-api/internal/domain"
	"github.com/higiplas/higiplas-api/internal/domain/entity"
	"github.com/higiplas/higiplas-api/internal/domain/repository"
)

// PhotoUseCase listagem de fotos e ingestão via webhook de WhatsApp.
type PhotoUseCase struct {
	photoRepo repository.PromoterPhotoRepository
	userRepo  repository.UserRepository
	fetcher   MediaFetcher
	store     BlobStore
}

// NewPhotoUseCase constrói o caso de uso.
func NewPhotoUseCase(
	photoRepo repository.PromoterPhotoRepository,
	userRepo repository.UserRepository,
	fetcher MediaFetcher,
	store BlobStore,
) *PhotoUseCase {
	return &PhotoUseCase{photoRepo: photoRepo, userRepo: userRepo, fetcher: fetcher, store: store}
}

// List devolve as fotos da empresa com filtros opcionais, mais recentes primeiro.
func (uc *PhotoUseCase) List(companyID int64, filter entity.PhotoFilter) ([]dto.PhotoResponse, error) {
	photos, err := uc.photoRepo.ListByCompany(companyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PhotoResponse, 0, len(photos))
	for _, p := range photos {
		out = append(out, dto.PhotoResponse{
			ID:           p.ID,
			PromoterID:   p.PromoterID,
			PromoterName: p.PromoterName,
			URL:          p.URL,
			Caption:      p.Caption,
			SentAt:       p.SentAt,
		})
	}
	return out, nil
}

// IngestWhatsAppMedia processa uma mídia recebida no webhook: localiza o
// promotor pelo número, baixa a imagem do Twilio, grava o blob e registra a
// foto. Devolve ErrNotFound se o número não pertencer a nenhum promotor.
func (uc *PhotoUseCase) IngestWhatsAppMedia(ctx context.Context, from, mediaURL, caption string) (*entity.PromoterPhoto, error) {
	promoter, err := uc.userRepo.FindByWhatsApp(from)
	if err != nil {
		return nil, err
	}
	if promoter == nil {
		return nil, domain.ErrNotFound
	}

	content, contentType, err := uc.fetcher.Fetch(ctx, mediaURL)
	if err != nil {
		return nil, fmt.Errorf("baixar mídia: %w", err)
	}

	ext := "jpg"
	if i := strings.Index(contentType, "/"); i >= 0 {
		ext = contentType[i+1:]
	}
	switch ext {
	case "jpg", "jpeg", "png":
	default:
		ext = "jpg"
	}

	serverName, _, err := uc.store.Save(content, ext)
	if err != nil {
		return nil, fmt.Errorf("salvar foto: %w", err)
	}

	photo := &entity.PromoterPhoto{
		CompanyID:  promoter.CompanyID,
		PromoterID: promoter.ID,
		URL:        path.Join("/fotos-promotores", serverName),
		ServerName: serverName,
		Caption:    caption,
		SentAt:     time.Now(),
	}
	if err := uc.photoRepo.Create(photo); err != nil {
		return nil, err
	}
	photo.PromoterName = promoter.Name
	return photo, nil
}
