package repository

import (
	"context"
	"time"

	"github.com/higiplas/higiplas-api/internal/domain/entity"
)

// PromoterRanking posição do ranking de promotores por volume de fotos.
type PromoterRanking struct {
	Name  string
	Total int
}

// PromoterPhotoRepository define o porto de persistência para fotos de promotores (DIP).
type PromoterPhotoRepository interface {
	Create(photo *entity.PromoterPhoto) error
	// ListByCompany devolve fotos da empresa aplicando filtros opcionais, mais recentes primeiro.
	ListByCompany(companyID int64, filter entity.PhotoFilter) ([]*entity.PromoterPhoto, error)
}

// PhotoAnalyticsRepository consultas read-only para os KPIs do dashboard.
type PhotoAnalyticsRepository interface {
	CountPhotos(ctx context.Context, companyID int64, from, to time.Time) (int, error)
	CountActivePromoters(ctx context.Context, companyID int64, from, to time.Time) (int, error)
	TopPromoters(ctx context.Context, companyID int64, limit int) ([]PromoterRanking, error)
}
