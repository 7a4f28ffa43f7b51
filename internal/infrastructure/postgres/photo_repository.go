package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/higiplas/higiplas-api/internal/domain/entity"
	"github.com/higiplas/higiplas-api/internal/domain/repository"
)

var (
	_ repository.PromoterPhotoRepository  = (*PromoterPhotoRepo)(nil)
	_ repository.PhotoAnalyticsRepository = (*PromoterPhotoRepo)(nil)
)

// PromoterPhotoRepo implementação dos portos de fotos de promotores sobre
// PostgreSQL: persistência (PromoterPhotoRepository) e consultas agregadas de
// KPIs (PhotoAnalyticsRepository).
type PromoterPhotoRepo struct {
	q Querier
}

// NewPromoterPhotoRepository constrói o adaptador de fotos de promotores.
func NewPromoterPhotoRepository(q Querier) *PromoterPhotoRepo {
	return &PromoterPhotoRepo{q: q}
}

// Create persiste uma foto recebida e preenche ID e SentAt.
func (r *PromoterPhotoRepo) Create(photo *entity.PromoterPhoto) error {
	query := `
		INSERT INTO promoter_photos (company_id, promoter_id, url, server_name, caption)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, sent_at`
	err := r.q.QueryRow(context.Background(), query,
		photo.CompanyID, photo.PromoterID, photo.URL, photo.ServerName, photo.Caption,
	).Scan(&photo.ID, &photo.SentAt)
	if err != nil {
		return fmt.Errorf("insert promoter photo: %w", err)
	}
	return nil
}

// ListByCompany devolve fotos da empresa aplicando filtros opcionais, mais
// recentes primeiro. O nome do promotor vem por join com users.
func (r *PromoterPhotoRepo) ListByCompany(companyID int64, filter entity.PhotoFilter) ([]*entity.PromoterPhoto, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT p.id, p.company_id, p.promoter_id, p.url, p.server_name, p.caption, p.sent_at, u.name
		FROM promoter_photos p
		JOIN users u ON u.id = p.promoter_id
		WHERE p.company_id = $1`)
	args := []any{companyID}

	if filter.PromoterID != nil {
		args = append(args, *filter.PromoterID)
		fmt.Fprintf(&sb, " AND p.promoter_id = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		fmt.Fprintf(&sb, " AND p.sent_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		fmt.Fprintf(&sb, " AND p.sent_at <= $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		fmt.Fprintf(&sb, " AND p.caption ILIKE $%d", len(args))
	}
	sb.WriteString(" ORDER BY p.sent_at DESC, p.id DESC")

	rows, err := r.q.Query(context.Background(), sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list promoter photos: %w", err)
	}
	defer rows.Close()
	var list []*entity.PromoterPhoto
	for rows.Next() {
		var p entity.PromoterPhoto
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.PromoterID, &p.URL, &p.ServerName,
			&p.Caption, &p.SentAt, &p.PromoterName); err != nil {
			return nil, fmt.Errorf("scan promoter photo: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// CountPhotos conta fotos da empresa no intervalo [from, to].
func (r *PromoterPhotoRepo) CountPhotos(ctx context.Context, companyID int64, from, to time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM promoter_photos WHERE company_id = $1 AND sent_at BETWEEN $2 AND $3`,
		companyID, from, to,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count photos: %w", err)
	}
	return n, nil
}

// CountActivePromoters conta promotores distintos que enviaram foto no intervalo.
func (r *PromoterPhotoRepo) CountActivePromoters(ctx context.Context, companyID int64, from, to time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(DISTINCT promoter_id) FROM promoter_photos WHERE company_id = $1 AND sent_at BETWEEN $2 AND $3`,
		companyID, from, to,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active promoters: %w", err)
	}
	return n, nil
}

// TopPromoters devolve o ranking de promotores por total de fotos enviadas.
func (r *PromoterPhotoRepo) TopPromoters(ctx context.Context, companyID int64, limit int) ([]repository.PromoterRanking, error) {
	query := `
		SELECT u.name, count(*) AS total
		FROM promoter_photos p
		JOIN users u ON u.id = p.promoter_id
		WHERE p.company_id = $1
		GROUP BY u.name
		ORDER BY total DESC, u.name
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("top promoters: %w", err)
	}
	defer rows.Close()
	var list []repository.PromoterRanking
	for rows.Next() {
		var item repository.PromoterRanking
		if err := rows.Scan(&item.Name, &item.Total); err != nil {
			return nil, fmt.Errorf("scan ranking: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}
