// Package insights contém os casos de uso do painel de indicadores (KPIs)
// e da análise de dados com IA sobre as fotos enviadas pelos promotores.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/higiplas/higiplas-api/internal/application/dto"
	"github.com/higiplas/higiplas-api/internal/application/ports"
	"github.com/higiplas/higiplas-api/internal/domain"
	"github.com/higiplas/higiplas-api/internal/domain/entity"
	"github.com/higiplas/higiplas-api/internal/domain/repository"
)

const (
	rankingTop  = 5 // posições exibidas no widget de ranking
	analysisDays = 7 // janela de dados enviada à IA
)

// InsightsUseCase gera o resumo do dia/mês e responde perguntas do gestor.
//
// Fonte de dados: PhotoAnalyticsRepository (consultas read-only) para os KPIs
// e PromoterPhotoRepository para montar o contexto da análise com IA.
type InsightsUseCase struct {
	analyticsRepo repository.PhotoAnalyticsRepository
	photoRepo     repository.PromoterPhotoRepository
	llm           ports.LLMService
}

// NewInsightsUseCase constrói o caso de uso.
func NewInsightsUseCase(
	analyticsRepo repository.PhotoAnalyticsRepository,
	photoRepo repository.PromoterPhotoRepository,
	llm ports.LLMService,
) *InsightsUseCase {
	return &InsightsUseCase{analyticsRepo: analyticsRepo, photoRepo: photoRepo, llm: llm}
}

// KPIs monta o KPIResponse para a empresa indicada.
//
// Três consultas em paralelo:
//  1. CountPhotos(hoje)          → FotosHoje
//  2. CountActivePromoters(hoje) → PromotoresAtivosHoje
//  3. CountPhotos(mês)           → FotosMes
//
// O ranking de promotores usa uma quarta consulta sequencial; é barata
// (agregação com LIMIT) e evita complicar o fan-out.
func (uc *InsightsUseCase) KPIs(ctx context.Context, companyID int64) (*dto.KPIResponse, error) {
	now := time.Now()

	// Hoje: 00:00:00.000 – 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)

	// Mês em curso: dia 1 às 00:00 – hoje às 23:59:59
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := todayEnd

	type countResult struct {
		n   int
		err error
	}

	todayCh := make(chan countResult, 1)
	activeCh := make(chan countResult, 1)
	monthCh := make(chan countResult, 1)

	go func() {
		n, err := uc.analyticsRepo.CountPhotos(ctx, companyID, todayStart, todayEnd)
		todayCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountActivePromoters(ctx, companyID, todayStart, todayEnd)
		activeCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountPhotos(ctx, companyID, monthStart, monthEnd)
		monthCh <- countResult{n, err}
	}()

	today := <-todayCh
	active := <-activeCh
	month := <-monthCh

	if today.err != nil {
		return nil, fmt.Errorf("kpis: fotos de hoje: %w", today.err)
	}
	if active.err != nil {
		return nil, fmt.Errorf("kpis: promotores ativos: %w", active.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("kpis: fotos do mês: %w", month.err)
	}

	ranking, err := uc.analyticsRepo.TopPromoters(ctx, companyID, rankingTop)
	if err != nil {
		return nil, fmt.Errorf("kpis: ranking de promotores: %w", err)
	}

	items := make([]dto.RankingItem, 0, len(ranking))
	for _, r := range ranking {
		items = append(items, dto.RankingItem{Name: r.Name, Total: r.Total})
	}

	return &dto.KPIResponse{
		PhotosToday:          today.n,
		ActivePromotersToday: active.n,
		PhotosMonth:          month.n,
		Ranking:              items,
	}, nil
}

// analysisRecord é a forma compacta de cada foto serializada para a IA.
type analysisRecord struct {
	Promotor string `json:"promotor"`
	Legenda  string `json:"legenda,omitempty"`
	Data     string `json:"data"`
}

// Ask responde uma pergunta em linguagem natural usando os registros de fotos
// dos últimos dias como único contexto. A resposta vem em Markdown.
func (uc *InsightsUseCase) Ask(ctx context.Context, companyID int64, req dto.AskRequest) (*dto.AskResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: pergunta vazia", domain.ErrInvalidInput)
	}

	from := time.Now().AddDate(0, 0, -analysisDays)
	photos, err := uc.photoRepo.ListByCompany(companyID, entity.PhotoFilter{From: &from})
	if err != nil {
		return nil, fmt.Errorf("insights: buscar fotos para análise: %w", err)
	}

	records := make([]analysisRecord, 0, len(photos))
	for _, p := range photos {
		records = append(records, analysisRecord{
			Promotor: p.PromoterName,
			Legenda:  p.Caption,
			Data:     p.SentAt.Format("2006-01-02 15:04"),
		})
	}

	dataJSON, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("insights: serializar contexto: %w", err)
	}

	answer, err := uc.llm.GenerateAnalysis(ctx, question, string(dataJSON))
	if err != nil {
		return nil, fmt.Errorf("insights: análise com IA: %w", err)
	}

	return &dto.AskResponse{Question: question, Answer: answer}, nil
}
