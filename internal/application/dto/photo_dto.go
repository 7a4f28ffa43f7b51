package dto

import "time"

// PhotoResponse saída de uma foto de promotor.
type PhotoResponse struct {
	ID           int64     `json:"id"`
	PromoterID   int64     `json:"promotor_id"`
	PromoterName string    `json:"nome_promotor,omitempty"`
	URL          string    `json:"url_foto"`
	Caption      string    `json:"legenda,omitempty"`
	SentAt       time.Time `json:"data_envio"`
}

// RankingItem posição no ranking de promotores por fotos enviadas.
type RankingItem struct {
	Name  string `json:"nome"`
	Total int    `json:"total"`
}

// KPIResponse indicadores do dashboard principal.
type KPIResponse struct {
	PhotosToday          int           `json:"fotos_hoje"`
	ActivePromotersToday int           `json:"promotores_ativos_hoje"`
	PhotosMonth          int           `json:"fotos_mes"`
	Ranking              []RankingItem `json:"ranking_promotores"`
}

// AskRequest pergunta para a análise com IA.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse resposta da análise com IA.
type AskResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
