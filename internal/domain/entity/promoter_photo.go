package entity

import "time"

// PromoterPhoto é uma foto enviada por um promotor via WhatsApp.
type PromoterPhoto struct {
	ID         int64
	CompanyID  int64
	PromoterID int64
	URL        string // caminho público de acesso à foto
	ServerName string // nome uuid no armazenamento
	Caption    string // legenda enviada junto com a mídia
	SentAt     time.Time

	PromoterName string // preenchido via join nas listagens; não persiste
}

// PhotoFilter filtros opcionais para listagem de fotos.
type PhotoFilter struct {
	PromoterID *int64
	From       *time.Time
	To         *time.Time
	Search     string // busca parcial na legenda
}
