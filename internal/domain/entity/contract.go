package entity

import "time"

// Contract representa um contrato assinado enviado por upload (pdf/jpg/png).
type Contract struct {
	ID           int64
	CompanyID    int64
	UserID       int64  // quem fez o upload
	PromoterName string
	PromoterCPF  string
	OriginalName string // nome do arquivo como enviado
	ServerName   string // nome uuid no armazenamento
	Path         string
	UploadedAt   time.Time
}
