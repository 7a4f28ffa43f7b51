package dto

import "time"

// ContractResponse saída de um contrato enviado.
type ContractResponse struct {
	ID           int64     `json:"id"`
	PromoterName string    `json:"nome_promotor"`
	PromoterCPF  string    `json:"cpf_promotor"`
	OriginalName string    `json:"nome_arquivo_original"`
	UploadedAt   time.Time `json:"data_upload"`
	UserID       int64     `json:"usuario_id"`
	AccessURL    string    `json:"url_acesso"`
}
