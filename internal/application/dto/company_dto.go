package dto

import "time"

// CreateCompanyRequest entrada para criar uma empresa.
type CreateCompanyRequest struct {
	Name string `json:"nome"`
	CNPJ string `json:"cnpj,omitempty"`
}

// CompanyResponse saída de uma empresa.
type CompanyResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nome"`
	CNPJ      string    `json:"cnpj,omitempty"`
	CreatedAt time.Time `json:"data_criacao"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
