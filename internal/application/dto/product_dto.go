package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para criar um produto.
// Quantidade inicial entra direto no saldo; depois disso só o ledger altera.
type CreateProductRequest struct {
	Code        string           `json:"codigo"`
	Name        string           `json:"nome"`
	Category    string           `json:"categoria"`
	Description string           `json:"descricao,omitempty"`
	CostPrice   *decimal.Decimal `json:"preco_custo,omitempty"`
	SalePrice   decimal.Decimal  `json:"preco_venda"`
	UnitMeasure string           `json:"unidade_medida"`
	MinStock    int              `json:"estoque_minimo"`
	ExpiryDate  *time.Time       `json:"data_validade,omitempty"`
	Quantity    int              `json:"quantidade_em_estoque"`
}

// UpdateProductRequest entrada para atualização parcial (Quantity não entra:
// o saldo só muda pelo ledger ou pela importação de planilha).
type UpdateProductRequest struct {
	Name        *string          `json:"nome"`
	Category    *string          `json:"categoria"`
	Description *string          `json:"descricao"`
	CostPrice   *decimal.Decimal `json:"preco_custo"`
	SalePrice   *decimal.Decimal `json:"preco_venda"`
	UnitMeasure *string          `json:"unidade_medida"`
	MinStock    *int             `json:"estoque_minimo"`
	ExpiryDate  *time.Time       `json:"data_validade"`
}

// ProductResponse saída de um produto.
type ProductResponse struct {
	ID          int64            `json:"id"`
	CompanyID   int64            `json:"empresa_id"`
	Code        string           `json:"codigo"`
	Name        string           `json:"nome"`
	Category    string           `json:"categoria"`
	Description string           `json:"descricao,omitempty"`
	CostPrice   *decimal.Decimal `json:"preco_custo,omitempty"`
	SalePrice   decimal.Decimal  `json:"preco_venda"`
	UnitMeasure string           `json:"unidade_medida"`
	MinStock    int              `json:"estoque_minimo"`
	ExpiryDate  *time.Time       `json:"data_validade,omitempty"`
	Quantity    int              `json:"quantidade_em_estoque"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de produtos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ImportRowError erro de uma linha da planilha importada.
type ImportRowError struct {
	Row     int    `json:"linha"`
	Code    string `json:"codigo,omitempty"`
	Message string `json:"erro"`
}

// ImportResult resumo da importação de planilha.
type ImportResult struct {
	Processed int              `json:"processados"`
	Errors    []ImportRowError `json:"erros,omitempty"`
}
