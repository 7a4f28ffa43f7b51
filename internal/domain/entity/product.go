package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa um produto do estoque de uma empresa.
// Quantity só é alterado pelo ledger de movimentações (caminho atômico) ou pela
// importação de planilha, que também passa pelo ledger como ajuste sintético.
type Product struct {
	ID          int64
	CompanyID   int64
	Code        string // código único por empresa
	Name        string
	Category    string
	Description string
	CostPrice   *decimal.Decimal // preço de custo, opcional
	SalePrice   decimal.Decimal  // preço de venda
	UnitMeasure string
	MinStock    int // estoque mínimo (ponto de alerta), >= 0
	ExpiryDate  *time.Time
	Quantity    int // quantidade em estoque; invariante: >= 0 após qualquer commit
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
