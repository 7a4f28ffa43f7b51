package entity

import "time"

// Tipos de movimentação de estoque. Qualquer outro valor é rejeitado.
const (
	MovementEntrada = "ENTRADA"
	MovementSaida   = "SAIDA"
)

// StockMovement é um registro imutável do ledger de estoque.
// Append-only: nunca é atualizado nem removido isoladamente; a exclusão do
// produto remove em cascata suas movimentações.
type StockMovement struct {
	ID        int64
	ProductID int64
	Kind      string // ENTRADA ou SAIDA
	Quantity  int    // sempre > 0; o sinal vem de Kind
	Note      string
	UserID    int64     // quem registrou
	CreatedAt time.Time // timestamp do servidor, atribuído no commit
}
