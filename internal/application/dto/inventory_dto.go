package dto

import "time"

// RecordMovementRequest body de POST /api/movements.
type RecordMovementRequest struct {
	ProductID int64  `json:"produto_id"`
	Kind      string `json:"tipo_movimentacao"` // ENTRADA | SAIDA
	Quantity  int    `json:"quantidade"`        // > 0
	Note      string `json:"observacao,omitempty"`
}

// MovementResponse uma entrada do histórico do ledger.
type MovementResponse struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"produto_id"`
	Kind      string    `json:"tipo_movimentacao"`
	Quantity  int       `json:"quantidade"`
	Note      string    `json:"observacao,omitempty"`
	UserID    int64     `json:"usuario_id"`
	CreatedAt time.Time `json:"data_movimentacao"`
}
