package repository

import "github.com/higiplas/higiplas-api/internal/domain/entity"

// StockMovementRepository define o porto de persistência do ledger de movimentações (DIP).
// O ledger é append-only: não há Update nem Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// ListByProduct devolve as movimentações do produto, da mais recente para a mais antiga.
	ListByProduct(productID int64) ([]*entity.StockMovement, error)
}
