package inventory

import (
	"context"

	"github.com/higiplas/higiplas-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de BD, passando
// repositórios atados a essa tx. Garante atomicidade para o ledger:
// saldo e movimentação são gravados juntos ou nenhum dos dois.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}
