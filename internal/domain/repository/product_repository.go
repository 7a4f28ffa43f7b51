package repository

import "github.com/higiplas/higiplas-api/internal/domain/entity"

// ProductRepository define o porto de persistência para Product (DIP).
// Todas as leituras são escopadas por companyID: um produto de outra empresa
// é indistinguível de um produto inexistente.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id, companyID int64) (*entity.Product, error)
	GetByCompanyAndCode(companyID int64, code string) (*entity.Product, error)
	// GetForUpdate obtém o produto bloqueando a fila (SELECT ... FOR UPDATE).
	// Só faz sentido dentro de uma transação (TxRunner).
	GetForUpdate(id, companyID int64) (*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateQuantity grava só o saldo em estoque (usado pelo ledger dentro da tx).
	UpdateQuantity(id int64, quantity int) error
	ListByCompany(companyID int64, limit, offset int) ([]*entity.Product, error)
	Delete(id, companyID int64) error
}
