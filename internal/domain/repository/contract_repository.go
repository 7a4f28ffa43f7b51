package repository

import "github.com/higiplas/higiplas-api/internal/domain/entity"

// ContractRepository define o porto de persistência para Contract (DIP).
type ContractRepository interface {
	Create(contract *entity.Contract) error
	// ListByCompany devolve os contratos da empresa, do mais recente para o mais antigo.
	ListByCompany(companyID int64) ([]*entity.Contract, error)
}
