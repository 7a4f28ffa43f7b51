package repository

import "github.com/higiplas/higiplas-api/internal/domain/entity"

// CompanyRepository define o porto de persistência para Company (DIP).
// A implementação vive em infrastructure.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id int64) (*entity.Company, error)
	GetByName(name string) (*entity.Company, error)
	GetByCNPJ(cnpj string) (*entity.Company, error)
	List(limit, offset int) ([]*entity.Company, error)
}
