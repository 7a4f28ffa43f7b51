package postgres

import (
	"context"
	"fmt"

	"github.com/higiplas/higiplas-api/internal/domain/entity"
	"github.com/higiplas/higiplas-api/internal/domain/repository"
)

var _ repository.ContractRepository = (*ContractRepo)(nil)

// ContractRepo implementação do porto ContractRepository sobre PostgreSQL.
type ContractRepo struct {
	q Querier
}

// NewContractRepository constrói o adaptador de persistência de contratos.
func NewContractRepository(q Querier) *ContractRepo {
	return &ContractRepo{q: q}
}

// Create persiste um contrato enviado e preenche ID e UploadedAt.
func (r *ContractRepo) Create(contract *entity.Contract) error {
	query := `
		INSERT INTO contracts (company_id, user_id, promoter_name, promoter_cpf, original_name, server_name, path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, uploaded_at`
	err := r.q.QueryRow(context.Background(), query,
		contract.CompanyID, contract.UserID, contract.PromoterName, contract.PromoterCPF,
		contract.OriginalName, contract.ServerName, contract.Path,
	).Scan(&contract.ID, &contract.UploadedAt)
	if err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

// ListByCompany devolve os contratos da empresa, do mais recente para o mais antigo.
func (r *ContractRepo) ListByCompany(companyID int64) ([]*entity.Contract, error) {
	query := `
		SELECT id, company_id, user_id, promoter_name, promoter_cpf, original_name, server_name, path, uploaded_at
		FROM contracts WHERE company_id = $1
		ORDER BY uploaded_at DESC, id DESC`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Contract
	for rows.Next() {
		var c entity.Contract
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.UserID, &c.PromoterName, &c.PromoterCPF,
			&c.OriginalName, &c.ServerName, &c.Path, &c.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
