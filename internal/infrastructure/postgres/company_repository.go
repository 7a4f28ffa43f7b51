package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/higiplas/higiplas-api/internal/domain"
	"github.com/higiplas/higiplas-api/internal/domain/entity"
	"github.com/higiplas/higiplas-api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementação do porto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository constrói o adaptador de persistência de empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste uma nova empresa e preenche ID e CreatedAt.
func (r *CompanyRepo) Create(company *entity.Company) error {
	query := `
		INSERT INTO companies (name, cnpj)
		VALUES ($1, NULLIF($2, ''))
		RETURNING id, created_at`
	err := r.q.QueryRow(context.Background(), query, company.Name, company.CNPJ).
		Scan(&company.ID, &company.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *CompanyRepo) getOne(query string, arg any) (*entity.Company, error) {
	var c entity.Company
	var cnpj *string
	err := r.q.QueryRow(context.Background(), query, arg).Scan(&c.ID, &c.Name, &cnpj, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	if cnpj != nil {
		c.CNPJ = *cnpj
	}
	return &c, nil
}

// GetByID obtém uma empresa por ID. Devolve nil se não existir.
func (r *CompanyRepo) GetByID(id int64) (*entity.Company, error) {
	return r.getOne(`SELECT id, name, cnpj, created_at FROM companies WHERE id = $1`, id)
}

// GetByName obtém uma empresa por nome exato.
func (r *CompanyRepo) GetByName(name string) (*entity.Company, error) {
	return r.getOne(`SELECT id, name, cnpj, created_at FROM companies WHERE name = $1`, name)
}

// GetByCNPJ obtém uma empresa por CNPJ.
func (r *CompanyRepo) GetByCNPJ(cnpj string) (*entity.Company, error) {
	return r.getOne(`SELECT id, name, cnpj, created_at FROM companies WHERE cnpj = $1`, cnpj)
}

// List lista empresas com paginação, por nome.
func (r *CompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	query := `SELECT id, name, cnpj, created_at FROM companies ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		var c entity.Company
		var cnpj *string
		if err := rows.Scan(&c.ID, &c.Name, &cnpj, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		if cnpj != nil {
			c.CNPJ = *cnpj
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
