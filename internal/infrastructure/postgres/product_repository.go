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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, company_id, code, name, category, description, cost_price, sale_price, unit_measure, min_stock, expiry_date, quantity, created_at, updated_at`

// ProductRepo implementação do porto ProductRepository sobre PostgreSQL (usável com pool ou tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository constrói o adaptador de persistência para produtos. Passar pool ou tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Code, &p.Name, &p.Category, &p.Description,
		&p.CostPrice, &p.SalePrice, &p.UnitMeasure, &p.MinStock, &p.ExpiryDate,
		&p.Quantity, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste um novo produto e preenche ID, CreatedAt e UpdatedAt.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (company_id, code, name, category, description, cost_price, sale_price, unit_measure, min_stock, expiry_date, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(context.Background(), query,
		product.CompanyID, product.Code, product.Name, product.Category, product.Description,
		product.CostPrice, product.SalePrice, product.UnitMeasure, product.MinStock,
		product.ExpiryDate, product.Quantity,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtém um produto por ID dentro da empresa. Devolve nil se não existir.
func (r *ProductRepo) GetByID(id, companyID int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND company_id = $2`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByCompanyAndCode obtém um produto por empresa e código.
func (r *ProductRepo) GetByCompanyAndCode(companyID int64, code string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1 AND code = $2`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, companyID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by code: %w", err)
	}
	return p, nil
}

// GetForUpdate obtém o produto bloqueando a fila (SELECT ... FOR UPDATE).
// Chamar só dentro de uma transação; no pool o lock é liberado de imediato.
func (r *ProductRepo) GetForUpdate(id, companyID int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND company_id = $2 FOR UPDATE`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return p, nil
}

// Update atualiza os dados cadastrais do produto. Quantity não passa por aqui:
// o saldo só muda via ledger (UpdateQuantity dentro da tx).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, category = $3, description = $4, cost_price = $5,
			sale_price = $6, unit_measure = $7, min_stock = $8, expiry_date = $9, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Category, product.Description, product.CostPrice,
		product.SalePrice, product.UnitMeasure, product.MinStock, product.ExpiryDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateQuantity grava só o saldo em estoque (usado pelo ledger dentro da tx).
func (r *ProductRepo) UpdateQuantity(id int64, quantity int) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET quantity = $2, updated_at = now() WHERE id = $1`,
		id, quantity,
	)
	if err != nil {
		return fmt.Errorf("update product quantity: %w", err)
	}
	return nil
}

// ListByCompany lista produtos da empresa com paginação, por nome.
func (r *ProductRepo) ListByCompany(companyID int64, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Code, &p.Name, &p.Category, &p.Description,
			&p.CostPrice, &p.SalePrice, &p.UnitMeasure, &p.MinStock, &p.ExpiryDate,
			&p.Quantity, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Delete remove um produto da empresa. As movimentações caem por cascata (FK).
func (r *ProductRepo) Delete(id, companyID int64) error {
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM products WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
