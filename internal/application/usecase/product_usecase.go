package usecase

import (
	"time"

	"github.com/higiplas/higiplas-api/internal/application/dto"
	"github.com/higiplas/higiplas-api/internal/domain"
	"github.com/higiplas/higiplas-api/internal/domain/entity"
	"github.com/higiplas/higiplas-api/internal/domain/repository"
)

// ProductUseCase aplica regras de negócio para produtos. O saldo em estoque
// nunca é alterado por aqui depois da criação; isso é papel do ledger.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase constrói o caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create cria um produto. Devolve domain.ErrDuplicate se o código já existir
// na empresa. A quantidade informada vira o saldo inicial.
func (uc *ProductUseCase) Create(companyID int64, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Code == "" || in.Name == "" || in.UnitMeasure == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.MinStock < 0 || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCompanyAndCode(companyID, in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		CompanyID:   companyID,
		Code:        in.Code,
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		CostPrice:   in.CostPrice,
		SalePrice:   in.SalePrice,
		UnitMeasure: in.UnitMeasure,
		MinStock:    in.MinStock,
		ExpiryDate:  in.ExpiryDate,
		Quantity:    in.Quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return ProductToResponse(product), nil
}

// GetByID obtém um produto da empresa.
func (uc *ProductUseCase) GetByID(id, companyID int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id, companyID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return ProductToResponse(product), nil
}

// List lista os produtos da empresa com paginação.
func (uc *ProductUseCase) List(companyID int64, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ProductToResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Update atualização parcial; campos nil ficam como estão. O saldo não entra.
func (uc *ProductUseCase) Update(id, companyID int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id, companyID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CostPrice != nil {
		product.CostPrice = in.CostPrice
	}
	if in.SalePrice != nil {
		product.SalePrice = *in.SalePrice
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MinStock = *in.MinStock
	}
	if in.ExpiryDate != nil {
		product.ExpiryDate = in.ExpiryDate
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return ProductToResponse(product), nil
}

// Delete remove o produto; as movimentações caem em cascata (FK ON DELETE CASCADE).
func (uc *ProductUseCase) Delete(id, companyID int64) error {
	product, err := uc.repo.GetByID(id, companyID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id, companyID)
}

// ProductToResponse converte a entidade para o DTO de saída.
func ProductToResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		Code:        p.Code,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		CostPrice:   p.CostPrice,
		SalePrice:   p.SalePrice,
		UnitMeasure: p.UnitMeasure,
		MinStock:    p.MinStock,
		ExpiryDate:  p.ExpiryDate,
		Quantity:    p.Quantity,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
