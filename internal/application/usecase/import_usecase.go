package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/higiplas/higiplas-api/internal/application/dto"
	"github.com/higiplas/higiplas-api/internal/application/inventory"
	"github.com/higiplas/higiplas-api/internal/domain"
	"github.com/higiplas/higiplas-api/internal/domain/entity"
	"github.com/higiplas/higiplas-api/internal/domain/repository"
)

// importNote observação gravada nas movimentações sintéticas da importação.
const importNote = "importação de planilha"

// exportLimit teto de produtos exportados numa planilha.
const exportLimit = 10000

// ProductSheetRow linha válida extraída da planilha de produtos.
type ProductSheetRow struct {
	Row         int // linha na planilha (1-based, para mensagens de erro)
	Code        string
	Name        string
	Category    string
	Description string
	UnitMeasure string
	SalePrice   decimal.Decimal
	CostPrice   *decimal.Decimal
	MinStock    int
	Quantity    int
	ExpiryDate  *time.Time
}

// ProductSheetCodec porto para ler/escrever planilhas de produtos (xlsx).
// A implementação vive em infrastructure/excel.
type ProductSheetCodec interface {
	Parse(r io.Reader) ([]ProductSheetRow, []dto.ImportRowError, error)
	Export(products []*entity.Product) ([]byte, error)
}

// ImportUseCase importa/exporta produtos por planilha.
//
// A importação faz upsert por (empresa, código). O saldo NUNCA é sobrescrito
// direto: a diferença entre o saldo da planilha e o saldo atual vira uma
// movimentação sintética ENTRADA/SAIDA registrada pelo ledger na mesma
// transação da linha, preservando o invariante saldo == histórico.
type ImportUseCase struct {
	txRunner    inventory.TxRunner
	ledger      *inventory.LedgerUseCase
	productRepo repository.ProductRepository
	codec       ProductSheetCodec
}

// NewImportUseCase constrói o caso de uso.
func NewImportUseCase(
	txRunner inventory.TxRunner,
	ledger *inventory.LedgerUseCase,
	productRepo repository.ProductRepository,
	codec ProductSheetCodec,
) *ImportUseCase {
	return &ImportUseCase{txRunner: txRunner, ledger: ledger, productRepo: productRepo, codec: codec}
}

// Import processa a planilha linha a linha. Cada linha roda na sua própria
// transação: uma linha ruim não desfaz as anteriores; os erros são coletados
// e devolvidos no resumo.
func (uc *ImportUseCase) Import(ctx context.Context, companyID, userID int64, r io.Reader) (*dto.ImportResult, error) {
	rows, rowErrs, err := uc.codec.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	result := &dto.ImportResult{Errors: rowErrs}
	for _, row := range rows {
		if err := uc.importRow(ctx, companyID, userID, row); err != nil {
			result.Errors = append(result.Errors, dto.ImportRowError{
				Row:     row.Row,
				Code:    row.Code,
				Message: err.Error(),
			})
			continue
		}
		result.Processed++
	}
	return result, nil
}

func (uc *ImportUseCase) importRow(ctx context.Context, companyID, userID int64, row ProductSheetRow) error {
	return uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		existing, err := productRepo.GetByCompanyAndCode(companyID, row.Code)
		if err != nil {
			return err
		}

		if existing == nil {
			// Produto novo: nasce com saldo 0 e a carga inicial entra como ENTRADA
			now := time.Now()
			product := &entity.Product{
				CompanyID:   companyID,
				Code:        row.Code,
				Name:        row.Name,
				Category:    row.Category,
				Description: row.Description,
				CostPrice:   row.CostPrice,
				SalePrice:   row.SalePrice,
				UnitMeasure: row.UnitMeasure,
				MinStock:    row.MinStock,
				ExpiryDate:  row.ExpiryDate,
				Quantity:    0,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := productRepo.Create(product); err != nil {
				return err
			}
			if row.Quantity > 0 {
				_, err := uc.ledger.RecordMovementInTx(productRepo, movementRepo, inventory.MovementInput{
					CompanyID: companyID,
					UserID:    userID,
					ProductID: product.ID,
					Kind:      entity.MovementEntrada,
					Quantity:  row.Quantity,
					Note:      importNote,
				})
				return err
			}
			return nil
		}

		// Produto existente: bloqueia a fila antes de calcular o delta de saldo
		locked, err := productRepo.GetForUpdate(existing.ID, companyID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		locked.Name = row.Name
		locked.Category = row.Category
		locked.Description = row.Description
		locked.CostPrice = row.CostPrice
		locked.SalePrice = row.SalePrice
		locked.UnitMeasure = row.UnitMeasure
		locked.MinStock = row.MinStock
		locked.ExpiryDate = row.ExpiryDate
		locked.UpdatedAt = time.Now()
		if err := productRepo.Update(locked); err != nil {
			return err
		}

		delta := row.Quantity - locked.Quantity
		if delta == 0 {
			return nil
		}
		kind := entity.MovementEntrada
		if delta < 0 {
			kind = entity.MovementSaida
			delta = -delta
		}
		_, err = uc.ledger.RecordMovementInTx(productRepo, movementRepo, inventory.MovementInput{
			CompanyID: companyID,
			UserID:    userID,
			ProductID: locked.ID,
			Kind:      kind,
			Quantity:  delta,
			Note:      importNote,
		})
		return err
	})
}

// Export gera a planilha xlsx com todos os produtos da empresa.
func (uc *ImportUseCase) Export(ctx context.Context, companyID int64) ([]byte, error) {
	products, err := uc.productRepo.ListByCompany(companyID, exportLimit, 0)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, domain.ErrNotFound
	}
	return uc.codec.Export(products)
}
