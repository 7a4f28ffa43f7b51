package inventory

import (
	"context"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/higiplas/higiplas-api/internal/domain"
	"github.com/higiplas/higiplas-api/internal/domain/entity"
	"github.com/higiplas/higiplas-api/internal/domain/repository"
)

// LedgerUseCase registra movimentações de estoque de forma transacional
// (ENTRADA/SAIDA) com bloqueio de fila (SELECT FOR UPDATE) e Commit/Rollback.
// É o único caminho de escrita do saldo; o invariante é: saldo do produto ==
// saldo inicial + soma(ENTRADA) - soma(SAIDA) de todas as movimentações
// comitadas.
type LedgerUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
}

// NewLedgerUseCase constrói o caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

// MovementInput entrada para registrar uma movimentação.
type MovementInput struct {
	CompanyID int64
	UserID    int64
	ProductID int64
	Kind      string // ENTRADA | SAIDA (aceita minúsculas e acentos: "saída" -> SAIDA)
	Quantity  int    // > 0
	Note      string
}

// RecordMovement valida a entrada, abre uma transação, bloqueia a fila do
// produto (SELECT FOR UPDATE escopado por empresa), valida a saída contra o
// saldo já bloqueado, grava saldo + movimentação e faz Commit ou Rollback.
// Devolve o produto atualizado.
//
// A ordem bloqueia-depois-valida é o ponto central: a checagem de estoque
// insuficiente só acontece com a fila bloqueada, então é autoritativa
// frente a escritores concorrentes no mesmo produto.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, input MovementInput) (*entity.Product, error) {
	// Validações de forma, antes de abrir a transação
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	kind, ok := NormalizeKind(input.Kind)
	if !ok {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		p, err := uc.recordInTx(productRepo, movementRepo, input, kind, time.Now())
		if err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RecordMovementInTx registra a movimentação usando os repositórios do caller
// (mesma transação). Usado pela importação de planilha para ajustar o saldo
// pelo ledger dentro da sua própria tx. A entrada deve vir já validada na
// forma; aqui o tipo ainda é normalizado.
func (uc *LedgerUseCase) RecordMovementInTx(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	input MovementInput,
) (*entity.Product, error) {
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	kind, ok := NormalizeKind(input.Kind)
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	return uc.recordInTx(productRepo, movementRepo, input, kind, time.Now())
}

// recordInTx: ACQUIRE-LOCK -> VALIDATE -> MUTATE-AND-APPEND. O Commit/Abort
// fica por conta do TxRunner do caller.
func (uc *LedgerUseCase) recordInTx(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	input MovementInput,
	kind string,
	now time.Time,
) (*entity.Product, error) {
	// Bloqueia a fila do produto escopado por empresa. Produto de outra
	// empresa é indistinguível de produto inexistente (evita enumeração).
	product, err := productRepo.GetForUpdate(input.ProductID, input.CompanyID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	switch kind {
	case entity.MovementSaida:
		// Checagem autoritativa: a fila já está bloqueada
		if input.Quantity > product.Quantity {
			return nil, domain.ErrInsufficientStock
		}
		product.Quantity -= input.Quantity
	case entity.MovementEntrada:
		product.Quantity += input.Quantity
	}

	if err := productRepo.UpdateQuantity(product.ID, product.Quantity); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ProductID: product.ID,
		Kind:      kind,
		Quantity:  input.Quantity,
		Note:      input.Note,
		UserID:    input.UserID,
		CreatedAt: now,
	}
	if err := movementRepo.Create(mov); err != nil {
		return nil, err
	}
	product.UpdatedAt = now
	return product, nil
}

// MovementHistory devolve o histórico de movimentações do produto, mais
// recentes primeiro, depois de verificar que o produto pertence à empresa.
func (uc *LedgerUseCase) MovementHistory(ctx context.Context, productID, companyID int64) ([]*entity.StockMovement, error) {
	product, err := uc.productRepo.GetByID(productID, companyID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.movementRepo.ListByProduct(productID)
}

// NormalizeKind normaliza o tipo de movimentação: caixa alta e sem acentos
// ("saída" -> "SAIDA"). Devolve false para qualquer valor fora de
// {ENTRADA, SAIDA}.
func NormalizeKind(kind string) (string, bool) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, strings.TrimSpace(kind))
	if err != nil {
		stripped = kind
	}
	normalized := strings.ToUpper(stripped)
	switch normalized {
	case entity.MovementEntrada, entity.MovementSaida:
		return normalized, true
	}
	return "", false
}
