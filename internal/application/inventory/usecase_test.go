package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/higiplas/higiplas-api/internal/application/inventory"
	"github.com/higiplas/higiplas-api/internal/domain"
	"github.com/higiplas/higiplas-api/internal/domain/entity"
	"github.com/higiplas/higiplas-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes em memória
//
// fakeStore simula o banco: um mutex faz o papel do lock de fila do
// SELECT FOR UPDATE (transações serializadas sobre o mesmo produto) e um
// snapshot no início de cada transação permite rollback.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	mu        sync.Mutex
	products  map[int64]*entity.Product
	movements []*entity.StockMovement
	nextMovID int64

	// failMovementCreate força erro no INSERT da movimentação (teste de rollback)
	failMovementCreate bool
}

func newFakeStore(products ...*entity.Product) *fakeStore {
	s := &fakeStore{products: make(map[int64]*entity.Product), nextMovID: 1}
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
	return s
}

func (s *fakeStore) snapshot() ([]*entity.Product, []*entity.StockMovement) {
	prods := make([]*entity.Product, 0, len(s.products))
	for _, p := range s.products {
		cp := *p
		prods = append(prods, &cp)
	}
	movs := make([]*entity.StockMovement, len(s.movements))
	copy(movs, s.movements)
	return prods, movs
}

func (s *fakeStore) restore(prods []*entity.Product, movs []*entity.StockMovement) {
	s.products = make(map[int64]*entity.Product, len(prods))
	for _, p := range prods {
		s.products[p.ID] = p
	}
	s.movements = movs
}

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	p.ID = int64(len(r.s.products) + 1)
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) get(id, companyID int64) *entity.Product {
	p, ok := r.s.products[id]
	if !ok || p.CompanyID != companyID {
		return nil
	}
	cp := *p
	return &cp
}

func (r *fakeProductRepo) GetByID(id, companyID int64) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.get(id, companyID), nil
}

func (r *fakeProductRepo) GetByCompanyAndCode(companyID int64, code string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// GetForUpdate: o lock da transação já está em posse do runner, então a
// leitura aqui já é exclusiva, como no FOR UPDATE real.
func (r *fakeProductRepo) GetForUpdate(id, companyID int64) (*entity.Product, error) {
	return r.get(id, companyID), nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdateQuantity(id int64, quantity int) error {
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = quantity
	return nil
}

func (r *fakeProductRepo) ListByCompany(companyID int64, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.CompanyID == companyID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Delete(id, companyID int64) error {
	delete(r.s.products, id)
	return nil
}

type fakeMovementRepo struct{ s *fakeStore }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	if r.s.failMovementCreate {
		return errors.New("insert stock movement: falha simulada")
	}
	m.ID = r.s.nextMovID
	r.s.nextMovID++
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) ListByProduct(productID int64) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	// mais recentes primeiro
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		if r.s.movements[i].ProductID == productID {
			cp := *r.s.movements[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeTxRunner struct{ s *fakeStore }

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	prods, movs := t.s.snapshot()
	err := fn(&fakeProductRepo{s: t.s}, &fakeMovementRepo{s: t.s})
	if err != nil {
		t.s.restore(prods, movs) // rollback
		return err
	}
	return nil
}

func newLedger(s *fakeStore) *inventory.LedgerUseCase {
	return inventory.NewLedgerUseCase(
		&fakeTxRunner{s: s},
		&fakeProductRepo{s: s},
		&fakeMovementRepo{s: s},
	)
}

func testProduct(id, companyID int64, qty int) *entity.Product {
	return &entity.Product{
		ID:          id,
		CompanyID:   companyID,
		Code:        "SABAO-01",
		Name:        "Sabão líquido 5L",
		SalePrice:   decimal.NewFromInt(35),
		UnitMeasure: "UN",
		Quantity:    qty,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EntradaSomaSaldo(t *testing.T) {
	s := newFakeStore(testProduct(1, 10, 5))
	uc := newLedger(s)

	updated, err := uc.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: 10, UserID: 7, ProductID: 1,
		Kind: "ENTRADA", Quantity: 3, Note: "reposição",
	})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Quantity, "ENTRADA de 3 sobre saldo 5 deve dar 8")

	require.Len(t, s.movements, 1)
	mov := s.movements[0]
	assert.Equal(t, entity.MovementEntrada, mov.Kind)
	assert.Equal(t, 3, mov.Quantity)
	assert.Equal(t, int64(7), mov.UserID)
	assert.Equal(t, "reposição", mov.Note)
}

func TestRecordMovement_SaidaSubtraiSaldo(t *testing.T) {
	s := newFakeStore(testProduct(1, 10, 5))
	uc := newLedger(s)

	updated, err := uc.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: 10, UserID: 7, ProductID: 1,
		Kind: "SAIDA", Quantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity, "saída do saldo inteiro deve zerar o estoque")
}

func TestRecordMovement_SaidaMaiorQueSaldo_EstoqueInsuficiente(t *testing.T) {
	s := newFakeStore(testProduct(1, 10, 5))
	uc := newLedger(s)

	_, err := uc.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: 10, UserID: 7, ProductID: 1,
		Kind: "SAIDA", Quantity: 6,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada pode ter sido gravado
	assert.Equal(t, 5, s.products[1].Quantity, "saldo não pode mudar em caso de erro")
	assert.Empty(t, s.movements, "nenhuma movimentação pode ser registrada em caso de erro")
}

func TestRecordMovement_ProdutoInexistente(t *testing.T) {
	s := newFakeStore(testProduct(1, 10, 5))
	uc := newLedger(s)

	_, err := uc.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: 10, UserID: 7, ProductID: 99,
		Kind: "ENTRADA", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordMovement_ProdutoDeOutraEmpresa_ParecInexistente(t *testing.T) {
	s := newFakeStore(testProduct(1, 10, 5))
	uc := newLedger(s)

	// Empresa 20 tentando movimentar produto da empresa 10
	_, err := uc.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: 20, UserID: 7, ProductID: 1,
		Kind: "ENTRADA", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"produto de outra empresa deve ser indistinguível de produto inexistente")
	assert.Equal(t, 5, s.products[1].Quantity)
}

func TestRecordMovement_QuantidadeInvalida(t *testing.T) {
	s := newFakeStore(testProduct(1, 10, 5))
	uc := newLedger(s)

	for _, qty := range []int{0, -1, -10} {
		_, err := uc.RecordMovement(context.Background(), inventory.MovementInput{
			CompanyID: 10, UserID: 7, ProductID: 1,
			Kind: "ENTRADA", Quantity: qty,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "quantidade %d deve ser rejeitada", qty)
	}
	assert.Empty(t, s.movements)
}

func TestRecordMovement_TipoInvalido(t *testing.T) {
	s := newFakeStore(testProduct(1, 10, 5))
	uc := newLedger(s)

	for _, kind := range []string{"", "TRANSFERENCIA", "AJUSTE", "entrada e saida"} {
		_, err := uc.RecordMovement(context.Background(), inventory.MovementInput{
			CompanyID: 10, UserID: 7, ProductID: 1,
			Kind: kind, Quantity: 1,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo %q deve ser rejeitado", kind)
	}
}

func TestRecordMovement_TipoNormalizado(t *testing.T) {
	// Minúsculas e acentos devem ser aceitos: "saída" -> SAIDA
	cases := map[string]string{
		"entrada": entity.MovementEntrada,
		"Entrada": entity.MovementEntrada,
		"saida":   entity.MovementSaida,
		"saída":   entity.MovementSaida,
		"SAÍDA":   entity.MovementSaida,
		" SAIDA ": entity.MovementSaida,
	}
	for in, want := range cases {
		s := newFakeStore(testProduct(1, 10, 10))
		uc := newLedger(s)
		_, err := uc.RecordMovement(context.Background(), inventory.MovementInput{
			CompanyID: 10, UserID: 7, ProductID: 1,
			Kind: in, Quantity: 1,
		})
		require.NoError(t, err, "tipo %q deve ser aceito", in)
		require.Len(t, s.movements, 1)
		assert.Equal(t, want, s.movements[0].Kind, "tipo %q deve normalizar para %s", in, want)
	}
}

func TestRecordMovement_FalhaNoLedger_FazRollbackDoSaldo(t *testing.T) {
	s := newFakeStore(testProduct(1, 10, 5))
	s.failMovementCreate = true
	uc := newLedger(s)

	_, err := uc.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: 10, UserID: 7, ProductID: 1,
		Kind: "ENTRADA", Quantity: 3,
	})
	require.Error(t, err)

	// O UPDATE do saldo aconteceu dentro da tx, mas o INSERT falhou:
	// o rollback precisa desfazer o saldo também.
	assert.Equal(t, 5, s.products[1].Quantity, "rollback deve restaurar o saldo")
	assert.Empty(t, s.movements)
}

// Dez goroutines disputam uma SAIDA do saldo inteiro: com o lock de fila,
// exatamente uma vence; as demais veem estoque insuficiente.
func TestRecordMovement_SaidasConcorrentes_UmaSoVence(t *testing.T) {
	const workers = 10
	s := newFakeStore(testProduct(1, 10, 5))
	uc := newLedger(s)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.RecordMovement(context.Background(), inventory.MovementInput{
				CompanyID: 10, UserID: 7, ProductID: 1,
				Kind: "SAIDA", Quantity: 5,
			})
		}(i)
	}
	wg.Wait()

	var wins, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("erro inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "exatamente uma saída deve vencer a disputa")
	assert.Equal(t, workers-1, insufficient)
	assert.Equal(t, 0, s.products[1].Quantity)
	assert.Len(t, s.movements, 1, "só a saída vencedora pode aparecer no histórico")
}

// Mistura concorrente de entradas e saídas: o saldo final tem que bater com
// o replay do histórico comitado.
func TestRecordMovement_ConcorrenciaMista_SaldoBateComHistorico(t *testing.T) {
	const workers = 40
	s := newFakeStore(testProduct(1, 10, 100))
	uc := newLedger(s)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kind := "ENTRADA"
			if i%2 == 0 {
				kind = "SAIDA"
			}
			_, _ = uc.RecordMovement(context.Background(), inventory.MovementInput{
				CompanyID: 10, UserID: 7, ProductID: 1,
				Kind: kind, Quantity: 1 + i%3,
			})
		}(i)
	}
	wg.Wait()

	replay := 100
	for _, m := range s.movements {
		if m.Kind == entity.MovementEntrada {
			replay += m.Quantity
		} else {
			replay -= m.Quantity
		}
	}
	assert.Equal(t, replay, s.products[1].Quantity,
		"saldo final deve ser o saldo inicial mais o replay do histórico")
	assert.GreaterOrEqual(t, s.products[1].Quantity, 0, "saldo nunca pode ficar negativo")
}

// ──────────────────────────────────────────────────────────────────────────────
// MovementHistory
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementHistory_MaisRecentesPrimeiro(t *testing.T) {
	s := newFakeStore(testProduct(1, 10, 10))
	uc := newLedger(s)

	ctx := context.Background()
	for _, step := range []struct {
		kind string
		qty  int
	}{
		{"ENTRADA", 2},
		{"SAIDA", 1},
		{"ENTRADA", 5},
	} {
		_, err := uc.RecordMovement(ctx, inventory.MovementInput{
			CompanyID: 10, UserID: 7, ProductID: 1, Kind: step.kind, Quantity: step.qty,
		})
		require.NoError(t, err)
	}

	history, err := uc.MovementHistory(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, entity.MovementEntrada, history[0].Kind)
	assert.Equal(t, 5, history[0].Quantity, "a movimentação mais recente vem primeiro")
	assert.Equal(t, entity.MovementSaida, history[1].Kind)
	assert.Equal(t, entity.MovementEntrada, history[2].Kind)
	assert.Equal(t, 2, history[2].Quantity)
}

func TestMovementHistory_ProdutoInexistente(t *testing.T) {
	s := newFakeStore()
	uc := newLedger(s)

	_, err := uc.MovementHistory(context.Background(), 1, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovementHistory_ProdutoDeOutraEmpresa(t *testing.T) {
	s := newFakeStore(testProduct(1, 10, 5))
	uc := newLedger(s)

	_, err := uc.MovementHistory(context.Background(), 1, 20)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// NormalizeKind
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeKind(t *testing.T) {
	for in, want := range map[string]string{
		"entrada": "ENTRADA",
		"saída":   "SAIDA",
		"SAIDA":   "SAIDA",
		"  Saída": "SAIDA",
	} {
		got, ok := inventory.NormalizeKind(in)
		require.True(t, ok, "%q deve ser aceito", in)
		assert.Equal(t, want, got)
	}
	for _, in := range []string{"", "devolucao", "ENTRADA SAIDA", "entradas"} {
		_, ok := inventory.NormalizeKind(in)
		assert.False(t, ok, "%q deve ser rejeitado", in)
	}
}
