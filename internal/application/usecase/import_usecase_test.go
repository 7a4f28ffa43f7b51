package usecase_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/higiplas/higiplas-api/internal/application/dto"
	"github.com/higiplas/higiplas-api/internal/application/inventory"
	"github.com/higiplas/higiplas-api/internal/application/usecase"
	"github.com/higiplas/higiplas-api/internal/domain"
	"github.com/higiplas/higiplas-api/internal/domain/entity"
	"github.com/higiplas/higiplas-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes em memória (só o que a importação usa)
// ──────────────────────────────────────────────────────────────────────────────

type importState struct {
	products  map[int64]*entity.Product
	movements []*entity.StockMovement
	nextID    int64
}

func newImportState(products ...*entity.Product) *importState {
	st := &importState{products: make(map[int64]*entity.Product), nextID: 1}
	for _, p := range products {
		cp := *p
		st.products[p.ID] = &cp
		if p.ID >= st.nextID {
			st.nextID = p.ID + 1
		}
	}
	return st
}

type importProductRepo struct{ st *importState }

func (r *importProductRepo) Create(p *entity.Product) error {
	p.ID = r.st.nextID
	r.st.nextID++
	cp := *p
	r.st.products[p.ID] = &cp
	return nil
}
func (r *importProductRepo) get(id, companyID int64) *entity.Product {
	p, ok := r.st.products[id]
	if !ok || p.CompanyID != companyID {
		return nil
	}
	cp := *p
	return &cp
}
func (r *importProductRepo) GetByID(id, companyID int64) (*entity.Product, error) {
	return r.get(id, companyID), nil
}
func (r *importProductRepo) GetByCompanyAndCode(companyID int64, code string) (*entity.Product, error) {
	for _, p := range r.st.products {
		if p.CompanyID == companyID && p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *importProductRepo) GetForUpdate(id, companyID int64) (*entity.Product, error) {
	return r.get(id, companyID), nil
}
func (r *importProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.st.products[p.ID] = &cp
	return nil
}
func (r *importProductRepo) UpdateQuantity(id int64, quantity int) error {
	p, ok := r.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = quantity
	return nil
}
func (r *importProductRepo) ListByCompany(companyID int64, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.st.products {
		if p.CompanyID == companyID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *importProductRepo) Delete(id, companyID int64) error { return nil }

type importMovementRepo struct{ st *importState }

func (r *importMovementRepo) Create(m *entity.StockMovement) error {
	m.ID = int64(len(r.st.movements) + 1)
	cp := *m
	r.st.movements = append(r.st.movements, &cp)
	return nil
}
func (r *importMovementRepo) ListByProduct(productID int64) ([]*entity.StockMovement, error) {
	return nil, nil
}

type importTxRunner struct{ st *importState }

func (t *importTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	// rollback por linha: snapshot antes, restore no erro
	before := newImportState()
	for id, p := range t.st.products {
		cp := *p
		before.products[id] = &cp
	}
	before.movements = append([]*entity.StockMovement(nil), t.st.movements...)
	before.nextID = t.st.nextID

	if err := fn(&importProductRepo{st: t.st}, &importMovementRepo{st: t.st}); err != nil {
		t.st.products = before.products
		t.st.movements = before.movements
		t.st.nextID = before.nextID
		return err
	}
	return nil
}

// fakeCodec devolve linhas pré-montadas; o parsing real tem teste próprio em
// infrastructure/excel.
type fakeCodec struct {
	rows    []usecase.ProductSheetRow
	rowErrs []dto.ImportRowError
	err     error
}

func (c *fakeCodec) Parse(r io.Reader) ([]usecase.ProductSheetRow, []dto.ImportRowError, error) {
	return c.rows, c.rowErrs, c.err
}
func (c *fakeCodec) Export(products []*entity.Product) ([]byte, error) {
	return []byte("xlsx"), nil
}

func buildImportUC(st *importState, codec usecase.ProductSheetCodec) *usecase.ImportUseCase {
	runner := &importTxRunner{st: st}
	productRepo := &importProductRepo{st: st}
	movementRepo := &importMovementRepo{st: st}
	ledger := inventory.NewLedgerUseCase(runner, productRepo, movementRepo)
	return usecase.NewImportUseCase(runner, ledger, productRepo, codec)
}

func sheetRow(code string, qty int) usecase.ProductSheetRow {
	return usecase.ProductSheetRow{
		Row:         2,
		Code:        code,
		Name:        "Produto " + code,
		Category:    "Limpeza",
		UnitMeasure: "UN",
		SalePrice:   decimal.NewFromInt(10),
		Quantity:    qty,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Import
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_ProdutoNovo_CargaInicialViraEntrada(t *testing.T) {
	st := newImportState()
	uc := buildImportUC(st, &fakeCodec{rows: []usecase.ProductSheetRow{sheetRow("NOVO-1", 15)}})

	result, err := uc.Import(context.Background(), 10, 7, strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Empty(t, result.Errors)

	require.Len(t, st.products, 1)
	var created *entity.Product
	for _, p := range st.products {
		created = p
	}
	assert.Equal(t, 15, created.Quantity)

	// A carga inicial aparece no histórico, não só no saldo
	require.Len(t, st.movements, 1)
	assert.Equal(t, entity.MovementEntrada, st.movements[0].Kind)
	assert.Equal(t, 15, st.movements[0].Quantity)
	assert.Equal(t, int64(7), st.movements[0].UserID)
}

func TestImport_ProdutoExistente_DeltaPositivoViraEntrada(t *testing.T) {
	existing := &entity.Product{
		ID: 1, CompanyID: 10, Code: "SAB-01", Name: "Sabão",
		SalePrice: decimal.NewFromInt(30), UnitMeasure: "UN", Quantity: 5,
	}
	st := newImportState(existing)
	uc := buildImportUC(st, &fakeCodec{rows: []usecase.ProductSheetRow{sheetRow("SAB-01", 12)}})

	result, err := uc.Import(context.Background(), 10, 7, strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	assert.Equal(t, 12, st.products[1].Quantity, "saldo deve convergir para o da planilha")
	require.Len(t, st.movements, 1,
		"o ajuste tem que passar pelo ledger, nunca sobrescrever o saldo direto")
	assert.Equal(t, entity.MovementEntrada, st.movements[0].Kind)
	assert.Equal(t, 7, st.movements[0].Quantity, "delta = 12 - 5")
}

func TestImport_ProdutoExistente_DeltaNegativoViraSaida(t *testing.T) {
	existing := &entity.Product{
		ID: 1, CompanyID: 10, Code: "SAB-01", Name: "Sabão",
		SalePrice: decimal.NewFromInt(30), UnitMeasure: "UN", Quantity: 20,
	}
	st := newImportState(existing)
	uc := buildImportUC(st, &fakeCodec{rows: []usecase.ProductSheetRow{sheetRow("SAB-01", 8)}})

	result, err := uc.Import(context.Background(), 10, 7, strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	assert.Equal(t, 8, st.products[1].Quantity)
	require.Len(t, st.movements, 1)
	assert.Equal(t, entity.MovementSaida, st.movements[0].Kind)
	assert.Equal(t, 12, st.movements[0].Quantity, "delta = 20 - 8, registrado como SAIDA")
}

func TestImport_ProdutoExistente_SemDelta_NaoGeraMovimentacao(t *testing.T) {
	existing := &entity.Product{
		ID: 1, CompanyID: 10, Code: "SAB-01", Name: "Sabão antigo",
		SalePrice: decimal.NewFromInt(30), UnitMeasure: "UN", Quantity: 9,
	}
	st := newImportState(existing)
	row := sheetRow("SAB-01", 9)
	row.Name = "Sabão renomeado"
	uc := buildImportUC(st, &fakeCodec{rows: []usecase.ProductSheetRow{row}})

	result, err := uc.Import(context.Background(), 10, 7, strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	assert.Equal(t, "Sabão renomeado", st.products[1].Name, "o cadastro é atualizado")
	assert.Empty(t, st.movements, "saldo igual não gera ajuste")
}

func TestImport_ErrosDoParserEntramNoResumo(t *testing.T) {
	st := newImportState()
	uc := buildImportUC(st, &fakeCodec{
		rows:    []usecase.ProductSheetRow{sheetRow("OK-1", 5)},
		rowErrs: []dto.ImportRowError{{Row: 3, Code: "RUIM", Message: "preco_venda inválido"}},
	})

	result, err := uc.Import(context.Background(), 10, 7, strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
}

func TestImport_PlanilhaInaproveitavel(t *testing.T) {
	st := newImportState()
	uc := buildImportUC(st, &fakeCodec{err: errors.New("coluna obrigatória ausente: codigo")})

	_, err := uc.Import(context.Background(), 10, 7, strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Export
// ──────────────────────────────────────────────────────────────────────────────

func TestExport_SemProdutos(t *testing.T) {
	st := newImportState()
	uc := buildImportUC(st, &fakeCodec{})

	_, err := uc.Export(context.Background(), 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExport_ComProdutos(t *testing.T) {
	st := newImportState(&entity.Product{
		ID: 1, CompanyID: 10, Code: "SAB-01", Name: "Sabão",
		SalePrice: decimal.NewFromInt(30), UnitMeasure: "UN", Quantity: 5,
	})
	uc := buildImportUC(st, &fakeCodec{})

	content, err := uc.Export(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), content)
}
