package excel_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/higiplas/higiplas-api/internal/domain/entity"
	"github.com/higiplas/higiplas-api/internal/infrastructure/excel"
)

// buildSheet monta um xlsx em memória com o cabeçalho e as linhas dadas.
func buildSheet(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for rowIdx, row := range rows {
		for colIdx, v := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

var header = []any{"Codigo", "Nome", "Categoria", "Preco_Venda", "Unidade_Medida", "Estoque", "Preco_Custo", "Data_Validade"}

func TestParse_LinhasValidas(t *testing.T) {
	codec := excel.NewProductSheetCodec()
	r := buildSheet(t, [][]any{
		header,
		{"SAB-01", "Sabão líquido 5L", "Limpeza", "35,90", "UN", 12, "20.50", "31/12/2026"},
		{"DET-500", "Detergente 500ml", "Limpeza", "4.20", "UN", "", "", ""},
	})

	rows, rowErrs, err := codec.Parse(r)
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, "SAB-01", first.Code)
	assert.Equal(t, "Sabão líquido 5L", first.Name)
	assert.True(t, first.SalePrice.Equal(decimal.RequireFromString("35.90")),
		"vírgula decimal deve ser aceita")
	require.NotNil(t, first.CostPrice)
	assert.True(t, first.CostPrice.Equal(decimal.RequireFromString("20.50")))
	assert.Equal(t, 12, first.Quantity)
	require.NotNil(t, first.ExpiryDate)
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), *first.ExpiryDate)

	second := rows[1]
	assert.Equal(t, "DET-500", second.Code)
	assert.Nil(t, second.CostPrice)
	assert.Zero(t, second.Quantity)
	assert.Nil(t, second.ExpiryDate)
}

func TestParse_CabecalhoComAcentosEEspacos(t *testing.T) {
	codec := excel.NewProductSheetCodec()
	r := buildSheet(t, [][]any{
		{"Código", "Nome", "Categoria", "Preço de Venda", "Unidade de Medida"},
		{"SAB-01", "Sabão", "Limpeza", "10", "UN"},
	})

	rows, rowErrs, err := codec.Parse(r)
	require.NoError(t, err, "cabeçalho com acentos e 'de' deve ser reconhecido")
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 1)
	assert.Equal(t, "SAB-01", rows[0].Code)
}

func TestParse_ErrosPorLinhaNaoDerrubamAPlanilha(t *testing.T) {
	codec := excel.NewProductSheetCodec()
	r := buildSheet(t, [][]any{
		header,
		{"", "Sem código", "Limpeza", "10", "UN", "", "", ""},
		{"OK-01", "Linha boa", "Limpeza", "10", "UN", "", "", ""},
		{"RU-01", "Preço ruim", "Limpeza", "abc", "UN", "", "", ""},
		{"NEG-1", "Estoque negativo", "Limpeza", "10", "UN", -5, "", ""},
	})

	rows, rowErrs, err := codec.Parse(r)
	require.NoError(t, err)
	require.Len(t, rows, 1, "só a linha boa deve passar")
	assert.Equal(t, "OK-01", rows[0].Code)

	require.Len(t, rowErrs, 3)
	assert.Equal(t, 2, rowErrs[0].Row)
	assert.Equal(t, 4, rowErrs[1].Row)
	assert.Equal(t, "RU-01", rowErrs[1].Code)
	assert.Equal(t, 5, rowErrs[2].Row)
}

func TestParse_ColunaObrigatoriaAusente(t *testing.T) {
	codec := excel.NewProductSheetCodec()
	r := buildSheet(t, [][]any{
		{"Codigo", "Nome"}, // sem categoria, preco_venda, unidade_medida
		{"SAB-01", "Sabão"},
	})

	_, _, err := codec.Parse(r)
	assert.Error(t, err, "planilha sem as colunas obrigatórias deve ser rejeitada inteira")
}

func TestExportRoundTrip(t *testing.T) {
	codec := excel.NewProductSheetCodec()
	cost := decimal.RequireFromString("20.50")
	expiry := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	products := []*entity.Product{
		{
			Code: "SAB-01", Name: "Sabão líquido 5L", Category: "Limpeza",
			SalePrice: decimal.RequireFromString("35.90"), UnitMeasure: "UN",
			CostPrice: &cost, Quantity: 12, MinStock: 3, ExpiryDate: &expiry,
		},
		{
			Code: "DET-500", Name: "Detergente 500ml", Category: "Limpeza",
			SalePrice: decimal.RequireFromString("4.20"), UnitMeasure: "UN",
		},
	}

	content, err := codec.Export(products)
	require.NoError(t, err)
	require.NotEmpty(t, content)

	// A planilha exportada precisa ser importável de volta
	rows, rowErrs, err := codec.Parse(bytes.NewReader(content))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 2)
	assert.Equal(t, "SAB-01", rows[0].Code)
	assert.True(t, rows[0].SalePrice.Equal(decimal.RequireFromString("35.90")))
	require.NotNil(t, rows[0].CostPrice)
	assert.Equal(t, 12, rows[0].Quantity)
	assert.Equal(t, 3, rows[0].MinStock)
	require.NotNil(t, rows[0].ExpiryDate)
	assert.Equal(t, "DET-500", rows[1].Code)
}
