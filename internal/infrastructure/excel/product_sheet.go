// Package excel contém o codec de planilhas xlsx de produtos (importação e
// exportação) sobre a excelize.
package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/higiplas/higiplas-api/internal/application/dto"
	"github.com/higiplas/higiplas-api/internal/application/usecase"
	"github.com/higiplas/higiplas-api/internal/domain/entity"
)

var _ usecase.ProductSheetCodec = (*ProductSheetCodec)(nil)

// Cabeçalhos reconhecidos (após normalização: minúsculas, sem acento).
const (
	colCode        = "codigo"
	colName        = "nome"
	colCategory    = "categoria"
	colDescription = "descricao"
	colUnit        = "unidade_medida"
	colSalePrice   = "preco_venda"
	colCostPrice   = "preco_custo"
	colMinStock    = "estoque_minimo"
	colQuantity    = "estoque"
	colExpiry      = "data_validade"
)

// requiredCols colunas que a planilha precisa ter para ser aceita.
var requiredCols = []string{colCode, colName, colCategory, colSalePrice, colUnit}

// dateLayouts formatos de data aceitos em data_validade.
var dateLayouts = []string{"02/01/2006", "2006-01-02", "02-01-2006"}

// ProductSheetCodec lê e escreve planilhas de produtos no formato da casa:
// primeira aba, primeira linha de cabeçalho, uma linha por produto.
type ProductSheetCodec struct{}

// NewProductSheetCodec constrói o codec.
func NewProductSheetCodec() *ProductSheetCodec {
	return &ProductSheetCodec{}
}

// normalizeHeader põe o cabeçalho em minúsculas, sem acento e com "_" no
// lugar de espaços, para aceitar variações como "Preço de Venda".
func normalizeHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	clean, _, err := transform.String(t, s)
	if err != nil {
		clean = s
	}
	clean = strings.ToLower(strings.TrimSpace(clean))
	clean = strings.ReplaceAll(clean, " de ", " ")
	return strings.ReplaceAll(clean, " ", "_")
}

// Parse lê a planilha e devolve as linhas válidas mais os erros por linha.
// Erro de retorno só quando a planilha inteira é inaproveitável (arquivo
// corrompido ou cabeçalho sem as colunas obrigatórias).
func (c *ProductSheetCodec) Parse(r io.Reader) ([]usecase.ProductSheetRow, []dto.ImportRowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("abrir planilha: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("planilha sem abas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("ler linhas: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("planilha vazia")
	}

	// Mapear cabeçalho -> índice de coluna
	colIdx := make(map[string]int)
	for i, h := range rows[0] {
		colIdx[normalizeHeader(h)] = i
	}
	for _, required := range requiredCols {
		if _, ok := colIdx[required]; !ok {
			return nil, nil, fmt.Errorf("coluna obrigatória ausente: %s", required)
		}
	}

	cell := func(row []string, col string) string {
		idx, ok := colIdx[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var (
		parsed  []usecase.ProductSheetRow
		rowErrs []dto.ImportRowError
	)
	for i, raw := range rows[1:] {
		lineNo := i + 2 // 1-based incluindo o cabeçalho
		if isEmptyRow(raw) {
			continue
		}

		row, err := c.parseRow(lineNo, raw, cell)
		if err != nil {
			rowErrs = append(rowErrs, dto.ImportRowError{
				Row:     lineNo,
				Code:    cell(raw, colCode),
				Message: err.Error(),
			})
			continue
		}
		parsed = append(parsed, row)
	}
	return parsed, rowErrs, nil
}

func (c *ProductSheetCodec) parseRow(
	lineNo int,
	raw []string,
	cell func([]string, string) string,
) (usecase.ProductSheetRow, error) {
	var zero usecase.ProductSheetRow

	code := cell(raw, colCode)
	name := cell(raw, colName)
	if code == "" || name == "" {
		return zero, fmt.Errorf("codigo e nome são obrigatórios")
	}
	unit := cell(raw, colUnit)
	if unit == "" {
		return zero, fmt.Errorf("unidade_medida é obrigatória")
	}

	salePrice, err := parsePrice(cell(raw, colSalePrice))
	if err != nil {
		return zero, fmt.Errorf("preco_venda inválido: %v", err)
	}

	row := usecase.ProductSheetRow{
		Row:         lineNo,
		Code:        code,
		Name:        name,
		Category:    cell(raw, colCategory),
		Description: cell(raw, colDescription),
		UnitMeasure: unit,
		SalePrice:   salePrice,
	}

	if v := cell(raw, colCostPrice); v != "" {
		cost, err := parsePrice(v)
		if err != nil {
			return zero, fmt.Errorf("preco_custo inválido: %v", err)
		}
		row.CostPrice = &cost
	}
	if v := cell(raw, colQuantity); v != "" {
		qty, err := parseCount(v)
		if err != nil {
			return zero, fmt.Errorf("estoque inválido: %v", err)
		}
		row.Quantity = qty
	}
	if v := cell(raw, colMinStock); v != "" {
		minStock, err := parseCount(v)
		if err != nil {
			return zero, fmt.Errorf("estoque_minimo inválido: %v", err)
		}
		row.MinStock = minStock
	}
	if v := cell(raw, colExpiry); v != "" {
		expiry, err := parseDate(v)
		if err != nil {
			return zero, fmt.Errorf("data_validade inválida: %v", err)
		}
		row.ExpiryDate = &expiry
	}
	return row, nil
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parsePrice aceita vírgula ou ponto como separador decimal e exige valor >= 0.
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q não é um número", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("valor negativo")
	}
	return d, nil
}

// parseCount aceita inteiros >= 0; planilhas costumam gravar "10.0".
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("valor negativo")
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("%q não é um inteiro", s)
	}
	if f < 0 {
		return 0, fmt.Errorf("valor negativo")
	}
	return int(f), nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q não está em um formato de data aceito", s)
}

// exportHeaders ordem das colunas na planilha exportada.
var exportHeaders = []string{
	"Codigo", "Nome", "Categoria", "Descricao", "Unidade_Medida",
	"Preco_Venda", "Preco_Custo", "Estoque", "Estoque_Minimo", "Data_Validade",
}

// Export gera a planilha xlsx com uma linha por produto.
func (c *ProductSheetCodec) Export(products []*entity.Product) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Produtos"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for i, h := range exportHeaders {
		cellRef, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("célula de cabeçalho: %w", err)
		}
		if err := f.SetCellValue(sheet, cellRef, h); err != nil {
			return nil, fmt.Errorf("escrever cabeçalho: %w", err)
		}
	}

	for rowIdx, p := range products {
		values := []any{
			p.Code, p.Name, p.Category, p.Description, p.UnitMeasure,
			p.SalePrice.StringFixed(2), costPriceCell(p), p.Quantity, p.MinStock, expiryCell(p),
		}
		for colIdx, v := range values {
			cellRef, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, fmt.Errorf("célula de dados: %w", err)
			}
			if err := f.SetCellValue(sheet, cellRef, v); err != nil {
				return nil, fmt.Errorf("escrever produto %s: %w", p.Code, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializar planilha: %w", err)
	}
	return buf.Bytes(), nil
}

func costPriceCell(p *entity.Product) string {
	if p.CostPrice == nil {
		return ""
	}
	return p.CostPrice.StringFixed(2)
}

func expiryCell(p *entity.Product) string {
	if p.ExpiryDate == nil {
		return ""
	}
	return p.ExpiryDate.Format("02/01/2006")
}
