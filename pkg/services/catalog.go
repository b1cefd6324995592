package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"freshprice-api/pkg/models"

	"github.com/xuri/excelize/v2"
)

// Catalog 起動時に読み込む商品マスタ。プロセス存続中は読み取り専用。
type Catalog struct {
	products map[string]models.Product
}

// NewCatalog は商品のスライスからカタログを作る
func NewCatalog(products []models.Product) *Catalog {
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{products: byID}
}

// Get は商品IDで商品を引く
func (c *Catalog) Get(id string) (models.Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

// List はID昇順の商品要約一覧を返す
func (c *Catalog) List() []models.ProductSummary {
	summaries := make([]models.ProductSummary, 0, len(c.products))
	for _, p := range c.products {
		summaries = append(summaries, models.ProductSummary{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries
}

// Len は登録商品数を返す
func (c *Catalog) Len() int {
	return len(c.products)
}

// LoadCatalog はカタログドキュメントを読み込む。
// 拡張子が .xlsx なら価格表ワークブック、それ以外はJSONとして扱う。
func LoadCatalog(path string) (*Catalog, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadCatalogXLSX(path)
	}
	return loadCatalogJSON(path)
}

// catalogRecord products_db.json の1商品分のオンディスク表現
type catalogRecord struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	FullPrice  float64 `json:"full_price"`
	CostPrice  float64 `json:"cost_price"`
	Popularity float64 `json:"popularity"`
}

func loadCatalogJSON(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records map[string]catalogRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid catalog document: %w", err)
	}
	products := make([]models.Product, 0, len(records))
	for id, rec := range records {
		products = append(products, models.Product{
			ID:         id,
			Name:       rec.Name,
			Category:   rec.Category,
			FullPrice:  rec.FullPrice,
			CostPrice:  rec.CostPrice,
			Popularity: rec.Popularity,
		})
	}
	return NewCatalog(products), nil
}

// loadCatalogXLSX は価格表ワークブックの先頭シートからカタログを読み込む。
// 1行目をヘッダーとして列位置を特定する。
func loadCatalogXLSX(path string) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("could not read catalog workbook: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("catalog workbook has no data rows")
	}

	header := rows[0]
	idCol := findColumn(header, "id", "product_id")
	nameCol := findColumn(header, "name", "product_name")
	categoryCol := findColumn(header, "category")
	fullPriceCol := findColumn(header, "full_price", "price")
	costPriceCol := findColumn(header, "cost_price", "cost")
	popularityCol := findColumn(header, "popularity")
	if idCol < 0 || nameCol < 0 || categoryCol < 0 || fullPriceCol < 0 || costPriceCol < 0 || popularityCol < 0 {
		return nil, fmt.Errorf("catalog workbook is missing one of the required columns (id, name, category, full_price, cost_price, popularity)")
	}

	var products []models.Product
	for i, row := range rows[1:] {
		id := cellAt(row, idCol)
		if id == "" {
			continue // 空行はスキップ
		}
		fullPrice, err := strconv.ParseFloat(cellAt(row, fullPriceCol), 64)
		if err != nil {
			return nil, fmt.Errorf("catalog workbook row %d: invalid full_price: %w", i+2, err)
		}
		costPrice, err := strconv.ParseFloat(cellAt(row, costPriceCol), 64)
		if err != nil {
			return nil, fmt.Errorf("catalog workbook row %d: invalid cost_price: %w", i+2, err)
		}
		popularity, err := strconv.ParseFloat(cellAt(row, popularityCol), 64)
		if err != nil {
			return nil, fmt.Errorf("catalog workbook row %d: invalid popularity: %w", i+2, err)
		}
		products = append(products, models.Product{
			ID:         id,
			Name:       cellAt(row, nameCol),
			Category:   cellAt(row, categoryCol),
			FullPrice:  fullPrice,
			CostPrice:  costPrice,
			Popularity: popularity,
		})
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("catalog workbook has no products")
	}
	return NewCatalog(products), nil
}

// findColumn はヘッダー行から候補名のいずれかに一致する列番号を探す
func findColumn(header []string, candidates ...string) int {
	for _, candidate := range candidates {
		for i, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), candidate) {
				return i
			}
		}
	}
	return -1
}

// cellAt は行の末尾の空セルが省略されていても安全にセル値を取る
func cellAt(row []string, col int) string {
	if col < len(row) {
		return strings.TrimSpace(row[col])
	}
	return ""
}
