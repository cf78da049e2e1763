package transform

import (
	"sort"

	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
)

// ProductDimensionProcessor строит измерение товаров из снимка каталога
type ProductDimensionProcessor struct {
	logger *utils.ETLLogger
}

// NewProductDimensionProcessor создает новый экземпляр ProductDimensionProcessor
func NewProductDimensionProcessor(logger *utils.ETLLogger) *ProductDimensionProcessor {
	return &ProductDimensionProcessor{
		logger: logger,
	}
}

// ProcessProducts превращает staging-снимок каталога в строки измерения товаров
// Бизнес-ключ измерения seller_sku: при дублях в снимке побеждает первая строка
// Результат отсортирован по seller_sku для детерминированной загрузки
func (p *ProductDimensionProcessor) ProcessProducts(catalog []models.CatalogStagingRow) ([]models.ProductDimension, error) {
	if len(catalog) == 0 {
		p.logger.Debug("Снимок каталога пуст, измерение товаров не обновляется")
		return nil, nil
	}

	bySKU := make(map[string]models.ProductDimension, len(catalog))
	duplicates := 0

	for _, row := range catalog {
		if _, exists := bySKU[row.SellerSKU]; exists {
			duplicates++
			continue
		}
		bySKU[row.SellerSKU] = models.ProductDimension{
			SellerSKU:          row.SellerSKU,
			ASIN:               row.ASIN,
			ItemName:           row.ItemName,
			FulfillmentChannel: row.FulfillmentChannel,
			Status:             row.Status,
		}
	}

	if duplicates > 0 {
		p.logger.Info("Измерение товаров: пропущено %d дублей seller_sku", duplicates)
	}

	result := make([]models.ProductDimension, 0, len(bySKU))
	for _, product := range bySKU {
		result = append(result, product)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SellerSKU < result[j].SellerSKU
	})

	p.logger.Debug("Построено %d строк измерения товаров", len(result))
	return result, nil
}
