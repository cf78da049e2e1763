package ingest

import (
	"github.com/LilVoxy/seller_analytics/ETL/models"
)

// RawCatalogTable задает имя raw-таблицы снимка каталога (SKU/ASIN)
const RawCatalogTable = "raw_amazon_catalog_listings_sku_asin_snapshot"

// CatalogLoader загружает снимки каталога товаров (All Listings Report)
type CatalogLoader struct {
	raw *RawLoader
	dir string
}

// NewCatalogLoader создает новый экземпляр CatalogLoader
func NewCatalogLoader(raw *RawLoader, dir string) *CatalogLoader {
	return &CatalogLoader{
		raw: raw,
		dir: dir,
	}
}

// Load загружает самый свежий снимок каталога в raw-слой
func (l *CatalogLoader) Load() (*models.RawLoad, error) {
	return l.raw.LoadLatest(l.dir, RawCatalogTable)
}
