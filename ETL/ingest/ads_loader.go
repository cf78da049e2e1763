package ingest

import (
	"github.com/LilVoxy/seller_analytics/ETL/models"
)

// RawAdSpendTable задает имя raw-таблицы рекламного отчета Sponsored Products
const RawAdSpendTable = "raw_amazon_ad_spend_sponsored_products_daily"

// AdsLoader загружает рекламные отчеты Sponsored Products
type AdsLoader struct {
	raw *RawLoader
	dir string
}

// NewAdsLoader создает новый экземпляр AdsLoader
func NewAdsLoader(raw *RawLoader, dir string) *AdsLoader {
	return &AdsLoader{
		raw: raw,
		dir: dir,
	}
}

// Load загружает самый свежий рекламный отчет в raw-слой
func (l *AdsLoader) Load() (*models.RawLoad, error) {
	return l.raw.LoadLatest(l.dir, RawAdSpendTable)
}
