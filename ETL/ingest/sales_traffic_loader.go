package ingest

import (
	"github.com/LilVoxy/seller_analytics/ETL/models"
)

// RawSalesTrafficTable задает имя raw-таблицы отчета о продажах и трафике по дочернему ASIN
const RawSalesTrafficTable = "raw_amazon_sales_traffic_child_asin_daily"

// SalesTrafficLoader загружает бизнес-отчеты о продажах и трафике
// (Detail Page Sales and Traffic by Child Item)
type SalesTrafficLoader struct {
	raw *RawLoader
	dir string
}

// NewSalesTrafficLoader создает новый экземпляр SalesTrafficLoader
func NewSalesTrafficLoader(raw *RawLoader, dir string) *SalesTrafficLoader {
	return &SalesTrafficLoader{
		raw: raw,
		dir: dir,
	}
}

// Load загружает самый свежий отчет о продажах и трафике в raw-слой
func (l *SalesTrafficLoader) Load() (*models.RawLoad, error) {
	return l.raw.LoadLatest(l.dir, RawSalesTrafficTable)
}
