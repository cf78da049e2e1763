package transform

import (
	"sort"

	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
)

// SalesTrafficFactsProcessor строит факты продаж и трафика из staging-данных
type SalesTrafficFactsProcessor struct {
	logger *utils.ETLLogger
}

// NewSalesTrafficFactsProcessor создает новый экземпляр SalesTrafficFactsProcessor
func NewSalesTrafficFactsProcessor(logger *utils.ETLLogger) *SalesTrafficFactsProcessor {
	return &SalesTrafficFactsProcessor{
		logger: logger,
	}
}

// ProcessSalesTrafficFacts превращает staging-строки в факты с гранулярностью
// (report_date, child_asin). При конфликте ключа побеждает строка с большим load_ts.
// Производные метрики (конверсия, выручка на сессию) намеренно не вычисляются:
// они считаются BI-слоем из сохраненных измеримых значений
func (p *SalesTrafficFactsProcessor) ProcessSalesTrafficFacts(rows []models.SalesTrafficStagingRow) ([]models.SalesTrafficFact, error) {
	if len(rows) == 0 {
		p.logger.Debug("Staging-данных о продажах нет, факты не строятся")
		return nil, nil
	}

	// Стабильная сортировка по load_ts: более поздние загрузки перекрывают ранние
	ordered := make([]models.SalesTrafficStagingRow, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].LoadTS.Before(ordered[j].LoadTS)
	})

	byKey := make(map[string]models.SalesTrafficFact, len(ordered))
	for _, row := range ordered {
		key := row.ReportDate.Format("2006-01-02") + "\x00" + row.ChildASIN
		byKey[key] = models.SalesTrafficFact{
			ReportDate:             row.ReportDate,
			ChildASIN:              row.ChildASIN,
			ParentASIN:             row.ParentASIN,
			SessionsTotal:          row.SessionsTotal,
			PageViewsTotal:         row.PageViewsTotal,
			UnitsOrdered:           row.UnitsOrdered,
			TotalOrderItems:        row.TotalOrderItems,
			OrderedProductSalesUSD: row.OrderedProductSalesUSD,
			UnitSessionPercentage:  row.UnitSessionPercentage,
			LoadID:                 row.LoadID,
			LoadTS:                 row.LoadTS,
			SourceFile:             row.SourceFile,
		}
	}

	if removed := len(ordered) - len(byKey); removed > 0 {
		p.logger.Info("Факты продаж: удалено %d дублей (report_date, child_asin)", removed)
	}

	result := make([]models.SalesTrafficFact, 0, len(byKey))
	for _, fact := range byKey {
		result = append(result, fact)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ReportDate.Equal(result[j].ReportDate) {
			return result[i].ReportDate.Before(result[j].ReportDate)
		}
		return result[i].ChildASIN < result[j].ChildASIN
	})

	p.logger.Debug("Построено %d фактов продаж и трафика", len(result))
	return result, nil
}
