package transform

import (
	"sort"

	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
)

// AdSpendFactsProcessor строит факты рекламных расходов из staging-данных
type AdSpendFactsProcessor struct {
	logger *utils.ETLLogger
}

// NewAdSpendFactsProcessor создает новый экземпляр AdSpendFactsProcessor
func NewAdSpendFactsProcessor(logger *utils.ETLLogger) *AdSpendFactsProcessor {
	return &AdSpendFactsProcessor{
		logger: logger,
	}
}

// ProcessAdSpendFacts превращает staging-строки в факты с гранулярностью
// (report_date, campaign_name, advertised_asin)
// При конфликте ключа побеждает строка с большим load_ts
func (p *AdSpendFactsProcessor) ProcessAdSpendFacts(rows []models.AdSpendStagingRow) ([]models.AdSpendFact, error) {
	if len(rows) == 0 {
		p.logger.Debug("Staging-данных о рекламе нет, факты не строятся")
		return nil, nil
	}

	// Стабильная сортировка по load_ts: более поздние загрузки перекрывают ранние
	ordered := make([]models.AdSpendStagingRow, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].LoadTS.Before(ordered[j].LoadTS)
	})

	byKey := make(map[string]models.AdSpendFact, len(ordered))
	for _, row := range ordered {
		key := row.ReportDate.Format("2006-01-02") + "\x00" + row.CampaignName + "\x00" + row.AdvertisedASIN
		byKey[key] = models.AdSpendFact{
			ReportDate:     row.ReportDate,
			CampaignName:   row.CampaignName,
			AdvertisedASIN: row.AdvertisedASIN,
			Impressions:    row.Impressions,
			Clicks:         row.Clicks,
			SpendUSD:       row.SpendUSD,
			AdSalesUSD:     row.AdSalesUSD,
			LoadID:         row.LoadID,
			LoadTS:         row.LoadTS,
		}
	}

	if removed := len(ordered) - len(byKey); removed > 0 {
		p.logger.Info("Факты рекламы: удалено %d дублей ключа", removed)
	}

	result := make([]models.AdSpendFact, 0, len(byKey))
	for _, fact := range byKey {
		result = append(result, fact)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ReportDate.Equal(result[j].ReportDate) {
			return result[i].ReportDate.Before(result[j].ReportDate)
		}
		if result[i].CampaignName != result[j].CampaignName {
			return result[i].CampaignName < result[j].CampaignName
		}
		return result[i].AdvertisedASIN < result[j].AdvertisedASIN
	})

	p.logger.Debug("Построено %d фактов рекламных расходов", len(result))
	return result, nil
}
