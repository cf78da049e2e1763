package staging

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/LilVoxy/seller_analytics/ETL/ingest"
	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
)

// StagingAdSpendTable задает имя staging-таблицы рекламных расходов
const StagingAdSpendTable = "stg_amazon_ad_spend_sponsored_products_daily"

// AdSpendStage очищает и типизирует рекламный отчет Sponsored Products
type AdSpendStage struct {
	db     *sql.DB
	reader *RawReader
	logger *utils.ETLLogger
	schema string
}

// NewAdSpendStage создает новый экземпляр AdSpendStage
func NewAdSpendStage(db *sql.DB, reader *RawReader, logger *utils.ETLLogger, schema string) *AdSpendStage {
	return &AdSpendStage{
		db:     db,
		reader: reader,
		logger: logger,
		schema: schema,
	}
}

// Process читает последнюю загрузку рекламного отчета, очищает ее
// и заменяет staging-снимок
func (s *AdSpendStage) Process() ([]models.AdSpendStagingRow, error) {
	batch, err := s.reader.LatestBatch(ingest.RawAdSpendTable)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		s.logger.Info("Рекламный отчет отсутствует в raw-слое, источник пропущен")
		return nil, nil
	}

	rows, err := s.transform(batch)
	if err != nil {
		return nil, err
	}

	if err := s.writeSnapshot(rows); err != nil {
		return nil, err
	}

	return rows, nil
}

// transform превращает сырые строки рекламного отчета в типизированные staging-строки
func (s *AdSpendStage) transform(batch *RawBatch) ([]models.AdSpendStagingRow, error) {
	datePos, dateOK := FindColumn(batch.Index, "date", "report_date")
	campaignPos, campaignOK := FindColumn(batch.Index, "campaign_name", "campaign")
	asinPos, asinOK := FindColumn(batch.Index, "advertised_asin", "asin")
	if !dateOK || !campaignOK || !asinOK {
		return nil, fmt.Errorf("в рекламном отчете не найдены обязательные колонки Date/Campaign/ASIN, доступны: %s",
			strings.Join(batch.Columns, ", "))
	}

	impressionsPos, hasImpressions := FindColumn(batch.Index, "impressions")
	clicksPos, hasClicks := FindColumn(batch.Index, "clicks")
	spendPos, hasSpend := FindColumn(batch.Index, "spend", "spend_usd", "cost")
	salesPos, hasSales := FindColumn(batch.Index, "ad_sales_usd", "7_day_total_sales", "sales")

	var result []models.AdSpendStagingRow
	position := make(map[string]int)
	dropped := 0
	duplicates := 0

	for i, raw := range batch.Rows {
		dateText := NormalizeText(nullString(raw, datePos))
		campaign := NormalizeText(nullString(raw, campaignPos))
		asin := NormalizeText(nullString(raw, asinPos))

		// Строки без бизнес-ключа исключаются из снимка
		if !dateText.Valid || !campaign.Valid || !asin.Valid {
			dropped++
			continue
		}

		reportDate, err := ParseReportDate(dateText.String)
		if err != nil {
			return nil, fmt.Errorf("строка %d рекламного отчета: %w", i+1, err)
		}

		row := models.AdSpendStagingRow{
			ReportDate:     reportDate,
			CampaignName:   campaign.String,
			AdvertisedASIN: asin.String,
			LoadID:         batch.LoadID,
			LoadTS:         batch.LoadTS,
			SourceFile:     batch.SourceFile,
		}
		if hasImpressions {
			if row.Impressions, err = ParseCount(nullString(raw, impressionsPos)); err != nil {
				return nil, fmt.Errorf("строка %d рекламного отчета (impressions): %w", i+1, err)
			}
		}
		if hasClicks {
			if row.Clicks, err = ParseCount(nullString(raw, clicksPos)); err != nil {
				return nil, fmt.Errorf("строка %d рекламного отчета (clicks): %w", i+1, err)
			}
		}
		if hasSpend {
			if row.SpendUSD, err = ParseMoney(nullString(raw, spendPos)); err != nil {
				return nil, fmt.Errorf("строка %d рекламного отчета (spend): %w", i+1, err)
			}
		}
		if hasSales {
			if row.AdSalesUSD, err = ParseMoney(nullString(raw, salesPos)); err != nil {
				return nil, fmt.Errorf("строка %d рекламного отчета (sales): %w", i+1, err)
			}
		}

		// Последнее вхождение ключа побеждает
		key := reportDate.Format("2006-01-02") + "\x00" + campaign.String + "\x00" + asin.String
		if pos, exists := position[key]; exists {
			result[pos] = row
			duplicates++
			continue
		}
		position[key] = len(result)
		result = append(result, row)
	}

	if dropped > 0 {
		s.logger.Info("Рекламный отчет: отброшено %d строк без ключа", dropped)
	}
	if duplicates > 0 {
		s.logger.Info("Рекламный отчет: схлопнуто %d дублирующихся строк", duplicates)
	}

	return result, nil
}

// writeSnapshot заменяет staging-снимок рекламных расходов подготовленными строками
func (s *AdSpendStage) writeSnapshot(rows []models.AdSpendStagingRow) error {
	startTime := time.Now()

	createQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s.%s (
		report_date DATE NOT NULL,
		campaign_name VARCHAR(255) NOT NULL,
		advertised_asin VARCHAR(16) NOT NULL,
		impressions INT NOT NULL DEFAULT 0,
		clicks INT NOT NULL DEFAULT 0,
		spend_usd DECIMAL(14,2) NOT NULL DEFAULT 0,
		ad_sales_usd DECIMAL(14,2) NOT NULL DEFAULT 0,
		load_id CHAR(36) NOT NULL,
		load_ts TIMESTAMP(6) NOT NULL,
		source_file VARCHAR(512) NOT NULL,
		INDEX idx_report_date (report_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
	`, s.schema, StagingAdSpendTable)
	if _, err := s.db.Exec(createQuery); err != nil {
		return fmt.Errorf("ошибка при создании staging-таблицы рекламы: %w", err)
	}

	stmt, err := s.db.Prepare(fmt.Sprintf(`
		INSERT INTO %s.%s
		(report_date, campaign_name, advertised_asin, impressions, clicks,
		spend_usd, ad_sales_usd, load_id, load_ts, source_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.schema, StagingAdSpendTable))
	if err != nil {
		return fmt.Errorf("ошибка при подготовке запроса: %w", err)
	}
	defer stmt.Close()

	// Начинаем транзакцию: снимок заменяется целиком
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s.%s", s.schema, StagingAdSpendTable)); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при очистке staging-таблицы рекламы: %w", err)
	}

	txStmt := tx.Stmt(stmt)
	defer txStmt.Close()

	for _, row := range rows {
		if _, err := txStmt.Exec(
			row.ReportDate.Format("2006-01-02"),
			row.CampaignName,
			row.AdvertisedASIN,
			row.Impressions,
			row.Clicks,
			row.SpendUSD,
			row.AdSalesUSD,
			row.LoadID,
			row.LoadTS,
			row.SourceFile,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("ошибка при вставке staging-строки рекламы (campaign=%s): %w", row.CampaignName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	s.logger.Info("Staging-снимок рекламных расходов обновлен: %d строк. Длительность: %v", len(rows), time.Since(startTime))
	return nil
}
