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

// StagingSalesTrafficTable задает имя staging-таблицы продаж и трафика по дочернему ASIN
const StagingSalesTrafficTable = "stg_amazon_sales_traffic_child_asin_daily"

// SalesTrafficStage очищает и типизирует отчет о продажах и трафике
type SalesTrafficStage struct {
	db     *sql.DB
	reader *RawReader
	logger *utils.ETLLogger
	schema string
}

// NewSalesTrafficStage создает новый экземпляр SalesTrafficStage
func NewSalesTrafficStage(db *sql.DB, reader *RawReader, logger *utils.ETLLogger, schema string) *SalesTrafficStage {
	return &SalesTrafficStage{
		db:     db,
		reader: reader,
		logger: logger,
		schema: schema,
	}
}

// Process читает последнюю загрузку отчета о продажах и трафике,
// очищает ее и заменяет staging-снимок
func (s *SalesTrafficStage) Process() ([]models.SalesTrafficStagingRow, error) {
	batch, err := s.reader.LatestBatch(ingest.RawSalesTrafficTable)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		s.logger.Info("Отчет о продажах и трафике отсутствует в raw-слое, источник пропущен")
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

// transform превращает сырые строки отчета в типизированные staging-строки
// Дубликаты бизнес-ключа (date, child_asin) схлопываются: остается последняя строка
func (s *SalesTrafficStage) transform(batch *RawBatch) ([]models.SalesTrafficStagingRow, error) {
	datePos, dateOK := FindColumn(batch.Index, "date", "report_date")
	asinPos, asinOK := FindColumn(batch.Index, "child_asin", "asin", "asin1")
	if !dateOK || !asinOK {
		return nil, fmt.Errorf("в отчете о продажах не найдены обязательные колонки Date/(Child) ASIN, доступны: %s",
			strings.Join(batch.Columns, ", "))
	}

	parentPos, hasParent := FindColumn(batch.Index, "parent_asin")
	sessionsPos, hasSessions := FindColumn(batch.Index, "sessions_total", "sessions")
	pageViewsPos, hasPageViews := FindColumn(batch.Index, "page_views_total", "page_views")
	unitsPos, hasUnits := FindColumn(batch.Index, "units_ordered")
	orderItemsPos, hasOrderItems := FindColumn(batch.Index, "total_order_items")
	salesPos, hasSales := FindColumn(batch.Index, "ordered_product_sales_usd", "ordered_product_sales")
	uspPos, hasUSP := FindColumn(batch.Index, "unit_session_percentage")

	var result []models.SalesTrafficStagingRow
	position := make(map[string]int)
	dropped := 0
	duplicates := 0

	for i, raw := range batch.Rows {
		asin := NormalizeText(nullString(raw, asinPos))
		dateText := NormalizeText(nullString(raw, datePos))

		// Строки без бизнес-ключа исключаются из снимка
		if !asin.Valid || !dateText.Valid {
			dropped++
			continue
		}

		reportDate, err := ParseReportDate(dateText.String)
		if err != nil {
			return nil, fmt.Errorf("строка %d отчета о продажах: %w", i+1, err)
		}

		row := models.SalesTrafficStagingRow{
			ReportDate: reportDate,
			ChildASIN:  asin.String,
			LoadID:     batch.LoadID,
			LoadTS:     batch.LoadTS,
			SourceFile: batch.SourceFile,
		}
		if hasParent {
			row.ParentASIN = NormalizeText(nullString(raw, parentPos))
		}
		if hasSessions {
			if row.SessionsTotal, err = ParseCount(nullString(raw, sessionsPos)); err != nil {
				return nil, fmt.Errorf("строка %d отчета о продажах (sessions): %w", i+1, err)
			}
		}
		if hasPageViews {
			if row.PageViewsTotal, err = ParseCount(nullString(raw, pageViewsPos)); err != nil {
				return nil, fmt.Errorf("строка %d отчета о продажах (page views): %w", i+1, err)
			}
		}
		if hasUnits {
			if row.UnitsOrdered, err = ParseCount(nullString(raw, unitsPos)); err != nil {
				return nil, fmt.Errorf("строка %d отчета о продажах (units): %w", i+1, err)
			}
		}
		if hasOrderItems {
			if row.TotalOrderItems, err = ParseCount(nullString(raw, orderItemsPos)); err != nil {
				return nil, fmt.Errorf("строка %d отчета о продажах (order items): %w", i+1, err)
			}
		}
		if hasSales {
			if row.OrderedProductSalesUSD, err = ParseMoney(nullString(raw, salesPos)); err != nil {
				return nil, fmt.Errorf("строка %d отчета о продажах (sales): %w", i+1, err)
			}
		}
		if hasUSP {
			if row.UnitSessionPercentage, err = ParsePercent(nullString(raw, uspPos)); err != nil {
				return nil, fmt.Errorf("строка %d отчета о продажах (unit session %%): %w", i+1, err)
			}
		}

		// Последнее вхождение ключа побеждает
		key := reportDate.Format("2006-01-02") + "\x00" + asin.String
		if pos, exists := position[key]; exists {
			result[pos] = row
			duplicates++
			continue
		}
		position[key] = len(result)
		result = append(result, row)
	}

	if dropped > 0 {
		s.logger.Info("Продажи и трафик: отброшено %d строк без ключа", dropped)
	}
	if duplicates > 0 {
		s.logger.Info("Продажи и трафик: схлопнуто %d дублирующихся строк (date, child_asin)", duplicates)
	}

	return result, nil
}

// writeSnapshot заменяет staging-снимок продаж и трафика подготовленными строками
func (s *SalesTrafficStage) writeSnapshot(rows []models.SalesTrafficStagingRow) error {
	startTime := time.Now()

	createQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s.%s (
		report_date DATE NOT NULL,
		child_asin VARCHAR(16) NOT NULL,
		parent_asin VARCHAR(16) NULL,
		sessions_total INT NOT NULL DEFAULT 0,
		page_views_total INT NOT NULL DEFAULT 0,
		units_ordered INT NOT NULL DEFAULT 0,
		total_order_items INT NOT NULL DEFAULT 0,
		ordered_product_sales_usd DECIMAL(14,2) NOT NULL DEFAULT 0,
		unit_session_percentage DECIMAL(7,2) NOT NULL DEFAULT 0,
		load_id CHAR(36) NOT NULL,
		load_ts TIMESTAMP(6) NOT NULL,
		source_file VARCHAR(512) NOT NULL,
		INDEX idx_report_date (report_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
	`, s.schema, StagingSalesTrafficTable)
	if _, err := s.db.Exec(createQuery); err != nil {
		return fmt.Errorf("ошибка при создании staging-таблицы продаж: %w", err)
	}

	stmt, err := s.db.Prepare(fmt.Sprintf(`
		INSERT INTO %s.%s
		(report_date, child_asin, parent_asin, sessions_total, page_views_total,
		units_ordered, total_order_items, ordered_product_sales_usd,
		unit_session_percentage, load_id, load_ts, source_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.schema, StagingSalesTrafficTable))
	if err != nil {
		return fmt.Errorf("ошибка при подготовке запроса: %w", err)
	}
	defer stmt.Close()

	// Начинаем транзакцию: снимок заменяется целиком
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s.%s", s.schema, StagingSalesTrafficTable)); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при очистке staging-таблицы продаж: %w", err)
	}

	txStmt := tx.Stmt(stmt)
	defer txStmt.Close()

	for _, row := range rows {
		if _, err := txStmt.Exec(
			row.ReportDate.Format("2006-01-02"),
			row.ChildASIN,
			row.ParentASIN,
			row.SessionsTotal,
			row.PageViewsTotal,
			row.UnitsOrdered,
			row.TotalOrderItems,
			row.OrderedProductSalesUSD,
			row.UnitSessionPercentage,
			row.LoadID,
			row.LoadTS,
			row.SourceFile,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("ошибка при вставке staging-строки продаж (asin=%s): %w", row.ChildASIN, err)
		}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	s.logger.Info("Staging-снимок продаж и трафика обновлен: %d строк. Длительность: %v", len(rows), time.Since(startTime))
	return nil
}
