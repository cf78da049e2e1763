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

// StagingCatalogTable задает имя staging-таблицы снимка каталога
const StagingCatalogTable = "stg_amazon_catalog_listings_sku_asin_snapshot"

// CatalogStage очищает и стандартизирует снимок каталога (SKU/ASIN)
type CatalogStage struct {
	db     *sql.DB
	reader *RawReader
	logger *utils.ETLLogger
	schema string
}

// NewCatalogStage создает новый экземпляр CatalogStage
func NewCatalogStage(db *sql.DB, reader *RawReader, logger *utils.ETLLogger, schema string) *CatalogStage {
	return &CatalogStage{
		db:     db,
		reader: reader,
		logger: logger,
		schema: schema,
	}
}

// Process читает последнюю загрузку каталога из raw-слоя, очищает ее
// и заменяет staging-снимок
func (s *CatalogStage) Process() ([]models.CatalogStagingRow, error) {
	batch, err := s.reader.LatestBatch(ingest.RawCatalogTable)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		s.logger.Info("Снимок каталога отсутствует в raw-слое, источник пропущен")
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

// transform превращает сырые строки каталога в типизированные staging-строки
func (s *CatalogStage) transform(batch *RawBatch) ([]models.CatalogStagingRow, error) {
	skuPos, skuOK := FindColumn(batch.Index, "seller_sku", "sku", "merchant_sku")
	asinPos, asinOK := FindColumn(batch.Index, "asin1", "asin", "asin_1")
	if !skuOK || !asinOK {
		return nil, fmt.Errorf("в каталоге не найдены обязательные колонки SKU/ASIN, доступны: %s",
			strings.Join(batch.Columns, ", "))
	}

	titlePos, hasTitle := FindColumn(batch.Index, "item_name", "product_name", "title")
	statusPos, hasStatus := FindColumn(batch.Index, "status", "listing_status")
	fcPos, hasFC := FindColumn(batch.Index, "fulfillment_channel", "fulfillment")

	var result []models.CatalogStagingRow
	seen := make(map[string]bool)
	dropped := 0
	duplicates := 0

	for _, raw := range batch.Rows {
		sku := NormalizeText(nullString(raw, skuPos))
		asin := NormalizeText(nullString(raw, asinPos))

		// Строки без бизнес-ключа исключаются из снимка
		if !sku.Valid || !asin.Valid {
			dropped++
			continue
		}

		key := sku.String + "\x00" + asin.String
		if seen[key] {
			duplicates++
			continue
		}
		seen[key] = true

		row := models.CatalogStagingRow{
			SellerSKU:  sku.String,
			ASIN:       asin.String,
			LoadID:     batch.LoadID,
			LoadTS:     batch.LoadTS,
			SourceFile: batch.SourceFile,
		}
		if hasTitle {
			row.ItemName = NormalizeText(nullString(raw, titlePos))
		}
		if hasStatus {
			row.Status = NormalizeText(nullString(raw, statusPos))
		}
		if hasFC {
			row.FulfillmentChannel = NormalizeText(nullString(raw, fcPos))
		}

		result = append(result, row)
	}

	if dropped > 0 {
		s.logger.Info("Каталог: отброшено %d строк без SKU/ASIN", dropped)
	}
	if duplicates > 0 {
		s.logger.Info("Каталог: удалено %d дублирующихся строк", duplicates)
	}

	return result, nil
}

// writeSnapshot заменяет staging-снимок каталога подготовленными строками
func (s *CatalogStage) writeSnapshot(rows []models.CatalogStagingRow) error {
	startTime := time.Now()

	createQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s.%s (
		seller_sku VARCHAR(64) NOT NULL,
		asin VARCHAR(16) NOT NULL,
		item_name TEXT NULL,
		fulfillment_channel VARCHAR(32) NULL,
		status VARCHAR(32) NULL,
		load_id CHAR(36) NOT NULL,
		load_ts TIMESTAMP(6) NOT NULL,
		source_file VARCHAR(512) NOT NULL,
		INDEX idx_seller_sku (seller_sku)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
	`, s.schema, StagingCatalogTable)
	if _, err := s.db.Exec(createQuery); err != nil {
		return fmt.Errorf("ошибка при создании staging-таблицы каталога: %w", err)
	}

	stmt, err := s.db.Prepare(fmt.Sprintf(`
		INSERT INTO %s.%s
		(seller_sku, asin, item_name, fulfillment_channel, status, load_id, load_ts, source_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.schema, StagingCatalogTable))
	if err != nil {
		return fmt.Errorf("ошибка при подготовке запроса: %w", err)
	}
	defer stmt.Close()

	// Начинаем транзакцию: снимок заменяется целиком
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s.%s", s.schema, StagingCatalogTable)); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при очистке staging-таблицы каталога: %w", err)
	}

	txStmt := tx.Stmt(stmt)
	defer txStmt.Close()

	for _, row := range rows {
		if _, err := txStmt.Exec(
			row.SellerSKU,
			row.ASIN,
			row.ItemName,
			row.FulfillmentChannel,
			row.Status,
			row.LoadID,
			row.LoadTS,
			row.SourceFile,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("ошибка при вставке staging-строки каталога (sku=%s): %w", row.SellerSKU, err)
		}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	s.logger.Info("Staging-снимок каталога обновлен: %d строк. Длительность: %v", len(rows), time.Since(startTime))
	return nil
}

// nullString безопасно возвращает значение колонки строки
func nullString(row []sql.NullString, pos int) string {
	if pos < 0 || pos >= len(row) || !row[pos].Valid {
		return ""
	}
	return row[pos].String
}
