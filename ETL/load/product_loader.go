package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
)

// ProductLoader отвечает за загрузку данных в измерение товаров
type ProductLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger
	schema string
}

// NewProductLoader создает новый экземпляр ProductLoader
func NewProductLoader(db *sql.DB, logger *utils.ETLLogger, schema string) *ProductLoader {
	return &ProductLoader{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

// Load выполняет upsert строк измерения товаров
// Новый seller_sku вставляется, существующий обновляется;
// updated_at меняется только если описательные атрибуты действительно изменились
func (l *ProductLoader) Load(products []models.ProductDimension) error {
	if len(products) == 0 {
		l.logger.Debug("Нет данных измерения товаров для загрузки")
		return nil
	}

	startTime := time.Now()
	l.logger.Info("Начало загрузки измерения товаров (всего: %d)", len(products))

	// updated_at присваивается первым: после присваивания колонок
	// их старые значения недоступны для сравнения
	stmt, err := l.db.Prepare(fmt.Sprintf(`
		INSERT INTO %s.dim_product
		(seller_sku, asin, item_name, fulfillment_channel, status, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE
		updated_at = IF(
			asin <> VALUES(asin)
			OR NOT (item_name <=> VALUES(item_name))
			OR NOT (fulfillment_channel <=> VALUES(fulfillment_channel))
			OR NOT (status <=> VALUES(status)),
			NOW(), updated_at),
		asin = VALUES(asin),
		item_name = VALUES(item_name),
		fulfillment_channel = VALUES(fulfillment_channel),
		status = VALUES(status)
	`, l.schema))
	if err != nil {
		return fmt.Errorf("ошибка при подготовке запроса: %w", err)
	}
	defer stmt.Close()

	// Начинаем транзакцию
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	txStmt := tx.Stmt(stmt)
	defer txStmt.Close()

	processed := 0
	errors := 0

	for _, product := range products {
		_, err := txStmt.Exec(
			product.SellerSKU,
			product.ASIN,
			product.ItemName,
			product.FulfillmentChannel,
			product.Status,
		)
		if err != nil {
			l.logger.Error("Ошибка при обновлении dim_product для SKU %s: %v", product.SellerSKU, err)
			errors++
			continue
		}

		processed++

		// Логируем прогресс каждые 100 товаров
		if processed%100 == 0 {
			l.logger.Debug("Загружено %d из %d товаров...", processed, len(products))
		}
	}

	// Если были ошибки, откатываем транзакцию
	if errors > 0 {
		tx.Rollback()
		return fmt.Errorf("произошло %d ошибок при загрузке измерения товаров", errors)
	}

	// Фиксируем транзакцию
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	duration := time.Since(startTime)
	l.logger.Info("Загрузка измерения товаров завершена. Загружено записей: %d. Длительность: %v", processed, duration)

	return nil
}
