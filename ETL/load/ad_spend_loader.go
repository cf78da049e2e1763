package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
)

// AdSpendFactLoader отвечает за загрузку фактов рекламных расходов
type AdSpendFactLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger
	schema string
}

// NewAdSpendFactLoader создает новый экземпляр AdSpendFactLoader
func NewAdSpendFactLoader(db *sql.DB, logger *utils.ETLLogger, schema string) *AdSpendFactLoader {
	return &AdSpendFactLoader{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

// Load заменяет партицию фактов рекламы за диапазон дат батча
// Та же семантика delete-then-insert, что и у фактов продаж
func (l *AdSpendFactLoader) Load(facts []models.AdSpendFact) error {
	if len(facts) == 0 {
		l.logger.Debug("Нет фактов рекламы для загрузки")
		return nil
	}

	startTime := time.Now()
	l.logger.Info("Начало загрузки фактов рекламных расходов (всего: %d)", len(facts))

	minDate := facts[0].ReportDate
	maxDate := facts[len(facts)-1].ReportDate

	stmt, err := l.db.Prepare(fmt.Sprintf(`
		INSERT INTO %s.fct_ad_spend_daily
		(report_date, campaign_name, advertised_asin, impressions, clicks,
		spend_usd, ad_sales_usd, load_id, load_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
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

	// Очищаем партицию за диапазон дат батча
	if _, err := tx.Exec(fmt.Sprintf(
		"DELETE FROM %s.fct_ad_spend_daily WHERE report_date BETWEEN ? AND ?", l.schema),
		minDate.Format("2006-01-02"), maxDate.Format("2006-01-02")); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при очистке партиции фактов рекламы: %w", err)
	}

	txStmt := tx.Stmt(stmt)
	defer txStmt.Close()

	processed := 0
	errors := 0

	for _, fact := range facts {
		_, err := txStmt.Exec(
			fact.ReportDate.Format("2006-01-02"),
			fact.CampaignName,
			fact.AdvertisedASIN,
			fact.Impressions,
			fact.Clicks,
			fact.SpendUSD,
			fact.AdSalesUSD,
			fact.LoadID,
			fact.LoadTS,
		)
		if err != nil {
			l.logger.Error("Ошибка при вставке факта рекламы (%s, %s): %v",
				fact.ReportDate.Format("2006-01-02"), fact.CampaignName, err)
			errors++
			continue
		}

		processed++
	}

	// Если были ошибки, откатываем транзакцию
	if errors > 0 {
		tx.Rollback()
		return fmt.Errorf("произошло %d ошибок при загрузке фактов рекламы", errors)
	}

	// Фиксируем транзакцию
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	duration := time.Since(startTime)
	l.logger.Info("Загрузка фактов рекламы завершена. Загружено записей: %d. Длительность: %v", processed, duration)

	return nil
}
