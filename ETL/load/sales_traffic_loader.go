package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
)

// SalesTrafficFactLoader отвечает за загрузку фактов продаж и трафика
type SalesTrafficFactLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger
	schema string
}

// NewSalesTrafficFactLoader создает новый экземпляр SalesTrafficFactLoader
func NewSalesTrafficFactLoader(db *sql.DB, logger *utils.ETLLogger, schema string) *SalesTrafficFactLoader {
	return &SalesTrafficFactLoader{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

// Load заменяет партицию фактов продаж за диапазон дат батча
// Семантика delete-then-insert в одной транзакции: повторный запуск
// за те же даты не создает дублей
func (l *SalesTrafficFactLoader) Load(facts []models.SalesTrafficFact) error {
	if len(facts) == 0 {
		l.logger.Debug("Нет фактов продаж для загрузки")
		return nil
	}

	startTime := time.Now()
	l.logger.Info("Начало загрузки фактов продаж и трафика (всего: %d)", len(facts))

	// Диапазон дат батча; факты отсортированы трансформатором по дате
	minDate := facts[0].ReportDate
	maxDate := facts[len(facts)-1].ReportDate

	stmt, err := l.db.Prepare(fmt.Sprintf(`
		INSERT INTO %s.fct_sales_traffic_daily
		(report_date, child_asin, parent_asin, sessions_total, page_views_total,
		units_ordered, total_order_items, ordered_product_sales_usd,
		unit_session_percentage, load_id, load_ts, source_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
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
		"DELETE FROM %s.fct_sales_traffic_daily WHERE report_date BETWEEN ? AND ?", l.schema),
		minDate.Format("2006-01-02"), maxDate.Format("2006-01-02")); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при очистке партиции фактов продаж: %w", err)
	}

	txStmt := tx.Stmt(stmt)
	defer txStmt.Close()

	processed := 0
	errors := 0

	for _, fact := range facts {
		_, err := txStmt.Exec(
			fact.ReportDate.Format("2006-01-02"),
			fact.ChildASIN,
			fact.ParentASIN,
			fact.SessionsTotal,
			fact.PageViewsTotal,
			fact.UnitsOrdered,
			fact.TotalOrderItems,
			fact.OrderedProductSalesUSD,
			fact.UnitSessionPercentage,
			fact.LoadID,
			fact.LoadTS,
			fact.SourceFile,
		)
		if err != nil {
			l.logger.Error("Ошибка при вставке факта продаж (%s, %s): %v",
				fact.ReportDate.Format("2006-01-02"), fact.ChildASIN, err)
			errors++
			continue
		}

		processed++

		// Логируем прогресс каждые 100 фактов
		if processed%100 == 0 {
			l.logger.Debug("Загружено %d из %d фактов продаж...", processed, len(facts))
		}
	}

	// Если были ошибки, откатываем транзакцию
	if errors > 0 {
		tx.Rollback()
		return fmt.Errorf("произошло %d ошибок при загрузке фактов продаж", errors)
	}

	// Фиксируем транзакцию
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	duration := time.Since(startTime)
	l.logger.Info("Загрузка фактов продаж завершена. Загружено записей: %d (с %s по %s). Длительность: %v",
		processed, minDate.Format("2006-01-02"), maxDate.Format("2006-01-02"), duration)

	return nil
}
