package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
)

// DateLoader отвечает за загрузку данных в измерение дат
type DateLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger
	schema string
}

// NewDateLoader создает новый экземпляр DateLoader
func NewDateLoader(db *sql.DB, logger *utils.ETLLogger, schema string) *DateLoader {
	return &DateLoader{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

// Load выполняет upsert строк измерения дат
// Запись даты неизменна после создания, поэтому обновление ничего не меняет:
// важно лишь, чтобы каждая дата фактов существовала в измерении
func (l *DateLoader) Load(dates []models.DateDimension) error {
	if len(dates) == 0 {
		l.logger.Debug("Нет данных измерения дат для загрузки")
		return nil
	}

	startTime := time.Now()
	l.logger.Info("Начало загрузки измерения дат (всего: %d)", len(dates))

	stmt, err := l.db.Prepare(fmt.Sprintf(`
		INSERT INTO %s.dim_date
		(full_date, year, quarter, month, month_name, week_of_year,
		day_of_month, day_of_week, day_name, is_weekend)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE full_date = full_date
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

	for _, date := range dates {
		_, err := txStmt.Exec(
			date.FullDate.Format("2006-01-02"),
			date.Year,
			date.Quarter,
			date.Month,
			date.MonthName,
			date.WeekOfYear,
			date.DayOfMonth,
			date.DayOfWeek,
			date.DayName,
			date.IsWeekend,
		)
		if err != nil {
			l.logger.Error("Ошибка при вставке даты %s в dim_date: %v", date.FullDate.Format("2006-01-02"), err)
			errors++
			continue
		}

		processed++
	}

	// Если были ошибки, откатываем транзакцию
	if errors > 0 {
		tx.Rollback()
		return fmt.Errorf("произошло %d ошибок при загрузке измерения дат", errors)
	}

	// Фиксируем транзакцию
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	duration := time.Since(startTime)
	l.logger.Info("Загрузка измерения дат завершена. Загружено записей: %d. Длительность: %v", processed, duration)

	return nil
}
