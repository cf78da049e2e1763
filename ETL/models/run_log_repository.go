package models

import (
	"database/sql"
	"fmt"
	"time"
)

// MySQLETLLogRepository реализация ETLLogRepository для MySQL
type MySQLETLLogRepository struct {
	db     *sql.DB
	schema string
}

// NewMySQLETLLogRepository создает новый экземпляр MySQLETLLogRepository
// schema задает имя базы данных warehouse-слоя, в которой живет журнал запусков
func NewMySQLETLLogRepository(db *sql.DB, schema string) *MySQLETLLogRepository {
	return &MySQLETLLogRepository{
		db:     db,
		schema: schema,
	}
}

// CreateETLLogTable создает таблицу для журнала запусков ETL, если она не существует
func (r *MySQLETLLogRepository) CreateETLLogTable() error {
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s.etl_run_log (
		id INT AUTO_INCREMENT PRIMARY KEY,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NULL,
		status ENUM('success', 'failed', 'in_progress') NOT NULL DEFAULT 'in_progress',
		files_ingested INT DEFAULT 0,
		rows_staged INT DEFAULT 0,
		dim_rows_loaded INT DEFAULT 0,
		fact_rows_loaded INT DEFAULT 0,
		error_message TEXT,
		execution_time_seconds FLOAT
	);
	`, r.schema)

	_, err := r.db.Exec(query)
	if err != nil {
		return fmt.Errorf("ошибка при создании таблицы etl_run_log: %w", err)
	}

	return nil
}

// CreateLogEntry создает новую запись о запуске ETL
func (r *MySQLETLLogRepository) CreateLogEntry(startTime time.Time) (int, error) {
	query := fmt.Sprintf(`
	INSERT INTO %s.etl_run_log (start_time, status)
	VALUES (?, 'in_progress')
	`, r.schema)

	result, err := r.db.Exec(query, startTime)
	if err != nil {
		return 0, fmt.Errorf("ошибка при создании записи о запуске ETL: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ошибка при получении ID созданной записи: %w", err)
	}

	return int(id), nil
}

// UpdateLogEntrySuccess обновляет запись при успешном завершении ETL
func (r *MySQLETLLogRepository) UpdateLogEntrySuccess(
	id int,
	endTime time.Time,
	filesIngested,
	rowsStaged,
	dimRowsLoaded,
	factRowsLoaded int) error {

	// Рассчитываем время выполнения в секундах
	var startTime time.Time
	err := r.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s.etl_run_log WHERE id = ?", r.schema), id).Scan(&startTime)
	if err != nil {
		return fmt.Errorf("ошибка при получении времени начала ETL: %w", err)
	}

	executionTime := endTime.Sub(startTime).Seconds()

	// Обновляем запись
	query := fmt.Sprintf(`
	UPDATE %s.etl_run_log
	SET
		end_time = ?,
		status = 'success',
		files_ingested = ?,
		rows_staged = ?,
		dim_rows_loaded = ?,
		fact_rows_loaded = ?,
		execution_time_seconds = ?
	WHERE id = ?
	`, r.schema)

	_, err = r.db.Exec(query, endTime, filesIngested, rowsStaged, dimRowsLoaded, factRowsLoaded, executionTime, id)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске ETL: %w", err)
	}

	return nil
}

// UpdateLogEntryFailure обновляет запись при неудачном завершении ETL
func (r *MySQLETLLogRepository) UpdateLogEntryFailure(id int, endTime time.Time, errorMessage string) error {
	// Рассчитываем время выполнения в секундах
	var startTime time.Time
	err := r.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s.etl_run_log WHERE id = ?", r.schema), id).Scan(&startTime)
	if err != nil {
		return fmt.Errorf("ошибка при получении времени начала ETL: %w", err)
	}

	executionTime := endTime.Sub(startTime).Seconds()

	query := fmt.Sprintf(`
	UPDATE %s.etl_run_log
	SET
		end_time = ?,
		status = 'failed',
		error_message = ?,
		execution_time_seconds = ?
	WHERE id = ?
	`, r.schema)

	_, err = r.db.Exec(query, endTime, errorMessage, executionTime, id)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске ETL: %w", err)
	}

	return nil
}

// GetLastSuccessfulRun получает информацию о последнем успешном запуске ETL
func (r *MySQLETLLogRepository) GetLastSuccessfulRun() (*ETLRunLog, error) {
	query := fmt.Sprintf(`
	SELECT id, start_time, end_time, status, files_ingested, rows_staged,
		dim_rows_loaded, fact_rows_loaded, execution_time_seconds
	FROM %s.etl_run_log
	WHERE status = 'success'
	ORDER BY id DESC
	LIMIT 1
	`, r.schema)

	var runLog ETLRunLog
	err := r.db.QueryRow(query).Scan(
		&runLog.ID,
		&runLog.StartTime,
		&runLog.EndTime,
		&runLog.Status,
		&runLog.FilesIngested,
		&runLog.RowsStaged,
		&runLog.DimRowsLoaded,
		&runLog.FactRowsLoaded,
		&runLog.ExecutionTimeSeconds,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			// Успешных запусков еще не было
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при получении последнего успешного запуска: %w", err)
	}

	return &runLog, nil
}

// GetETLRunStats получает статистику о запусках ETL за указанное количество дней
func (r *MySQLETLLogRepository) GetETLRunStats(days int) ([]ETLRunLog, error) {
	query := fmt.Sprintf(`
	SELECT id, start_time, end_time, status, files_ingested, rows_staged,
		dim_rows_loaded, fact_rows_loaded, IFNULL(error_message, ''),
		IFNULL(execution_time_seconds, 0)
	FROM %s.etl_run_log
	WHERE start_time >= DATE_SUB(NOW(), INTERVAL ? DAY)
	ORDER BY id DESC
	`, r.schema)

	rows, err := r.db.Query(query, days)
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе статистики запусков ETL: %w", err)
	}
	defer rows.Close()

	var stats []ETLRunLog
	for rows.Next() {
		var runLog ETLRunLog
		var endTime sql.NullTime
		if err := rows.Scan(
			&runLog.ID,
			&runLog.StartTime,
			&endTime,
			&runLog.Status,
			&runLog.FilesIngested,
			&runLog.RowsStaged,
			&runLog.DimRowsLoaded,
			&runLog.FactRowsLoaded,
			&runLog.ErrorMessage,
			&runLog.ExecutionTimeSeconds,
		); err != nil {
			return nil, fmt.Errorf("ошибка при обработке записи журнала ETL: %w", err)
		}
		if endTime.Valid {
			runLog.EndTime = endTime.Time
		}
		stats = append(stats, runLog)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка после итерации по журналу ETL: %w", err)
	}

	return stats, nil
}
