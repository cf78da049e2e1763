package ingest

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
	"github.com/google/uuid"
)

// RawLoader загружает файлы отчетов в raw-таблицы без бизнес-трансформаций
// Единственное изменение данных состоит в добавлении колонок load_id / load_ts / source_file
type RawLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger
	schema string
}

// NewRawLoader создает новый экземпляр RawLoader
func NewRawLoader(db *sql.DB, logger *utils.ETLLogger, schema string) *RawLoader {
	return &RawLoader{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

// LoadLatest загружает самый свежий файл отчета из директории dir в raw-таблицу table
// Файл загружается целиком или не загружается вовсе: любая невалидная строка
// или несовпадение колонок с уже существующей таблицей прерывают загрузку
func (l *RawLoader) LoadLatest(dir, table string) (*models.RawLoad, error) {
	path, err := LatestReportFile(dir)
	if err != nil {
		return nil, err
	}
	filename := filepath.Base(path)
	l.logger.Debug("Самый свежий файл отчета в %s: %s", dir, filename)

	header, rows, err := ReadReportFile(path)
	if err != nil {
		return nil, err
	}

	if err := validateHeader(header); err != nil {
		return nil, fmt.Errorf("файл %s: %w", filename, err)
	}

	if err := l.ensureRawTable(table, header); err != nil {
		return nil, err
	}

	load := &models.RawLoad{
		LoadID:     uuid.NewString(),
		LoadTS:     time.Now().UTC(),
		SourceFile: filename,
		SourcePath: path,
		Table:      table,
		Columns:    header,
	}

	if err := l.insertRows(load, header, rows); err != nil {
		return nil, err
	}

	l.logger.Info("Загружен файл %s в %s.%s: %d строк (load_id=%s)",
		filename, l.schema, table, load.RowsLoaded, load.LoadID)
	return load, nil
}

// validateHeader проверяет, что заголовок пригоден для создания raw-таблицы
func validateHeader(header []string) error {
	seen := make(map[string]bool, len(header))
	for _, col := range header {
		name := strings.TrimSpace(col)
		if name == "" {
			return fmt.Errorf("заголовок содержит пустое имя колонки")
		}
		if seen[name] {
			return fmt.Errorf("заголовок содержит дублирующуюся колонку %q", name)
		}
		seen[name] = true
	}
	return nil
}

// ensureRawTable создает raw-таблицу по заголовку файла или проверяет,
// что существующая таблица совпадает с ним по набору колонок
func (l *RawLoader) ensureRawTable(table string, header []string) error {
	existing, err := l.tableColumns(table)
	if err != nil {
		return err
	}

	// Таблицы еще нет: создаем по заголовку файла, все колонки текстовые
	if len(existing) == 0 {
		columns := make([]string, 0, len(header)+3)
		for _, col := range header {
			columns = append(columns, fmt.Sprintf("%s TEXT NULL", quoteIdent(col)))
		}
		columns = append(columns,
			"load_id CHAR(36) NOT NULL",
			"load_ts TIMESTAMP(6) NOT NULL",
			"source_file VARCHAR(512) NOT NULL",
			"INDEX idx_load_id (load_id)",
		)

		query := fmt.Sprintf("CREATE TABLE %s.%s (\n\t%s\n) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
			l.schema, quoteIdent(table), strings.Join(columns, ",\n\t"))
		if _, err := l.db.Exec(query); err != nil {
			return fmt.Errorf("ошибка при создании raw-таблицы %s: %w", table, err)
		}

		l.logger.Info("Создана raw-таблица %s.%s (%d колонок)", l.schema, table, len(header))
		return nil
	}

	// Таблица есть, схема файла обязана совпадать с ней
	dataColumns := make(map[string]bool, len(existing))
	for _, col := range existing {
		if col == "load_id" || col == "load_ts" || col == "source_file" {
			continue
		}
		dataColumns[col] = true
	}

	if len(dataColumns) != len(header) {
		return fmt.Errorf("файл не соответствует схеме таблицы %s.%s: в таблице %d колонок данных, в файле %d",
			l.schema, table, len(dataColumns), len(header))
	}
	for _, col := range header {
		if !dataColumns[col] {
			return fmt.Errorf("файл не соответствует схеме таблицы %s.%s: неизвестная колонка %q",
				l.schema, table, col)
		}
	}

	return nil
}

// tableColumns возвращает список колонок таблицы (пустой список, если таблицы нет)
func (l *RawLoader) tableColumns(table string) ([]string, error) {
	rows, err := l.db.Query(`
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`, l.schema, table)
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе колонок таблицы %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("ошибка при обработке колонок таблицы %s: %w", table, err)
		}
		columns = append(columns, name)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка после итерации по колонкам таблицы %s: %w", table, err)
	}

	return columns, nil
}

// insertRows вставляет строки файла в raw-таблицу в одной транзакции
func (l *RawLoader) insertRows(load *models.RawLoad, header []string, rows [][]string) error {
	quoted := make([]string, 0, len(header)+3)
	for _, col := range header {
		quoted = append(quoted, quoteIdent(col))
	}
	quoted = append(quoted, "load_id", "load_ts", "source_file")

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(quoted)), ", ")
	query := fmt.Sprintf("INSERT INTO %s.%s (%s) VALUES (%s)",
		l.schema, quoteIdent(load.Table), strings.Join(quoted, ", "), placeholders)

	stmt, err := l.db.Prepare(query)
	if err != nil {
		return fmt.Errorf("ошибка при подготовке запроса вставки в %s: %w", load.Table, err)
	}
	defer stmt.Close()

	// Начинаем транзакцию
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	txStmt := tx.Stmt(stmt)
	defer txStmt.Close()

	for i, row := range rows {
		args := make([]interface{}, 0, len(quoted))
		for _, value := range row {
			args = append(args, value)
		}
		args = append(args, load.LoadID, load.LoadTS, load.SourceFile)

		if _, err := txStmt.Exec(args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("ошибка при вставке строки %d файла %s: %w", i+1, load.SourceFile, err)
		}

		// Логируем прогресс каждые 1000 строк
		if (i+1)%1000 == 0 {
			l.logger.Debug("Вставлено %d из %d сырых строк...", i+1, len(rows))
		}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	load.RowsLoaded = len(rows)
	return nil
}

// quoteIdent экранирует имя колонки или таблицы для MySQL
// Имена колонок приходят из заголовков внешних отчетов и могут
// содержать пробелы и прочие небезопасные символы
func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
