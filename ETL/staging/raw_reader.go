package staging

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/seller_analytics/ETL/utils"
)

// RawBatch содержит строки одной загрузки (load_id) из raw-таблицы
type RawBatch struct {
	LoadID     string
	LoadTS     time.Time
	SourceFile string
	Columns    []string           // имена колонок данных в порядке таблицы
	Index      map[string]int     // snake_case имя -> позиция в Rows
	Rows       [][]sql.NullString // значения колонок данных
}

// RawReader читает из raw-слоя строки самой свежей загрузки
type RawReader struct {
	db     *sql.DB
	logger *utils.ETLLogger
	schema string
}

// NewRawReader создает новый экземпляр RawReader
func NewRawReader(db *sql.DB, logger *utils.ETLLogger, schema string) *RawReader {
	return &RawReader{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

// LatestBatch возвращает строки самой свежей загрузки raw-таблицы
// Если таблица не существует или пуста, возвращается nil без ошибки:
// источник просто не участвует в текущем запуске
func (r *RawReader) LatestBatch(table string) (*RawBatch, error) {
	loadID, err := r.latestLoadID(table)
	if err != nil {
		return nil, err
	}
	if loadID == "" {
		r.logger.Debug("Raw-таблица %s.%s пуста или отсутствует", r.schema, table)
		return nil, nil
	}

	r.logger.Info("Обрабатывается load_id=%s из %s.%s", loadID, r.schema, table)

	rows, err := r.db.Query(
		fmt.Sprintf("SELECT * FROM %s.`%s` WHERE load_id = ?", r.schema, table), loadID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении raw-таблицы %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении колонок raw-таблицы %s: %w", table, err)
	}

	// Отделяем служебные колонки загрузки от колонок данных
	metaPos := map[string]int{"load_id": -1, "load_ts": -1, "source_file": -1}
	var dataColumns []string
	var dataPos []int
	for i, col := range columns {
		if _, isMeta := metaPos[col]; isMeta {
			metaPos[col] = i
			continue
		}
		dataColumns = append(dataColumns, col)
		dataPos = append(dataPos, i)
	}

	batch := &RawBatch{
		LoadID:  loadID,
		Columns: dataColumns,
		Index:   ColumnIndex(dataColumns),
	}

	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		var loadTS time.Time
		scanArgs := make([]interface{}, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if pos := metaPos["load_ts"]; pos >= 0 {
			scanArgs[pos] = &loadTS
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("ошибка при обработке строки raw-таблицы %s: %w", table, err)
		}

		dataValues := make([]sql.NullString, len(dataPos))
		for i, pos := range dataPos {
			dataValues[i] = values[pos]
		}
		batch.Rows = append(batch.Rows, dataValues)

		if batch.LoadTS.IsZero() && !loadTS.IsZero() {
			batch.LoadTS = loadTS
		}
		if batch.SourceFile == "" {
			if pos := metaPos["source_file"]; pos >= 0 && values[pos].Valid {
				batch.SourceFile = values[pos].String
			}
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка после итерации по raw-таблице %s: %w", table, err)
	}

	if len(batch.Rows) == 0 {
		return nil, fmt.Errorf("последняя загрузка raw-таблицы %s не содержит строк", table)
	}

	r.logger.Debug("Прочитано %d строк из %s.%s", len(batch.Rows), r.schema, table)
	return batch, nil
}

// latestLoadID возвращает load_id самой свежей загрузки таблицы
// Свежесть определяется по максимальному load_ts внутри каждой загрузки
func (r *RawReader) latestLoadID(table string) (string, error) {
	// Отсутствие таблицы равнозначно отсутствию данных источника
	var exists int
	err := r.db.QueryRow(`
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = ? AND table_name = ?
	`, r.schema, table).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("ошибка при проверке существования таблицы %s: %w", table, err)
	}
	if exists == 0 {
		return "", nil
	}

	var loadID string
	err = r.db.QueryRow(fmt.Sprintf(`
		SELECT load_id
		FROM %s.`+"`%s`"+`
		GROUP BY load_id
		ORDER BY MAX(load_ts) DESC
		LIMIT 1
	`, r.schema, table)).Scan(&loadID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("ошибка при определении последней загрузки таблицы %s: %w", table, err)
	}

	return loadID, nil
}
