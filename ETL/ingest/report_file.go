package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoReportFiles возвращается, когда в директории источника нет файлов отчетов
var ErrNoReportFiles = errors.New("файлы отчетов не найдены")

// utf8BOM содержит маркер порядка байтов, который Amazon добавляет в начало выгрузок
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LatestReportFile возвращает путь к самому свежему файлу отчета в директории
// Отчетом считается файл с расширением .txt (tab-delimited) или .csv
func LatestReportFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("директория %s: %w", dir, ErrNoReportFiles)
		}
		return "", fmt.Errorf("ошибка при чтении директории %s: %w", dir, err)
	}

	var latest string
	var latestMod int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".csv" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return "", fmt.Errorf("ошибка при получении информации о файле %s: %w", entry.Name(), err)
		}
		if latest == "" || info.ModTime().UnixNano() > latestMod {
			latest = filepath.Join(dir, entry.Name())
			latestMod = info.ModTime().UnixNano()
		}
	}

	if latest == "" {
		return "", fmt.Errorf("директория %s: %w", dir, ErrNoReportFiles)
	}

	return latest, nil
}

// ReadReportFile читает файл отчета и возвращает заголовок и строки данных
// Файлы .txt разбираются как tab-delimited, .csv с запятой-разделителем
// UTF-8 BOM в начале файла отбрасывается
// Строка, не совпадающая по количеству колонок с заголовком, делает
// весь файл невалидным: частичная загрузка не допускается
func ReadReportFile(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка при открытии файла %s: %w", path, err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)

	// Отбрасываем BOM, если он есть
	if prefix, err := reader.Peek(len(utf8BOM)); err == nil {
		if prefix[0] == utf8BOM[0] && prefix[1] == utf8BOM[1] && prefix[2] == utf8BOM[2] {
			if _, err := reader.Discard(len(utf8BOM)); err != nil {
				return nil, nil, fmt.Errorf("ошибка при пропуске BOM в файле %s: %w", path, err)
			}
		}
	}

	csvReader := csv.NewReader(reader)
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		csvReader.Comma = '\t'
	}

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("файл %s не соответствует ожидаемой схеме: %w", filepath.Base(path), err)
	}

	if len(records) == 0 {
		return nil, nil, fmt.Errorf("файл %s пуст", filepath.Base(path))
	}

	header := records[0]
	if len(header) == 0 {
		return nil, nil, fmt.Errorf("файл %s не содержит заголовка", filepath.Base(path))
	}

	return header, records[1:], nil
}
