package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// ETLLogger представляет логгер для ETL-процесса
type ETLLogger struct {
	infoLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	isVerbose   bool
}

// NewETLLogger создает новый экземпляр логгера для ETL
func NewETLLogger(verbose bool) *ETLLogger {
	// Создаем или открываем лог-файл для записи
	currentTime := time.Now().Format("2006-01-02")
	logFileName := fmt.Sprintf("etl_log_%s.log", currentTime)

	file, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Не удалось открыть или создать файл лога: %v", err)
	}

	// Инициализируем логгеры для разных уровней
	infoLogger := log.New(file, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	errorLogger := log.New(file, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	debugLogger := log.New(file, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)

	return &ETLLogger{
		infoLogger:  infoLogger,
		errorLogger: errorLogger,
		debugLogger: debugLogger,
		isVerbose:   verbose,
	}
}

// NewDiscardLogger создает логгер без лог-файла (используется в тестах)
func NewDiscardLogger() *ETLLogger {
	discard := log.New(io.Discard, "", 0)
	return &ETLLogger{
		infoLogger:  discard,
		errorLogger: discard,
		debugLogger: discard,
	}
}

// Info логирует информационное сообщение
func (l *ETLLogger) Info(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.infoLogger.Println(msg)

	// Также выводим в стандартный вывод
	log.Println("INFO:", msg)
}

// Error логирует сообщение об ошибке
func (l *ETLLogger) Error(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.errorLogger.Println(msg)

	// Также выводим в стандартный вывод
	log.Println("ERROR:", msg)
}

// Debug логирует отладочное сообщение (только если включен verbose режим)
func (l *ETLLogger) Debug(format string, v ...interface{}) {
	if !l.isVerbose {
		return
	}

	msg := fmt.Sprintf(format, v...)
	l.debugLogger.Println(msg)

	// Также выводим в стандартный вывод
	log.Println("DEBUG:", msg)
}

// LogETLStart логирует начало ETL-процесса
func (l *ETLLogger) LogETLStart() {
	l.Info("Начало выполнения ETL-процесса")
}

// LogETLComplete логирует завершение ETL-процесса
func (l *ETLLogger) LogETLComplete(startTime time.Time, filesIngested, rowsStaged, factsLoaded int) {
	duration := time.Since(startTime)
	l.Info("ETL-процесс завершён. Длительность: %v", duration)
	l.Info("Обработано: %d файлов, %d строк staging, %d строк фактов", filesIngested, rowsStaged, factsLoaded)
}

// LogIngestStart логирует начало фазы загрузки сырых отчетов
func (l *ETLLogger) LogIngestStart() {
	l.Info("Начало фазы Ingest (Загрузка сырых отчетов)")
}

// LogIngestComplete логирует завершение фазы загрузки сырых отчетов
func (l *ETLLogger) LogIngestComplete(files, rows int, duration time.Duration) {
	l.Info("Фаза Ingest завершена. Длительность: %v", duration)
	l.Info("Загружено: %d файлов, %d сырых строк", files, rows)
}

// LogStageStart логирует начало фазы staging-трансформации
func (l *ETLLogger) LogStageStart() {
	l.Info("Начало фазы Stage (Очистка и стандартизация)")
}

// LogStageComplete логирует завершение фазы staging-трансформации
func (l *ETLLogger) LogStageComplete(rows int, duration time.Duration) {
	l.Info("Фаза Stage завершена. Длительность: %v", duration)
	l.Info("Подготовлено строк staging: %d", rows)
}

// LogLoadStart логирует начало фазы загрузки в хранилище
func (l *ETLLogger) LogLoadStart() {
	l.Info("Начало фазы Load (Загрузка в хранилище)")
}

// LogLoadComplete логирует завершение фазы загрузки в хранилище
func (l *ETLLogger) LogLoadComplete(dims, facts int, duration time.Duration) {
	l.Info("Фаза Load завершена. Длительность: %v", duration)
	l.Info("Загружено: %d строк измерений, %d строк фактов", dims, facts)
}
