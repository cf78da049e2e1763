package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LilVoxy/seller_analytics/ETL/archive"
	"github.com/LilVoxy/seller_analytics/ETL/config"
	"github.com/LilVoxy/seller_analytics/ETL/ingest"
	"github.com/LilVoxy/seller_analytics/ETL/load"
	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/staging"
	"github.com/LilVoxy/seller_analytics/ETL/transform"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
	"github.com/go-co-op/gocron"
)

type ETLRunner struct {
	config        config.ETLConfig
	dbConnections *config.DBConnections
	logger        *utils.ETLLogger
	ingestor      *ingest.Ingestor
	stager        *staging.Stager
	transformer   *transform.Transformer
	loadManager   *load.LoadManager
	archiver      *archive.Archiver
	etlLogRepo    models.ETLLogRepository
}

// NewETLRunner создает новый экземпляр ETLRunner
func NewETLRunner() (*ETLRunner, error) {
	// Получаем конфигурацию
	etlConfig := config.GetConfig()

	// Инициализируем логгер
	logger := utils.NewETLLogger(etlConfig.EnableDetailedLogging)
	logger.Info("Инициализация ETL Runner")

	// Подключаемся к серверу хранилища
	connections, err := config.ConnectDatabases(etlConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базам данных: %w", err)
	}

	db := connections.WarehouseDB

	// Инициализируем репозиторий логов ETL
	etlLogRepo := models.NewMySQLETLLogRepository(db, etlConfig.Schemas.Warehouse)

	// Создаем таблицу логов, если она еще не существует
	if err := etlLogRepo.CreateETLLogTable(); err != nil {
		return nil, fmt.Errorf("ошибка при создании таблицы логов ETL: %w", err)
	}

	// Создаем таблицы хранилища, если они еще не существуют
	if err := load.EnsureWarehouseTables(db, etlConfig.Schemas.Warehouse); err != nil {
		return nil, fmt.Errorf("ошибка при создании таблиц хранилища: %w", err)
	}

	return &ETLRunner{
		config:        etlConfig,
		dbConnections: connections,
		logger:        logger,
		ingestor:      ingest.NewIngestor(db, logger, etlConfig),
		stager:        staging.NewStager(db, logger, etlConfig),
		transformer:   transform.NewTransformer(logger),
		loadManager:   load.NewLoadManager(db, logger, etlConfig.Schemas.Warehouse),
		archiver:      archive.NewArchiver(etlConfig.ArchiveDir, logger),
		etlLogRepo:    etlLogRepo,
	}, nil
}

// Close закрывает соединения с базами данных
func (r *ETLRunner) Close() {
	r.logger.Info("Завершение работы ETL Runner")
	config.CloseDatabases(r.dbConnections)
}

// ExecuteETL выполняет полный ETL процесс
func (r *ETLRunner) ExecuteETL() error {
	r.logger.LogETLStart()
	startTime := time.Now()

	// Создаем запись в журнале ETL
	logID, err := r.etlLogRepo.CreateLogEntry(startTime)
	if err != nil {
		r.logger.Error("Ошибка при создании записи в журнале ETL: %v", err)
		return fmt.Errorf("ошибка при создании записи в журнале ETL: %w", err)
	}

	runLog := &models.ETLRunLog{
		ID:        logID,
		StartTime: startTime,
		Status:    "in_progress",
	}

	// 1. Фаза приема файлов (Ingest)
	rawLoads, err := r.ingestor.Ingest()
	if err != nil {
		errMsg := fmt.Sprintf("Ошибка в фазе Ingest: %v", err)
		r.logger.Error(errMsg)
		r.updateETLRunLogFailure(runLog, errMsg)
		return fmt.Errorf("ошибка в фазе Ingest: %w", err)
	}

	// Если нет новых файлов, завершаем процесс
	if len(rawLoads) == 0 {
		r.logger.Info("Нет новых файлов отчетов для обработки")
		r.updateETLRunLogSuccess(runLog, 0, 0, 0, 0)
		return nil
	}

	// 2. Фаза очистки и нормализации (Stage)
	stagedData, err := r.stager.Stage()
	if err != nil {
		errMsg := fmt.Sprintf("Ошибка в фазе Stage: %v", err)
		r.logger.Error(errMsg)
		r.updateETLRunLogFailure(runLog, errMsg)
		return fmt.Errorf("ошибка в фазе Stage: %w", err)
	}

	// 3. Фаза трансформации данных (Transform)
	transformedData, err := r.transformer.Transform(stagedData)
	if err != nil {
		errMsg := fmt.Sprintf("Ошибка в фазе Transform: %v", err)
		r.logger.Error(errMsg)
		r.updateETLRunLogFailure(runLog, errMsg)
		return fmt.Errorf("ошибка в фазе Transform: %w", err)
	}

	// 4. Фаза загрузки данных (Load)
	if err := r.loadManager.Load(transformedData); err != nil {
		errMsg := fmt.Sprintf("Ошибка в фазе Load: %v", err)
		r.logger.Error(errMsg)
		r.updateETLRunLogFailure(runLog, errMsg)
		return fmt.Errorf("ошибка в фазе Load: %w", err)
	}

	// 5. Архивируем успешно загруженные файлы, чтобы исключить повторный прием
	if err := r.archiver.ArchiveLoads(rawLoads); err != nil {
		// Данные уже загружены, поэтому ошибка архивации не отменяет запуск
		r.logger.Error("Ошибка при архивации файлов отчетов: %v", err)
	}

	// Обновляем запись в журнале с информацией об успешном выполнении
	r.updateETLRunLogSuccess(runLog,
		len(rawLoads),
		stagedData.TotalRows(),
		transformedData.DimensionRows(),
		transformedData.FactRows())

	r.logger.LogETLComplete(startTime, len(rawLoads), stagedData.TotalRows(), transformedData.FactRows())
	return nil
}

// updateETLRunLogSuccess обновляет запись в журнале ETL при успешном завершении
func (r *ETLRunner) updateETLRunLogSuccess(runLog *models.ETLRunLog, filesIngested, rowsStaged, dimRowsLoaded, factRowsLoaded int) {
	runLog.EndTime = time.Now()
	runLog.Status = "success"
	runLog.FilesIngested = filesIngested
	runLog.RowsStaged = rowsStaged
	runLog.DimRowsLoaded = dimRowsLoaded
	runLog.FactRowsLoaded = factRowsLoaded

	if err := r.etlLogRepo.UpdateLogEntrySuccess(
		runLog.ID,
		runLog.EndTime,
		runLog.FilesIngested,
		runLog.RowsStaged,
		runLog.DimRowsLoaded,
		runLog.FactRowsLoaded); err != nil {
		r.logger.Error("Ошибка при обновлении записи в журнале ETL: %v", err)
	}
}

// updateETLRunLogFailure обновляет запись в журнале ETL при ошибке
func (r *ETLRunner) updateETLRunLogFailure(runLog *models.ETLRunLog, errorMessage string) {
	runLog.EndTime = time.Now()
	runLog.Status = "failed"
	runLog.ErrorMessage = errorMessage

	if err := r.etlLogRepo.UpdateLogEntryFailure(
		runLog.ID,
		runLog.EndTime,
		runLog.ErrorMessage); err != nil {
		r.logger.Error("Ошибка при обновлении записи в журнале ETL: %v", err)
	}
}

// StartScheduler запускает планировщик для регулярного выполнения ETL
func (r *ETLRunner) StartScheduler(ctx context.Context) {
	scheduler := gocron.NewScheduler(time.UTC)

	r.logger.Info("Запуск планировщика ETL с интервалом %v", r.config.RunInterval)

	_, err := scheduler.Every(r.config.RunInterval).Do(func() {
		r.logger.Info("Запланированный запуск ETL процесса")
		if err := r.ExecuteETL(); err != nil {
			r.logger.Error("Ошибка при выполнении запланированного ETL: %v", err)
		}
	})

	if err != nil {
		r.logger.Error("Ошибка при настройке планировщика: %v", err)
		return
	}

	// Запускаем планировщик
	scheduler.StartAsync()

	// Ожидаем сигнал остановки из контекста
	<-ctx.Done()

	// Останавливаем планировщик
	scheduler.Stop()
	r.logger.Info("Планировщик ETL остановлен")
}

// RunOnce запускает ETL процесс один раз
func RunOnce() {
	runner, err := NewETLRunner()
	if err != nil {
		log.Fatalf("Ошибка при создании ETL Runner: %v", err)
	}
	defer runner.Close()

	if err := runner.ExecuteETL(); err != nil {
		log.Fatalf("Ошибка при выполнении ETL: %v", err)
	}
}

// RunScheduled запускает ETL процесс по расписанию
func RunScheduled() {
	// Создаем контекст, который будет отменен при получении сигнала завершения
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Настраиваем обработку сигналов завершения
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-signalCh
		log.Println("Получен сигнал завершения. Останавливаем ETL Runner...")
		cancel()
	}()

	runner, err := NewETLRunner()
	if err != nil {
		log.Fatalf("Ошибка при создании ETL Runner: %v", err)
	}
	defer runner.Close()

	// Запускаем планировщик
	runner.StartScheduler(ctx)
}

func main() {
	// Параметры командной строки
	modePtr := flag.String("mode", "scheduled", "Режим работы: scheduled или once")

	flag.Parse()

	log.Println("Запуск ETL Runner в режиме:", *modePtr)

	switch *modePtr {
	case "once":
		RunOnce()
	case "scheduled":
		RunScheduled()
	default:
		log.Println("Неизвестный режим работы:", *modePtr)
		log.Println("Доступные режимы: scheduled, once")
		os.Exit(1)
	}

	log.Println("ETL Runner завершил работу")
}
