package ingest

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/LilVoxy/seller_analytics/ETL/config"
	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
)

// Ingestor координирует загрузку сырых файлов отчетов по всем источникам
type Ingestor struct {
	db                 *sql.DB
	logger             *utils.ETLLogger
	catalogLoader      *CatalogLoader
	salesTrafficLoader *SalesTrafficLoader
	adsLoader          *AdsLoader
}

// NewIngestor создает новый экземпляр Ingestor
func NewIngestor(db *sql.DB, logger *utils.ETLLogger, cfg config.ETLConfig) *Ingestor {
	raw := NewRawLoader(db, logger, cfg.Schemas.Raw)

	return &Ingestor{
		db:                 db,
		logger:             logger,
		catalogLoader:      NewCatalogLoader(raw, cfg.SourceDir(config.CatalogReportDir)),
		salesTrafficLoader: NewSalesTrafficLoader(raw, cfg.SourceDir(config.SalesTrafficReportDir)),
		adsLoader:          NewAdsLoader(raw, cfg.SourceDir(config.AdSpendReportDir)),
	}
}

// Ingest загружает самые свежие файлы отчетов всех источников в raw-слой
// Источник без новых файлов пропускается; невалидный файл прерывает весь запуск
func (i *Ingestor) Ingest() ([]models.RawLoad, error) {
	startTime := time.Now()
	i.logger.LogIngestStart()

	sources := []struct {
		name string
		load func() (*models.RawLoad, error)
	}{
		{"каталог", i.catalogLoader.Load},
		{"продажи и трафик", i.salesTrafficLoader.Load},
		{"рекламные расходы", i.adsLoader.Load},
	}

	var loads []models.RawLoad
	totalRows := 0

	for _, source := range sources {
		load, err := source.load()
		if err != nil {
			if errors.Is(err, ErrNoReportFiles) {
				i.logger.Info("Источник %q: новых файлов нет, пропускаем", source.name)
				continue
			}
			i.logger.Error("Ошибка при загрузке источника %q: %v", source.name, err)
			return nil, fmt.Errorf("ошибка загрузки источника %q: %w", source.name, err)
		}

		loads = append(loads, *load)
		totalRows += load.RowsLoaded
	}

	i.logger.LogIngestComplete(len(loads), totalRows, time.Since(startTime))
	return loads, nil
}
