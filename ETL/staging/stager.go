package staging

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/seller_analytics/ETL/config"
	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
)

// Stager координирует staging-трансформацию всех источников
type Stager struct {
	db                *sql.DB
	logger            *utils.ETLLogger
	catalogStage      *CatalogStage
	salesTrafficStage *SalesTrafficStage
	adSpendStage      *AdSpendStage
}

// NewStager создает новый экземпляр Stager
func NewStager(db *sql.DB, logger *utils.ETLLogger, cfg config.ETLConfig) *Stager {
	reader := NewRawReader(db, logger, cfg.Schemas.Raw)

	return &Stager{
		db:                db,
		logger:            logger,
		catalogStage:      NewCatalogStage(db, reader, logger, cfg.Schemas.Staging),
		salesTrafficStage: NewSalesTrafficStage(db, reader, logger, cfg.Schemas.Staging),
		adSpendStage:      NewAdSpendStage(db, reader, logger, cfg.Schemas.Staging),
	}
}

// Stage выполняет staging-трансформацию последних загрузок всех источников
// Трансформация детерминирована: повторный запуск на тех же raw-данных
// дает тот же staging-снимок
func (s *Stager) Stage() (*models.StagedData, error) {
	startTime := time.Now()
	s.logger.LogStageStart()

	var staged models.StagedData
	var err error

	// Очищаем снимок каталога
	staged.Catalog, err = s.catalogStage.Process()
	if err != nil {
		s.logger.Error("Ошибка при обработке снимка каталога: %v", err)
		return nil, fmt.Errorf("ошибка staging-трансформации каталога: %w", err)
	}

	// Очищаем отчет о продажах и трафике
	staged.SalesTraffic, err = s.salesTrafficStage.Process()
	if err != nil {
		s.logger.Error("Ошибка при обработке отчета о продажах: %v", err)
		return nil, fmt.Errorf("ошибка staging-трансформации продаж: %w", err)
	}

	// Очищаем рекламный отчет
	staged.AdSpend, err = s.adSpendStage.Process()
	if err != nil {
		s.logger.Error("Ошибка при обработке рекламного отчета: %v", err)
		return nil, fmt.Errorf("ошибка staging-трансформации рекламы: %w", err)
	}

	s.logger.LogStageComplete(staged.TotalRows(), time.Since(startTime))
	return &staged, nil
}
