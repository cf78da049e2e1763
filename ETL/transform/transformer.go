package transform

import (
	"fmt"
	"time"

	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
)

// Transformer координирует построение измерений и фактов из staging-данных
type Transformer struct {
	logger           *utils.ETLLogger
	productProcessor *ProductDimensionProcessor
	dateProcessor    *DateDimensionProcessor
	salesTrafficProc *SalesTrafficFactsProcessor
	adSpendProcessor *AdSpendFactsProcessor
}

// NewTransformer создает новый экземпляр Transformer
func NewTransformer(logger *utils.ETLLogger) *Transformer {
	return &Transformer{
		logger:           logger,
		productProcessor: NewProductDimensionProcessor(logger),
		dateProcessor:    NewDateDimensionProcessor(logger),
		salesTrafficProc: NewSalesTrafficFactsProcessor(logger),
		adSpendProcessor: NewAdSpendFactsProcessor(logger),
	}
}

// Transform выполняет полное преобразование staging-данных в строки хранилища
// Преобразование чистое и детерминированное: одинаковый вход дает одинаковый выход
func (t *Transformer) Transform(staged *models.StagedData) (*models.TransformedData, error) {
	startTime := time.Now()
	t.logger.Info("Начало фазы Transform (Построение измерений и фактов)")

	transformedData := &models.TransformedData{}
	var err error

	// 1. Измерение товаров из снимка каталога
	t.logger.Info("Построение измерения товаров...")
	transformedData.Products, err = t.productProcessor.ProcessProducts(staged.Catalog)
	if err != nil {
		t.logger.Error("Ошибка при построении измерения товаров: %v", err)
		return nil, fmt.Errorf("ошибка при построении измерения товаров: %w", err)
	}

	// 2. Факты продаж и трафика
	t.logger.Info("Построение фактов продаж и трафика...")
	transformedData.SalesTraffic, err = t.salesTrafficProc.ProcessSalesTrafficFacts(staged.SalesTraffic)
	if err != nil {
		t.logger.Error("Ошибка при построении фактов продаж: %v", err)
		return nil, fmt.Errorf("ошибка при построении фактов продаж: %w", err)
	}

	// 3. Факты рекламных расходов
	t.logger.Info("Построение фактов рекламных расходов...")
	transformedData.AdSpend, err = t.adSpendProcessor.ProcessAdSpendFacts(staged.AdSpend)
	if err != nil {
		t.logger.Error("Ошибка при построении фактов рекламы: %v", err)
		return nil, fmt.Errorf("ошибка при построении фактов рекламы: %w", err)
	}

	// 4. Измерение дат, покрывающее диапазон дат всех фактов
	t.logger.Info("Построение измерения дат...")
	transformedData.Dates = t.dateProcessor.ProcessDates(transformedData.SalesTraffic, transformedData.AdSpend)

	// Заполняем метаданные
	transformedData.Metadata = models.ETLMetadata{
		LastRunTimestamp: time.Now(),
		RowsStaged:       staged.TotalRows(),
		FactsBuilt:       transformedData.FactRows(),
	}

	duration := time.Since(startTime)
	t.logger.Info("Фаза Transform завершена. Длительность: %v", duration)

	return transformedData, nil
}
