package load

import (
	"database/sql"

	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/ETL/utils"
)

// Loader интерфейс для загрузки данных в warehouse-слой
type Loader interface {
	// LoadProductDimension загружает данные в измерение товаров
	LoadProductDimension(products []models.ProductDimension) error

	// LoadDateDimension загружает данные в измерение дат
	LoadDateDimension(dates []models.DateDimension) error

	// LoadSalesTrafficFacts загружает факты продаж и трафика
	LoadSalesTrafficFacts(facts []models.SalesTrafficFact) error

	// LoadAdSpendFacts загружает факты рекламных расходов
	LoadAdSpendFacts(facts []models.AdSpendFact) error
}

// WarehouseLoader реализация Loader для MySQL-хранилища
type WarehouseLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger

	// Загрузчики для отдельных таблиц
	productLoader      *ProductLoader
	dateLoader         *DateLoader
	salesTrafficLoader *SalesTrafficFactLoader
	adSpendLoader      *AdSpendFactLoader
}

// NewWarehouseLoader создает новый экземпляр WarehouseLoader
func NewWarehouseLoader(db *sql.DB, logger *utils.ETLLogger, schema string) *WarehouseLoader {
	loader := &WarehouseLoader{
		db:     db,
		logger: logger,
	}

	// Инициализация загрузчиков для отдельных таблиц
	loader.productLoader = NewProductLoader(db, logger, schema)
	loader.dateLoader = NewDateLoader(db, logger, schema)
	loader.salesTrafficLoader = NewSalesTrafficFactLoader(db, logger, schema)
	loader.adSpendLoader = NewAdSpendFactLoader(db, logger, schema)

	return loader
}

// LoadProductDimension загружает данные в измерение товаров
func (l *WarehouseLoader) LoadProductDimension(products []models.ProductDimension) error {
	return l.productLoader.Load(products)
}

// LoadDateDimension загружает данные в измерение дат
func (l *WarehouseLoader) LoadDateDimension(dates []models.DateDimension) error {
	return l.dateLoader.Load(dates)
}

// LoadSalesTrafficFacts загружает факты продаж и трафика
func (l *WarehouseLoader) LoadSalesTrafficFacts(facts []models.SalesTrafficFact) error {
	return l.salesTrafficLoader.Load(facts)
}

// LoadAdSpendFacts загружает факты рекламных расходов
func (l *WarehouseLoader) LoadAdSpendFacts(facts []models.AdSpendFact) error {
	return l.adSpendLoader.Load(facts)
}
