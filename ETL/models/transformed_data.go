package models

import (
	"time"
)

// TransformedData содержит трансформированные данные для загрузки в хранилище
type TransformedData struct {
	// Измерения
	Products []ProductDimension `json:"products"`
	Dates    []DateDimension    `json:"dates"`

	// Факты
	SalesTraffic []SalesTrafficFact `json:"sales_traffic"`
	AdSpend      []AdSpendFact      `json:"ad_spend"`

	// Метаданные запуска
	Metadata ETLMetadata `json:"metadata"`
}

// ETLMetadata содержит метаданные запуска ETL-процесса
// Количество загруженных файлов живет в журнале запусков (ETLRunLog),
// трансформатору оно неизвестно
type ETLMetadata struct {
	LastRunTimestamp time.Time `json:"last_run_timestamp"`
	RowsStaged       int       `json:"rows_staged"`
	FactsBuilt       int       `json:"facts_built"`
}

// DimensionRows возвращает общее количество строк измерений
func (d *TransformedData) DimensionRows() int {
	return len(d.Products) + len(d.Dates)
}

// FactRows возвращает общее количество строк фактов
func (d *TransformedData) FactRows() int {
	return len(d.SalesTraffic) + len(d.AdSpend)
}
