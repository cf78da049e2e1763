package models

import (
	"time"
)

// RawLoad описывает одну загрузку сырого файла отчета в raw-слой
type RawLoad struct {
	LoadID     string    `json:"load_id"`
	LoadTS     time.Time `json:"load_ts"`
	SourceFile string    `json:"source_file"`
	SourcePath string    `json:"source_path"`
	Table      string    `json:"table"`
	Columns    []string  `json:"columns"`
	RowsLoaded int       `json:"rows_loaded"`
}
