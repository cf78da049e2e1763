package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ETLConfig содержит конфигурацию для ETL-процесса
type ETLConfig struct {
	// Конфигурация подключения к MySQL-серверу хранилища
	Warehouse DatabaseConfig `json:"warehouse"`

	// Имена схем (баз данных) для слоев raw / staging / warehouse
	Schemas SchemaConfig `json:"schemas"`

	// Корневая директория с входящими файлами отчетов
	ReportRoot string `json:"report_root"`

	// Директория для архивации успешно загруженных файлов
	ArchiveDir string `json:"archive_dir"`

	// Интервал запуска ETL в режиме scheduled
	RunInterval time.Duration `json:"run_interval"`

	// Адрес HTTP-сервера BI API (режим serve)
	APIAddr string `json:"api_addr"`

	// Включение/отключение подробного логирования
	EnableDetailedLogging bool `json:"enable_detailed_logging"`
}

// DatabaseConfig содержит настройки подключения к базе данных
type DatabaseConfig struct {
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

// SchemaConfig содержит имена баз данных для трех слоев хранилища
type SchemaConfig struct {
	Raw       string `json:"raw"`
	Staging   string `json:"staging"`
	Warehouse string `json:"warehouse"`
}

// Значения конфигурации по умолчанию
var (
	DefaultWarehouseConfig = DatabaseConfig{
		Driver:   "mysql",
		Host:     "localhost",
		Port:     3306,
		User:     "root",
		Password: "",
	}

	DefaultSchemaConfig = SchemaConfig{
		Raw:       "seller_raw",
		Staging:   "seller_staging",
		Warehouse: "seller_warehouse",
	}

	DefaultETLConfig = ETLConfig{
		Warehouse:             DefaultWarehouseConfig,
		Schemas:               DefaultSchemaConfig,
		ReportRoot:            "data/raw/input",
		ArchiveDir:            "data/raw/archive",
		RunInterval:           24 * time.Hour,
		APIAddr:               ":8080",
		EnableDetailedLogging: true,
	}
)

// Поддиректории с отчетами по источникам (относительно ReportRoot)
const (
	CatalogReportDir      = "amazon/catalog/listings_sku_asin_snapshot"
	SalesTrafficReportDir = "amazon/business_reports/sales_traffic_child_asin_daily"
	AdSpendReportDir      = "amazon/advertising/sponsored_products_daily"
)

// GetConfig возвращает конфигурацию ETL
// Значения по умолчанию переопределяются переменными окружения (включая .env файл)
func GetConfig() ETLConfig {
	// Загружаем .env, если он есть; отсутствие файла не является ошибкой
	if err := godotenv.Load(); err == nil {
		log.Println("Конфигурация дополнена из .env файла")
	}

	config := DefaultETLConfig

	config.Warehouse.Host = getEnv("DB_HOST", config.Warehouse.Host)
	config.Warehouse.Port = getEnvInt("DB_PORT", config.Warehouse.Port)
	config.Warehouse.User = getEnv("DB_USER", config.Warehouse.User)
	config.Warehouse.Password = getEnv("DB_PASSWORD", config.Warehouse.Password)

	config.Schemas.Raw = getEnv("RAW_SCHEMA", config.Schemas.Raw)
	config.Schemas.Staging = getEnv("STAGING_SCHEMA", config.Schemas.Staging)
	config.Schemas.Warehouse = getEnv("WAREHOUSE_SCHEMA", config.Schemas.Warehouse)

	config.ReportRoot = getEnv("REPORT_ROOT", config.ReportRoot)
	config.ArchiveDir = getEnv("ARCHIVE_DIR", config.ArchiveDir)
	config.APIAddr = getEnv("API_ADDR", config.APIAddr)
	config.RunInterval = getEnvDuration("ETL_RUN_INTERVAL", config.RunInterval)
	config.EnableDetailedLogging = getEnvBool("ETL_VERBOSE", config.EnableDetailedLogging)

	return config
}

// SourceDir возвращает полный путь к директории отчетов источника
func (c ETLConfig) SourceDir(sub string) string {
	return filepath.Join(c.ReportRoot, filepath.FromSlash(sub))
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// getEnvInt возвращает целочисленное значение переменной окружения
func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("Некорректное значение %s=%q, используется %d", key, value, fallback)
	}
	return fallback
}

// getEnvBool возвращает логическое значение переменной окружения
func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		log.Printf("Некорректное значение %s=%q, используется %v", key, value, fallback)
	}
	return fallback
}

// getEnvDuration возвращает значение длительности переменной окружения
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		log.Printf("Некорректное значение %s=%q, используется %v", key, value, fallback)
	}
	return fallback
}
