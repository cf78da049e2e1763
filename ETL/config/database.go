package config

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// DBConnections содержит подключение к серверу хранилища
type DBConnections struct {
	WarehouseDB *sql.DB
}

// ConnectDatabases устанавливает подключение к MySQL-серверу хранилища
// и гарантирует существование схем raw / staging / warehouse
func ConnectDatabases(config ETLConfig) (*DBConnections, error) {
	var connections DBConnections
	var err error

	// Подключаемся к серверу без выбора базы данных по умолчанию:
	// все запросы ETL используют полностью квалифицированные имена таблиц
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/?parseTime=true",
		config.Warehouse.User,
		config.Warehouse.Password,
		config.Warehouse.Host,
		config.Warehouse.Port,
	)

	connections.WarehouseDB, err = sql.Open(config.Warehouse.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных хранилища: %w", err)
	}

	// Настройка параметров пула соединений
	connections.WarehouseDB.SetMaxOpenConns(10)
	connections.WarehouseDB.SetMaxIdleConns(5)
	connections.WarehouseDB.SetConnMaxLifetime(5 * time.Minute)

	// Проверка подключения
	if err := connections.WarehouseDB.Ping(); err != nil {
		connections.WarehouseDB.Close()
		return nil, fmt.Errorf("не удалось установить соединение с базой данных хранилища: %w", err)
	}

	// Гарантируем существование всех трех схем
	if err := ensureSchemas(connections.WarehouseDB, config.Schemas); err != nil {
		connections.WarehouseDB.Close()
		return nil, fmt.Errorf("ошибка при создании схем хранилища: %w", err)
	}

	log.Println("Успешное подключение к базе данных хранилища")
	return &connections, nil
}

// ensureSchemas создает базы данных слоев хранилища, если они не существуют
func ensureSchemas(db *sql.DB, schemas SchemaConfig) error {
	for _, schema := range []string{schemas.Raw, schemas.Staging, schemas.Warehouse} {
		query := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s DEFAULT CHARSET utf8mb4", schema)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("ошибка при создании схемы %s: %w", schema, err)
		}
	}
	return nil
}

// CloseDatabases закрывает подключения к базам данных
func CloseDatabases(connections *DBConnections) {
	if connections.WarehouseDB != nil {
		if err := connections.WarehouseDB.Close(); err != nil {
			log.Printf("Ошибка при закрытии соединения с базой данных хранилища: %v", err)
		}
	}

	log.Println("Соединение с базой данных хранилища закрыто")
}
