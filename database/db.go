// database/db.go
package database

import (
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
)

var (
	// DB хранит подключение к хранилищу, инициализируется в main.go
	DB *sql.DB

	// Schema хранит имя базы данных warehouse-слоя
	Schema = "seller_warehouse"
)

// InitDB передает пакету подключение к хранилищу и имя warehouse-схемы
// BI-слой работает с хранилищем только на чтение
func InitDB(db *sql.DB, schema string) {
	DB = db
	if schema != "" {
		Schema = schema
	}
	if DB == nil {
		log.Println("⚠️ Предупреждение: переменная DB еще не инициализирована")
	}
}
