// main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LilVoxy/seller_analytics/ETL/config"
	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/database"
	"github.com/LilVoxy/seller_analytics/routes"
	ws "github.com/LilVoxy/seller_analytics/websocket"
	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"
)

func main() {
	fmt.Println("Запуск BI-сервера...")

	cfg := config.GetConfig()

	// Подключаемся к серверу хранилища
	connections, err := config.ConnectDatabases(cfg)
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к базе данных: %v", err)
	}
	db := connections.WarehouseDB

	// Инициализируем слой запросов KPI
	database.InitDB(db, cfg.Schemas.Warehouse)

	// Создаем менеджер WebSocket для уведомлений дашборда
	// Менеджер наблюдает за журналом запусков ETL через репозиторий
	etlLogRepo := models.NewMySQLETLLogRepository(db, cfg.Schemas.Warehouse)
	wsManager := ws.NewManager(etlLogRepo)

	// Запускаем менеджер WebSocket
	go wsManager.Run()

	// Создаем маршрутизатор и регистрируем обработчики
	router := mux.NewRouter()
	routes.SetupRoutes(router, wsManager)

	// Статические файлы дашборда
	router.PathPrefix("/").Handler(http.FileServer(http.Dir("public")))

	// Настраиваем сервер
	server := &http.Server{
		Addr:         cfg.APIAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запускаем сервер в отдельной горутине
	go func() {
		log.Printf("✅ BI-сервер запущен на http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Ошибка запуска сервера: %v", err)
		}
	}()

	// Канал для сигналов завершения
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Ожидаем сигнал завершения
	<-stop
	log.Println("⚠️ Получен сигнал завершения, закрываем соединения...")

	// Закрываем соединение с базой данных
	config.CloseDatabases(connections)
	log.Println("✅ Соединение с БД закрыто")

	log.Println("👋 BI-сервер остановлен")
}
