package routes

import (
	"net/http"

	ws "github.com/LilVoxy/seller_analytics/websocket"
	"github.com/gorilla/mux"
)

// SetupRoutes настраивает маршруты HTTP API дашборда
func SetupRoutes(router *mux.Router, wsManager *ws.Manager) {
	// CORS для фронтенда дашборда
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// WebSocket для уведомлений об обновлении данных
	router.HandleFunc("/ws/dashboard", wsManager.HandleConnections)

	// KPI-эндпоинты
	router.HandleFunc("/api/kpi/daily", getDailyKPIHandler).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/kpi/products", getProductKPIHandler).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/kpi/adspend", getAdSpendHandler).Methods("GET", "OPTIONS")

	// Журнал запусков ETL
	router.HandleFunc("/api/etl/runs", getETLRunsHandler).Methods("GET", "OPTIONS")
}
