package routes

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/LilVoxy/seller_analytics/database"
)

// dateRange извлекает параметры from/to из запроса.
// По умолчанию возвращает последние 30 дней
func dateRange(r *http.Request) (string, string, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30).Format("2006-01-02")
	to := now.Format("2006-01-02")

	if v := r.URL.Query().Get("from"); v != "" {
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return "", "", err
		}
		from = v
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return "", "", err
		}
		to = v
	}

	return from, to, nil
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Ошибка сериализации ответа: %v", err)
	}
}

// getDailyKPIHandler возвращает ежедневные KPI за период
func getDailyKPIHandler(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		http.Error(w, "Неверный формат даты, ожидается YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	kpis, err := database.GetDailyKPIs(from, to)
	if err != nil {
		log.Printf("❌ Ошибка получения ежедневных KPI: %v", err)
		http.Error(w, "Ошибка получения данных", http.StatusInternalServerError)
		return
	}

	writeJSON(w, kpis)
}

// getProductKPIHandler возвращает KPI по товарам за период
func getProductKPIHandler(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		http.Error(w, "Неверный формат даты, ожидается YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit <= 0 || limit > 500 {
			http.Error(w, "Неверный параметр limit", http.StatusBadRequest)
			return
		}
	}

	kpis, err := database.GetProductKPIs(from, to, limit)
	if err != nil {
		log.Printf("❌ Ошибка получения KPI по товарам: %v", err)
		http.Error(w, "Ошибка получения данных", http.StatusInternalServerError)
		return
	}

	writeJSON(w, kpis)
}

// getAdSpendHandler возвращает рекламные KPI за период
func getAdSpendHandler(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		http.Error(w, "Неверный формат даты, ожидается YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	kpis, err := database.GetAdSpendDaily(from, to)
	if err != nil {
		log.Printf("❌ Ошибка получения рекламных KPI: %v", err)
		http.Error(w, "Ошибка получения данных", http.StatusInternalServerError)
		return
	}

	writeJSON(w, kpis)
}

// getETLRunsHandler возвращает историю запусков ETL
func getETLRunsHandler(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		var err error
		days, err = strconv.Atoi(v)
		if err != nil || days <= 0 || days > 365 {
			http.Error(w, "Неверный параметр days", http.StatusBadRequest)
			return
		}
	}

	repo := models.NewMySQLETLLogRepository(database.DB, database.Schema)
	runs, err := repo.GetETLRunStats(days)
	if err != nil {
		log.Printf("❌ Ошибка получения журнала запусков ETL: %v", err)
		http.Error(w, "Ошибка получения данных", http.StatusInternalServerError)
		return
	}

	writeJSON(w, runs)
}
