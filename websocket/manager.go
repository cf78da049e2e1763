package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/LilVoxy/seller_analytics/ETL/models"
	"github.com/gorilla/websocket"
)

// RefreshEvent отправляется дашборду после успешного запуска ETL,
// чтобы фронтенд перечитал KPI без перезагрузки страницы
type RefreshEvent struct {
	Event      string `json:"event"`
	RunID      int    `json:"runId"`
	FinishedAt string `json:"finishedAt"`
}

// Manager управляет WebSocket-подключениями дашборда
type Manager struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan []byte

	runs      models.ETLLogRepository
	lastRunID int
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewManager создает новый менеджер подключений
// runs используется для наблюдения за журналом запусков ETL
func NewManager(runs models.ETLLogRepository) *Manager {
	return &Manager{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan []byte),
		runs:       runs,
	}
}

// Run запускает цикл обработки подключений и наблюдение за журналом ETL
func (m *Manager) Run() {
	go m.watchRuns()

	for {
		select {
		case client := <-m.Register:
			m.Clients[client] = true
			log.Printf("✅ Клиент дашборда подключен, всего: %d", len(m.Clients))

		case client := <-m.Unregister:
			if _, ok := m.Clients[client]; ok {
				delete(m.Clients, client)
				close(client.Send)
				log.Printf("✅ Клиент дашборда отключен, осталось: %d", len(m.Clients))
			}

		case message := <-m.Broadcast:
			for client := range m.Clients {
				select {
				case client.Send <- message:
				default:
					delete(m.Clients, client)
					close(client.Send)
				}
			}
		}
	}
}

// watchRuns опрашивает журнал запусков ETL и рассылает событие обновления,
// когда появляется новый успешный запуск
func (m *Manager) watchRuns() {
	// Базовое состояние фиксируется один раз на старте: запуски,
	// завершившиеся до подключения сервера, обновлением не считаются.
	// Если успешных запусков еще не было, базой остается ноль,
	// и первый же успешный запуск вызовет рассылку
	if run, err := m.runs.GetLastSuccessfulRun(); err != nil {
		log.Printf("⚠️ Ошибка опроса журнала ETL: %v", err)
	} else if run != nil {
		m.lastRunID = run.ID
	}

	ticker := time.NewTicker(runPollInterval)
	defer ticker.Stop()

	for range ticker.C {
		run, err := m.runs.GetLastSuccessfulRun()
		if err != nil {
			log.Printf("⚠️ Ошибка опроса журнала ETL: %v", err)
			continue
		}
		if run == nil {
			continue
		}

		if payload := m.observeRun(run.ID, run.EndTime); payload != nil {
			m.Broadcast <- payload
			log.Printf("✅ Разослано событие обновления данных (запуск #%d)", run.ID)
		}
	}
}

// observeRun сравнивает запуск с последним известным и возвращает полезную
// нагрузку события обновления, если запуск новый (иначе nil)
func (m *Manager) observeRun(id int, finishedAt time.Time) []byte {
	if id <= m.lastRunID {
		return nil
	}
	m.lastRunID = id

	event := RefreshEvent{
		Event:      "data_refreshed",
		RunID:      id,
		FinishedAt: finishedAt.Format(time.RFC3339),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("⚠️ Ошибка сериализации события обновления: %v", err)
		return nil
	}

	return payload
}

// HandleConnections обрабатывает входящие WebSocket-подключения дашборда
func (m *Manager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ Ошибка обновления соединения до WebSocket: %v", err)
		return
	}

	client := &Client{
		Manager: m,
		Socket:  conn,
		Send:    make(chan []byte, 256),
	}

	m.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
