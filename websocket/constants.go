package websocket

import (
	"time"
)

const (
	// Максимальное время на запись сообщения клиенту
	writeWait = 10 * time.Second

	// Максимальное время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Период отправки ping (должен быть меньше pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Период опроса журнала запусков ETL
	runPollInterval = 30 * time.Second
)
