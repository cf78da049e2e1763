package websocket

import (
	"encoding/json"
	"testing"
	"time"
)

func TestObserveRunBroadcastsFirstSuccessfulRun(t *testing.T) {
	// Сервер запущен до первого успешного ETL: база остается нулевой
	m := NewManager(nil)
	finishedAt := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)

	payload := m.observeRun(1, finishedAt)
	if payload == nil {
		t.Fatalf("первый успешный запуск должен вызвать рассылку")
	}

	var event RefreshEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("полезная нагрузка не разбирается: %v", err)
	}
	if event.Event != "data_refreshed" || event.RunID != 1 {
		t.Fatalf("неожиданное событие обновления: %+v", event)
	}
	if event.FinishedAt != "2024-01-01T03:00:00Z" {
		t.Fatalf("время завершения сериализовано неверно: %s", event.FinishedAt)
	}
}

func TestObserveRunIgnoresKnownRun(t *testing.T) {
	m := NewManager(nil)
	finishedAt := time.Now()

	if m.observeRun(3, finishedAt) == nil {
		t.Fatalf("новый запуск должен вызвать рассылку")
	}
	// Повторное наблюдение того же запуска рассылку не вызывает
	if m.observeRun(3, finishedAt) != nil {
		t.Fatalf("уже известный запуск не должен вызывать рассылку")
	}
	if m.observeRun(2, finishedAt) != nil {
		t.Fatalf("более ранний запуск не должен вызывать рассылку")
	}
}

func TestObserveRunRespectsStartupBaseline(t *testing.T) {
	// Запуски, завершившиеся до старта сервера, считаются базой
	m := NewManager(nil)
	m.lastRunID = 5
	finishedAt := time.Now()

	if m.observeRun(5, finishedAt) != nil {
		t.Fatalf("базовый запуск не должен вызывать рассылку")
	}
	if m.observeRun(6, finishedAt) == nil {
		t.Fatalf("запуск после базового должен вызвать рассылку")
	}
}
