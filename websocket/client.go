package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

// Client представляет одно подключение дашборда
type Client struct {
	Manager *Manager
	Socket  *websocket.Conn
	Send    chan []byte
}

// ReadPump читает входящие сообщения. Дашборд ничего не присылает,
// чтение нужно только для обработки pong и обнаружения разрыва
func (c *Client) ReadPump() {
	defer func() {
		c.Manager.Unregister <- c
		c.Socket.Close()
	}()

	c.Socket.SetReadLimit(512)
	c.Socket.SetReadDeadline(time.Now().Add(pongWait))
	c.Socket.SetPongHandler(func(string) error {
		c.Socket.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Socket.ReadMessage(); err != nil {
			break
		}
	}
}

// WritePump отправляет клиенту события обновления и периодические ping
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Socket.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Socket.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Socket.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
