package chathub

import (
	"chatterbox/backend/internal/models"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// WebSocketClient реалізує інтерфейс chathub.Client поверх gorilla/websocket.
type WebSocketClient struct {
	ConnID string
	UserID string
	Conn   *websocket.Conn
	Hub    *ManagerService
	Send   chan models.Event

	closeOnce sync.Once
}

// --- Реалізація методів інтерфейсу ---

func (c *WebSocketClient) GetConnID() string                   { return c.ConnID }
func (c *WebSocketClient) GetUserID() string                   { return c.UserID }
func (c *WebSocketClient) GetSendChannel() chan<- models.Event { return c.Send }

// Run запускає 'pumps' для WebSocket
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close закриває WebSocket-з'єднання. The Send channel is deliberately left
// open: closing it could panic a sender still holding the handle. The read
// pump exits on the connection error and unregisters; the write pump exits on
// its next write or ping. Safe to call from multiple goroutines.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() {
		c.Conn.Close()
	})
}

// readPump читає події з WebSocket і передає їх у хаб.
func (c *WebSocketClient) readPump() {
	// Встановлення таймаутів та обробка закриття з'єднання
	defer func() {
		c.Hub.UnregisterCh <- c // Надсилаємо команду на Unregister
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}

		var ev models.Event
		if err := json.Unmarshal(message, &ev); err != nil {
			log.Printf("Error decoding JSON from user %s: %v", c.UserID, err)
			continue // Пропускаємо невірне повідомлення
		}
		if ev.Name == "" {
			continue
		}

		// Надсилаємо подію у головний канал хаба
		c.Hub.IncomingCh <- ClientEvent{Client: c, Event: ev}
	}
}

// writePump читає події з каналу Send і записує їх у WebSocket.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))

			dataToWrite, err := json.Marshal(ev)
			if err != nil {
				log.Printf("Error encoding JSON for user %s: %v", c.UserID, err)
				continue
			}

			// Кожна подія — окремий WebSocket-фрейм.
			if err := c.Conn.WriteMessage(websocket.TextMessage, dataToWrite); err != nil {
				return
			}

			// Перевіряємо, чи є ще повідомлення у каналі (для ефективності)
			n := len(c.Send)
			for i := 0; i < n; i++ {
				next := <-c.Send
				extraData, err := json.Marshal(next)
				if err != nil {
					continue
				}
				if err := c.Conn.WriteMessage(websocket.TextMessage, extraData); err != nil {
					return
				}
			}

		case <-ticker.C:
			// Надсилаємо Ping для підтримки з'єднання активним
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
