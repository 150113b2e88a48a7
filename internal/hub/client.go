package hub

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is one WebSocket connection subscribed to a room group.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	roomID uint
	userID uint
	send   chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn, roomID, userID uint) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		roomID: roomID,
		userID: userID,
		send:   make(chan []byte, 256),
	}
}

// Run starts the read and write pumps.
func (c *Client) Run() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) RoomID() uint { return c.roomID }
func (c *Client) UserID() uint { return c.userID }

// CloseConn closes the underlying socket without going through the hub.
func (c *Client) CloseConn() { c.conn.Close() }

// closeSend is called by the hub during unsubscribe, under the write
// lock and at most once per client. The write pump drains what is left
// in the buffer and then exits on the closed channel.
func (c *Client) closeSend() {
	close(c.send)
}

// readPump pumps messages from the socket into the hub loop. It runs in
// its own goroutine and requests its own unsubscription on exit.
func (c *Client) readPump() {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": c.roomID, "user_id": c.userID})
	defer func() {
		select {
		case c.hub.messageChan <- hubMessage{kind: "unregister", roomID: c.roomID, client: c}:
		case <-c.hub.done:
		case <-time.After(time.Second):
			logCtx.Warn("Timeout sending unregister message to hub")
		}
		c.conn.Close()
		logCtx.Info("readPump exited")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("WebSocket read error (unexpected close)")
			} else {
				logCtx.Debug("WebSocket connection closed")
			}
			break
		}
		if messageType != websocket.TextMessage {
			logCtx.Debugf("Ignoring non-text message type %d", messageType)
			continue
		}
		c.hub.queue(hubMessage{
			kind:    "inbound",
			roomID:  c.roomID,
			userID:  c.userID,
			client:  c,
			rawData: message,
		})
	}
}

// writePump pumps events from the send channel to the socket and keeps
// the connection alive with periodic pings.
func (c *Client) writePump() {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": c.roomID, "user_id": c.userID})
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		logCtx.Info("writePump exited")
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logCtx.WithError(err).Warn("Failed to write message to websocket")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logCtx.WithError(err).Warn("Failed to send ping")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})
		}
	}
}
