// Package hub maintains the per-room subscriber registry and fans typed
// events out to every connection in a room group. Delivery is best
// effort: a disconnected client misses events published while offline,
// and a slow client is skipped rather than allowed to stall the group.
package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// ChatHandler processes an inbound chat message and returns the events
// to fan out, in delivery order (the user's message, then an optional AI
// reply).
type ChatHandler interface {
	HandleChatMessage(ctx context.Context, roomID, userID uint, message string) ([]Event, error)
}

// QuizResponseHandler persists a participant's answer idempotently.
type QuizResponseHandler interface {
	HandleQuizResponse(ctx context.Context, roomID, userID, quizID uint, selectedAnswer string) error
}

// hubMessage is the envelope passed through the hub's internal channel.
type hubMessage struct {
	kind    string // "register", "unregister", "inbound"
	roomID  uint
	userID  uint
	client  *Client
	rawData []byte
}

// Hub owns the room→clients registry and the single processing loop.
type Hub struct {
	messageChan chan hubMessage

	// done signals the run loop and producers to stop. messageChan is
	// never closed: clients keep sending into it from their own
	// goroutines, so termination has to be signalled out-of-band.
	done     chan struct{}
	stopOnce sync.Once

	// rooms maps roomID to the set of active subscribers. Guarded by
	// roomsMu; Publish only takes the read lock.
	rooms   map[uint]map[*Client]bool
	roomsMu sync.RWMutex

	chat      ChatHandler
	responses QuizResponseHandler
}

func NewHub(chat ChatHandler, responses QuizResponseHandler) *Hub {
	if chat == nil {
		panic("ChatHandler cannot be nil for Hub")
	}
	if responses == nil {
		panic("QuizResponseHandler cannot be nil for Hub")
	}
	return &Hub{
		messageChan: make(chan hubMessage, 512),
		done:        make(chan struct{}),
		rooms:       make(map[uint]map[*Client]bool),
		chat:        chat,
		responses:   responses,
	}
}

// Run is the hub's event loop; it must run in its own goroutine.
// Inbound messages are processed inline, not concurrently: within a room
// the fan-out order equals the order messages were taken off the
// channel, which keeps interleaved chat and chunk-summary broadcasts
// coherent for every subscriber.
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running")

	for {
		select {
		case <-h.done:
			log.Info("Hub is shutting down")
			return
		case msg := <-h.messageChan:
			switch msg.kind {
			case "register":
				h.Subscribe(msg.roomID, msg.client)
			case "unregister":
				h.Unsubscribe(msg.roomID, msg.client)
			case "inbound":
				h.handleInbound(msg)
			default:
				log.Warnf("Unknown hub message kind %q from user %d in room %d", msg.kind, msg.userID, msg.roomID)
			}
		}
	}
}

// Stop signals the processing loop to exit. Messages still queued or
// arriving afterwards are dropped. Safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Subscribe adds the connection to the room's group. The WebSocket
// handler has already resolved and verified the session principal;
// unauthenticated connections never reach this point.
func (h *Hub) Subscribe(roomID uint, client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to subscribe a nil client")
		return
	}
	h.roomsMu.Lock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	h.roomsMu.Unlock()

	logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": client.UserID()}).
		Info("Client subscribed to room group")
}

// Unsubscribe removes the connection from the room's group. It is
// idempotent; a second call for the same client is a no-op.
func (h *Hub) Unsubscribe(roomID uint, client *Client) {
	if client == nil {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": client.UserID()})

	h.roomsMu.Lock()
	if group, ok := h.rooms[roomID]; ok {
		if _, subscribed := group[client]; subscribed {
			delete(group, client)
			client.closeSend()
			if len(group) == 0 {
				delete(h.rooms, roomID)
				logCtx.Debug("Room group empty, removed from registry")
			}
			logCtx.Info("Client unsubscribed from room group")
		}
	}
	h.roomsMu.Unlock()
}

// Publish fans the event out to every current subscriber of the room.
// A full send buffer on one client never delays delivery to the rest;
// the slow client's frame is dropped and logged.
func (h *Hub) Publish(roomID uint, event Event) {
	data, err := marshalEvent(event)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"room_id": roomID, "event": event.EventType()}).
			Error("Failed to marshal event for publish")
		return
	}
	h.broadcast(roomID, event.EventType(), data)
}

// broadcast delivers under the read lock: Unsubscribe closes send
// channels under the write lock, so a channel can never be closed while
// a broadcast is mid-delivery. Sends are non-blocking, so holding the
// lock is cheap.
func (h *Hub) broadcast(roomID uint, eventType string, data []byte) {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()

	group := h.rooms[roomID]
	if len(group) == 0 {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id":    roomID,
		"event":      eventType,
		"recipients": len(group),
	})
	logCtx.Debug("Broadcasting event")

	for client := range group {
		select {
		case client.send <- data:
		default:
			logCtx.WithField("receiver_user_id", client.UserID()).
				Warn("Client send buffer full, dropping event for this client")
		}
	}
}

// SubscriberCount reports the current group size for a room.
func (h *Hub) SubscriberCount(roomID uint) int {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()
	return len(h.rooms[roomID])
}

// handleInbound dispatches one client message to the matching service
// and fans out whatever events it yields.
func (h *Hub) handleInbound(msg hubMessage) {
	ctx := context.Background()
	logCtx := logrus.WithFields(logrus.Fields{"room_id": msg.roomID, "user_id": msg.userID})

	var inbound inboundMessage
	if err := json.Unmarshal(msg.rawData, &inbound); err != nil {
		logCtx.WithError(err).Warn("Failed to decode inbound client message")
		h.sendToClient(msg.client, NewErrorEvent("Invalid message format"))
		return
	}

	switch inbound.Type {
	case InboundChatMessage:
		events, err := h.chat.HandleChatMessage(ctx, msg.roomID, msg.userID, inbound.Message)
		if err != nil {
			logCtx.WithError(err).Error("Chat message handling failed")
			h.sendToClient(msg.client, NewErrorEvent("Error processing message: "+err.Error()))
			return
		}
		for _, ev := range events {
			h.Publish(msg.roomID, ev)
		}
	case InboundQuizResponse:
		err := h.responses.HandleQuizResponse(ctx, msg.roomID, msg.userID, inbound.QuizID, inbound.SelectedAnswer)
		if err != nil {
			logCtx.WithError(err).WithField("quiz_id", inbound.QuizID).Error("Quiz response handling failed")
			h.sendToClient(msg.client, NewErrorEvent("Error saving quiz response"))
			return
		}
		logCtx.WithField("quiz_id", inbound.QuizID).Debug("Quiz response saved")
	default:
		logCtx.Warnf("Unknown inbound message type %q", inbound.Type)
	}
}

// sendToClient delivers an event to a single connection, best effort.
func (h *Hub) sendToClient(client *Client, event Event) {
	if client == nil {
		return
	}
	data, err := marshalEvent(event)
	if err != nil {
		return
	}
	select {
	case client.send <- data:
	default:
	}
}

// queue enqueues a message into the hub loop without blocking. Returns
// false when the hub has stopped or is saturated.
func (h *Hub) queue(msg hubMessage) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithFields(logrus.Fields{
			"kind":    msg.kind,
			"room_id": msg.roomID,
			"user_id": msg.userID,
		}).Warn("Hub message channel full, dropping message")
		return false
	}
}

// QueueRegister asks the hub loop to subscribe the client.
func (h *Hub) QueueRegister(client *Client) bool {
	return h.queue(hubMessage{kind: "register", roomID: client.RoomID(), userID: client.UserID(), client: client})
}
