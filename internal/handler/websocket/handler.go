// Package websocket upgrades authenticated room members onto the realtime
// channel served by the hub.
package websocket

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Anika2121/brain-bloom/internal/domain"
	"github.com/Anika2121/brain-bloom/internal/hub"
	"github.com/Anika2121/brain-bloom/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin policy is enforced by the CORS layer in front of the API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler serves the per-room websocket endpoint.
type Handler struct {
	hub         *hub.Hub
	roomService *service.RoomService
}

func NewHandler(h *hub.Hub, roomService *service.RoomService) *Handler {
	if h == nil {
		panic("websocket: hub is nil")
	}
	if roomService == nil {
		panic("websocket: room service is nil")
	}
	return &Handler{hub: h, roomService: roomService}
}

// ServeRoom upgrades the connection for /ws/room/:roomId. The caller must
// be authenticated and a member; the channel opens one minute before the
// scheduled start and stays available until the room expires.
func (h *Handler) ServeRoom(c *gin.Context) {
	userIDValue, exists := c.Get("user_id")
	userID, ok := userIDValue.(uint)
	if !exists || !ok || userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	roomID, err := parseRoomID(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room id"})
		return
	}

	room, err := h.roomService.FindRoom(c.Request.Context(), roomID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}
	if err := h.roomService.RequireMember(c.Request.Context(), roomID, userID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Join the room before connecting"})
		return
	}
	if room.PhaseAt(time.Now()) == domain.PhasePre {
		c.JSON(http.StatusForbidden, gin.H{"error": "The room opens one minute before its start time"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID, "error": err}).
			Warn("WebSocket upgrade failed")
		return
	}

	client := hub.NewClient(h.hub, conn, roomID, userID)
	if !h.hub.QueueRegister(client) {
		logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID}).
			Error("Hub is saturated, dropping connection")
		conn.Close()
		return
	}
	client.Run()

	logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID}).Info("WebSocket client connected")
}

func parseRoomID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, strconv.ErrRange
	}
	return uint(id), nil
}
