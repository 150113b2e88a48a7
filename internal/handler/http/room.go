package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Anika2121/brain-bloom/internal/domain"
	"github.com/Anika2121/brain-bloom/internal/hub"
	"github.com/Anika2121/brain-bloom/internal/service"
)

// RoomHandler serves room lifecycle endpoints. Fetching a room is also the
// observation point that drives phase side effects: entering the quiz
// window schedules generation, the ranking window pushes standings.
type RoomHandler struct {
	roomService *service.RoomService
	quizService *service.QuizService
	chatService *service.ChatService
	hub         *hub.Hub
}

func NewRoomHandler(roomService *service.RoomService, quizService *service.QuizService, chatService *service.ChatService, h *hub.Hub) *RoomHandler {
	return &RoomHandler{roomService: roomService, quizService: quizService, chatService: chatService, hub: h}
}

type CreateRoomRequest struct {
	Title      string    `json:"title" binding:"required,min=1,max=100"`
	Course     string    `json:"course" binding:"required,min=1,max=100"`
	Department string    `json:"department" binding:"omitempty,max=100"`
	Topic      string    `json:"topic" binding:"omitempty,max=100"`
	StartAt    time.Time `json:"start_at" binding:"required"`
	Visibility string    `json:"visibility" binding:"omitempty,oneof=public private"`
}

// Create makes a new room; private rooms come back with their join code.
func (h *RoomHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), userID, service.CreateRoomInput{
		Title:      req.Title,
		Course:     req.Course,
		Department: req.Department,
		Topic:      req.Topic,
		StartAt:    req.StartAt,
		Visibility: req.Visibility,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{"room_id": room.ID, "creator_id": userID}).Info("Handler.CreateRoom: Room created")
	c.JSON(http.StatusCreated, roomResponse(room, room.PhaseAt(time.Now())))
}

// ListPublic returns joinable public rooms.
func (h *RoomHandler) ListPublic(c *gin.Context) {
	rooms, err := h.roomService.ListPublic(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	now := time.Now()
	out := make([]gin.H, 0, len(rooms))
	for i := range rooms {
		out = append(out, roomResponse(&rooms[i], rooms[i].PhaseAt(now)))
	}
	c.JSON(http.StatusOK, gin.H{"rooms": out})
}

// Detail returns the room with its current phase. Observing the quiz
// window triggers generation for rooms that have none yet; observing the
// ranking window pushes the standings to the room channel.
func (h *RoomHandler) Detail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	room, err := h.roomService.FindRoom(c.Request.Context(), roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.roomService.RequireMember(c.Request.Context(), roomID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	phase := room.PhaseAt(time.Now())
	resp := roomResponse(room, phase)

	switch phase {
	case domain.PhaseQuiz:
		if err := h.quizService.EnsureQuizzes(c.Request.Context(), room); err != nil {
			logrus.WithFields(logrus.Fields{"room_id": roomID, "error": err}).Error("Handler.Detail: Failed to schedule quiz generation")
		}
		quizzes, err := h.quizService.QuizzesForRoom(c.Request.Context(), roomID)
		if err == nil && len(quizzes) > 0 {
			resp["quizzes"] = quizzes
		}
	case domain.PhaseRanking:
		rankings, err := h.quizService.Rankings(c.Request.Context(), roomID)
		if err != nil {
			logrus.WithFields(logrus.Fields{"room_id": roomID, "error": err}).Error("Handler.Detail: Failed to compute rankings")
		} else {
			resp["rankings"] = rankings
			h.hub.Publish(roomID, hub.NewRankingEvent(rankings))
		}
	}

	c.JSON(http.StatusOK, resp)
}

type JoinByCodeRequest struct {
	JoinCode string `json:"join_code" binding:"required,len=6"`
}

// JoinByCode adds the caller to the private room matching the code.
func (h *RoomHandler) JoinByCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req JoinByCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: join_code required"})
		return
	}

	room, err := h.roomService.JoinByCode(c.Request.Context(), userID, req.JoinCode)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Joined room", "room_id": room.ID})
}

// Join adds the caller to a public room.
func (h *RoomHandler) Join(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	room, err := h.roomService.JoinPublic(c.Request.Context(), userID, roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Joined room", "room_id": room.ID})
}

// Leave removes the caller from the room.
func (h *RoomHandler) Leave(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	if err := h.roomService.Leave(c.Request.Context(), userID, roomID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Left room"})
}

// ChatHistory returns the room's persisted messages.
func (h *RoomHandler) ChatHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	if _, err := h.roomService.FindRoom(c.Request.Context(), roomID); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.roomService.RequireMember(c.Request.Context(), roomID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	messages, err := h.chatService.History(c.Request.Context(), roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]gin.H, 0, len(messages))
	for i := range messages {
		m := &messages[i]
		username := "AI"
		if m.Sender != nil {
			username = m.Sender.DisplayName()
		}
		out = append(out, gin.H{
			"message":        m.Message,
			"username":       username,
			"user_id":        m.SenderID,
			"timestamp":      m.Timestamp.UTC().Format(time.RFC3339),
			"is_ai_response": m.IsAIResponse,
		})
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}

func roomResponse(room *domain.Room, phase domain.Phase) gin.H {
	resp := gin.H{
		"id":         room.ID,
		"title":      room.Title,
		"course":     room.Course,
		"department": room.Department,
		"topic":      room.Topic,
		"start_at":   room.StartAt.UTC().Format(time.RFC3339),
		"visibility": room.Visibility,
		"creator_id": room.CreatorID,
		"phase":      phase.String(),
	}
	if room.Visibility == domain.VisibilityPrivate && room.JoinCode != "" {
		resp["join_code"] = room.JoinCode
	}
	return resp
}
