package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Anika2121/brain-bloom/internal/domain"
	"github.com/Anika2121/brain-bloom/internal/service"
)

// QuizHandler serves quiz retrieval, answer submission and rankings over
// REST for clients without a live socket.
type QuizHandler struct {
	quizService *service.QuizService
	roomService *service.RoomService
}

func NewQuizHandler(quizService *service.QuizService, roomService *service.RoomService) *QuizHandler {
	return &QuizHandler{quizService: quizService, roomService: roomService}
}

// List returns the room's questions during the quiz window.
func (h *QuizHandler) List(c *gin.Context) {
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

	if room.PhaseAt(time.Now()) == domain.PhaseQuiz {
		if err := h.quizService.EnsureQuizzes(c.Request.Context(), room); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	quizzes, err := h.quizService.QuizzesForRoom(c.Request.Context(), roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}

type SubmitAnswerRequest struct {
	QuizID         uint   `json:"quiz_id" binding:"required"`
	SelectedAnswer string `json:"selected_answer" binding:"required,len=1"`
}

// Submit records one answer; resubmission overwrites the earlier choice.
func (h *QuizHandler) Submit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: quiz_id and selected_answer required"})
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
	if room.PhaseAt(time.Now()) != domain.PhaseQuiz {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Answers are only accepted during the quiz"})
		return
	}

	if err := h.quizService.HandleQuizResponse(c.Request.Context(), roomID, userID, req.QuizID, req.SelectedAnswer); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Answer recorded"})
}

// Rankings returns the room standings.
func (h *QuizHandler) Rankings(c *gin.Context) {
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

	rankings, err := h.quizService.Rankings(c.Request.Context(), roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rankings": rankings})
}
