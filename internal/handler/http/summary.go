package http

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Anika2121/brain-bloom/internal/service"
)

// SummaryHandler accepts PDF uploads and lists a room's summaries.
type SummaryHandler struct {
	summaryService *service.SummaryService
	roomService    *service.RoomService
	uploadDir      string
}

func NewSummaryHandler(summaryService *service.SummaryService, roomService *service.RoomService, uploadDir string) *SummaryHandler {
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	return &SummaryHandler{summaryService: summaryService, roomService: roomService, uploadDir: uploadDir}
}

// Upload stores the PDF under its assigned name and enqueues the
// summarization pipeline. The multipart field is "pdf".
func (h *SummaryHandler) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	if err := h.roomService.RequireMember(c.Request.Context(), roomID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	file, err := c.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A PDF file is required in the 'pdf' field"})
		return
	}

	storedName, err := h.summaryService.Upload(c.Request.Context(), roomID, userID, file.Filename)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, storedName)); err != nil {
		logrus.WithFields(logrus.Fields{"room_id": roomID, "pdf": file.Filename, "error": err}).
			Error("Handler.Upload: Failed to store file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file"})
		return
	}

	logrus.WithFields(logrus.Fields{"room_id": roomID, "pdf": file.Filename}).Info("Handler.Upload: PDF accepted")
	c.JSON(http.StatusAccepted, gin.H{
		"message":     "Upload accepted, summarization in progress",
		"stored_name": storedName,
	})
}

// List returns the room's summaries, newest first.
func (h *SummaryHandler) List(c *gin.Context) {
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

	summaries, err := h.summaryService.ListByRoom(c.Request.Context(), roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]gin.H, 0, len(summaries))
	for i := range summaries {
		s := &summaries[i]
		points, err := s.ParseKeyPoints()
		if err != nil {
			logrus.WithFields(logrus.Fields{"summary_id": s.ID, "error": err}).Warn("Handler.List: Corrupt key points")
		}
		out = append(out, gin.H{
			"pdf_name":    s.PDFName,
			"summary":     s.SummaryText,
			"key_points":  points,
			"uploaded_at": s.UploadedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"summaries": out})
}

// EnsureUploadDir creates the upload directory at startup.
func (h *SummaryHandler) EnsureUploadDir() error {
	return os.MkdirAll(h.uploadDir, 0o755)
}
