package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Anika2121/brain-bloom/internal/domain"
	"github.com/Anika2121/brain-bloom/internal/hub"
	"github.com/Anika2121/brain-bloom/internal/repository"
	"github.com/Anika2121/brain-bloom/internal/tasks"
)

const (
	// chunkWords bounds the text fed to one summarization call.
	chunkWords = 800

	// minExtractedChars is the minimum extracted text length considered
	// summarizable.
	minExtractedChars = 10

	keyPointCount = 5
)

// EventPublisher fans an event out to a room's websocket subscribers.
// Satisfied by *hub.Hub.
type EventPublisher interface {
	Publish(roomID uint, event hub.Event)
}

// SummarizeEnqueuer hands an upload to the background worker.
type SummarizeEnqueuer interface {
	EnqueueSummarize(ctx context.Context, p tasks.SummarizePayload) error
}

// SummaryService accepts PDF uploads during the study phase and runs the
// chunked summarization pipeline on the worker side.
type SummaryService struct {
	summaryRepo repository.SummaryRepository
	roomRepo    repository.RoomRepository
	userRepo    repository.UserRepository
	extractor   TextExtractor
	summarizer  Summarizer
	keyPoints   KeyPointExtractor
	publisher   EventPublisher
	enqueuer    SummarizeEnqueuer
	now         func() time.Time
}

func NewSummaryService(
	summaryRepo repository.SummaryRepository,
	roomRepo repository.RoomRepository,
	userRepo repository.UserRepository,
	extractor TextExtractor,
	summarizer Summarizer,
	keyPoints KeyPointExtractor,
	publisher EventPublisher,
	enqueuer SummarizeEnqueuer,
) *SummaryService {
	if summaryRepo == nil || roomRepo == nil || userRepo == nil {
		panic("service: summary service repositories are nil")
	}
	if publisher == nil {
		panic("service: event publisher is nil")
	}
	return &SummaryService{
		summaryRepo: summaryRepo,
		roomRepo:    roomRepo,
		userRepo:    userRepo,
		extractor:   extractor,
		summarizer:  summarizer,
		keyPoints:   keyPoints,
		publisher:   publisher,
		enqueuer:    enqueuer,
		now:         time.Now,
	}
}

// Upload validates an upload against the room's phase and filename
// uniqueness, then enqueues the summarization job. It returns the stored
// name assigned to the file.
func (s *SummaryService) Upload(ctx context.Context, roomID, uploaderID uint, pdfName string) (string, error) {
	pdfName = strings.TrimSpace(pdfName)
	if pdfName == "" || !strings.HasSuffix(strings.ToLower(pdfName), ".pdf") {
		return "", fmt.Errorf("%w: only PDF files are accepted", ErrValidation)
	}

	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrRoomNotFound
		}
		return "", fmt.Errorf("service: load room: %w", err)
	}
	now := s.now()
	if room.Expired(now) {
		return "", ErrRoomNotFound
	}
	if room.PhaseAt(now) != domain.PhaseStudy {
		return "", fmt.Errorf("%w: uploads are only accepted during the study session", ErrValidation)
	}

	exists, err := s.summaryRepo.ExistsByRoomAndName(ctx, roomID, pdfName)
	if err != nil {
		return "", fmt.Errorf("service: check duplicate upload: %w", err)
	}
	if exists {
		return "", ErrDuplicateSummary
	}

	storedName := uuid.New().String() + "_" + pdfName
	s.publisher.Publish(roomID, hub.NewSummarizingStartEvent())
	if err := s.enqueuer.EnqueueSummarize(ctx, tasks.SummarizePayload{
		RoomID:     roomID,
		UploaderID: uploaderID,
		PDFName:    pdfName,
		StoredName: storedName,
	}); err != nil {
		return "", fmt.Errorf("service: enqueue summarization: %w", err)
	}
	return storedName, nil
}

// ListByRoom returns the room's summaries, newest first.
func (s *SummaryService) ListByRoom(ctx context.Context, roomID uint) ([]domain.Summary, error) {
	summaries, err := s.summaryRepo.FindByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("service: list summaries: %w", err)
	}
	return summaries, nil
}

// Process runs the worker-side pipeline for one upload: extract, summarize
// chunk by chunk, combine, pull key points and persist. Progress events go
// out over the room channel as each stage completes.
func (s *SummaryService) Process(ctx context.Context, p tasks.SummarizePayload) error {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": p.RoomID, "pdf": p.PDFName})

	// A retried task whose first attempt already persisted must not fail
	// on the unique index.
	exists, err := s.summaryRepo.ExistsByRoomAndName(ctx, p.RoomID, p.PDFName)
	if err != nil {
		return fmt.Errorf("service: check existing summary: %w", err)
	}
	if exists {
		logCtx.Info("Summary already present, skipping")
		return nil
	}

	text, err := s.extractor.ExtractText(ctx, p.StoredName)
	if err != nil {
		s.notify(p.RoomID, "Could not read the uploaded PDF: "+p.PDFName)
		return fmt.Errorf("service: extract text: %w", err)
	}
	if len(strings.TrimSpace(text)) < minExtractedChars {
		s.notify(p.RoomID, "No readable text found in "+p.PDFName+". Please upload a text-based PDF.")
		return fmt.Errorf("%w: extracted text too short", ErrValidation)
	}

	chunks := chunkText(text, chunkWords)
	logCtx.WithField("chunks", len(chunks)).Info("Summarizing upload")

	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		maxLen, minLen := summaryBounds(chunk)
		summary, err := s.summarizer.Summarize(ctx, chunk, maxLen, minLen)
		if err != nil {
			s.notify(p.RoomID, "Summarization failed for "+p.PDFName+". Please try again.")
			return fmt.Errorf("service: summarize chunk %d: %w", i+1, err)
		}
		summaries = append(summaries, summary)
		s.publisher.Publish(p.RoomID, hub.NewChunkSummaryEvent(summary, i+1))
	}

	final := summaries[0]
	if len(summaries) > 1 {
		combined := strings.Join(summaries, " ")
		maxLen, minLen := summaryBounds(combined)
		final, err = s.summarizer.Summarize(ctx, combined, maxLen, minLen)
		if err != nil {
			logCtx.WithField("error", err).Warn("Combined summarization failed, joining chunk summaries")
			final = combined
		}
	}

	points := s.extractKeyPoints(ctx, final)

	username := ""
	if uploader, err := s.userRepo.FindByID(ctx, p.UploaderID); err == nil {
		username = uploader.DisplayName()
	}

	summary := &domain.Summary{
		RoomID:      p.RoomID,
		UploaderID:  p.UploaderID,
		PDFName:     p.PDFName,
		StoredName:  p.StoredName,
		SummaryText: final,
	}
	if err := summary.SetKeyPoints(points); err != nil {
		return fmt.Errorf("service: encode key points: %w", err)
	}
	if err := s.summaryRepo.Save(ctx, summary); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Info("Summary persisted by a concurrent attempt")
			return nil
		}
		return fmt.Errorf("service: save summary: %w", err)
	}

	s.publisher.Publish(p.RoomID, hub.NewFinalSummaryEvent(final, username, p.PDFName))
	logCtx.Info("Summary pipeline finished")
	return nil
}

func (s *SummaryService) extractKeyPoints(ctx context.Context, text string) []string {
	if s.keyPoints != nil {
		points, err := s.keyPoints.ExtractKeyPoints(ctx, text, keyPointCount)
		if err == nil && len(points) > 0 {
			return points
		}
		if err != nil {
			logrus.WithField("error", err).Warn("Key point extraction failed, falling back to sentences")
		}
	}
	return leadingSentences(text, keyPointCount)
}

func (s *SummaryService) notify(roomID uint, message string) {
	s.publisher.Publish(roomID, hub.NewRoomNotificationEvent(message, ""))
}

// chunkText splits text into word windows of at most maxWords each.
func chunkText(text string, maxWords int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var chunks []string
	for start := 0; start < len(words); start += maxWords {
		end := start + maxWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

// summaryBounds derives summarization length bounds from the input size so
// short chunks do not get padded summaries.
func summaryBounds(text string) (maxLen, minLen int) {
	words := len(strings.Fields(text))
	maxLen = words / 3
	if maxLen > 150 {
		maxLen = 150
	}
	if maxLen < 50 {
		maxLen = 50
	}
	if words < maxLen {
		maxLen = words / 2
		if maxLen < 10 {
			maxLen = 10
		}
	}
	minLen = maxLen / 3
	if minLen > 30 {
		minLen = 30
	}
	if minLen < 5 {
		minLen = 5
	}
	return maxLen, minLen
}

// leadingSentences returns the first n sentences of text, used when the
// key point model is unavailable.
func leadingSentences(text string, n int) []string {
	parts := strings.Split(text, ". ")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(strings.TrimSuffix(p, "."))
		if p == "" {
			continue
		}
		out = append(out, p)
		if len(out) == n {
			break
		}
	}
	return out
}
