package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Anika2121/brain-bloom/internal/domain"
	"github.com/Anika2121/brain-bloom/internal/hub"
	"github.com/Anika2121/brain-bloom/internal/repository"
)

const (
	maxQuizQuestions = 5
	quizLockTTL      = 2 * time.Minute
	rankingCacheTTL  = 30 * time.Second
	distractorCount  = 3
)

// keyPointStoplist drops extraction noise that makes unusable questions.
var keyPointStoplist = map[string]bool{"example": true, "device": true, "stored": true}

// QuizEnqueuer hands quiz generation to the background worker.
type QuizEnqueuer interface {
	EnqueueQuizGenerate(ctx context.Context, roomID uint) error
}

// QuizService generates each room's quiz from its summaries, records
// participant responses and computes rankings.
type QuizService struct {
	quizRepo    repository.QuizRepository
	roomRepo    repository.RoomRepository
	summaryRepo repository.SummaryRepository
	stateRepo   repository.StateRepository
	keyPoints   KeyPointExtractor
	enqueuer    QuizEnqueuer

	rngMu sync.Mutex
	rng   *rand.Rand
	now   func() time.Time
}

func NewQuizService(
	quizRepo repository.QuizRepository,
	roomRepo repository.RoomRepository,
	summaryRepo repository.SummaryRepository,
	stateRepo repository.StateRepository,
	keyPoints KeyPointExtractor,
	enqueuer QuizEnqueuer,
) *QuizService {
	if quizRepo == nil || roomRepo == nil || summaryRepo == nil {
		panic("service: quiz service repositories are nil")
	}
	if stateRepo == nil {
		panic("service: state repository is nil")
	}
	return &QuizService{
		quizRepo:    quizRepo,
		roomRepo:    roomRepo,
		summaryRepo: summaryRepo,
		stateRepo:   stateRepo,
		keyPoints:   keyPoints,
		enqueuer:    enqueuer,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
	}
}

// EnsureQuizzes enqueues generation when the room has entered its quiz
// window and no quizzes exist yet. Safe to call on every room observation.
func (s *QuizService) EnsureQuizzes(ctx context.Context, room *domain.Room) error {
	if room.PhaseAt(s.now()) != domain.PhaseQuiz {
		return nil
	}
	count, err := s.quizRepo.CountByRoom(ctx, room.ID)
	if err != nil {
		return fmt.Errorf("service: count quizzes: %w", err)
	}
	if count > 0 {
		return nil
	}
	if s.enqueuer == nil {
		return nil
	}
	return s.enqueuer.EnqueueQuizGenerate(ctx, room.ID)
}

// GenerateForRoom builds the room's quiz under the per-room redis lock.
// Existing quizzes are cleared first so a regeneration is always a full
// replacement. Returns the number of questions created; 0 with a nil
// error means another process holds the lock or no material exists.
func (s *QuizService) GenerateForRoom(ctx context.Context, roomID uint) (int, error) {
	logCtx := logrus.WithField("room_id", roomID)

	acquired, err := s.stateRepo.AcquireQuizLock(ctx, roomID, quizLockTTL)
	if err != nil {
		return 0, fmt.Errorf("service: acquire quiz lock: %w", err)
	}
	if !acquired {
		logCtx.Info("Quiz generation already in progress elsewhere")
		return 0, nil
	}
	defer func() {
		if err := s.stateRepo.ReleaseQuizLock(context.Background(), roomID); err != nil {
			logCtx.WithField("error", err).Warn("Failed to release quiz lock")
		}
	}()

	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrRoomNotFound
		}
		return 0, fmt.Errorf("service: load room: %w", err)
	}

	if err := s.quizRepo.DeleteByRoom(ctx, roomID); err != nil {
		return 0, fmt.Errorf("service: clear quizzes: %w", err)
	}

	summaries, err := s.summaryRepo.FindByRoom(ctx, roomID)
	if err != nil {
		return 0, fmt.Errorf("service: load summaries: %w", err)
	}
	if len(summaries) == 0 {
		logCtx.Warn("No summaries available, skipping quiz generation")
		return 0, nil
	}

	texts := make([]string, 0, len(summaries))
	for _, sum := range summaries {
		texts = append(texts, sum.SummaryText)
	}
	combined := strings.Join(texts, " ")

	keyPoints := s.roomKeyPoints(ctx, room, &summaries[0], combined)
	keyPoints = filterKeyPoints(keyPoints)
	course := strings.TrimSpace(room.Course)
	if len(keyPoints) == 0 {
		logCtx.Warn("No valid key points after filtering, using course subtopics")
		keyPoints = subtopicsForCourse(course)
	}

	templates := templatesForCourse(course)
	pool := subtopicsForCourse(course)

	generated := 0
	for i := 0; i < maxQuizQuestions && i < len(keyPoints); i++ {
		keyPoint := keyPoints[i]
		tmpl := templates[s.intn(len(templates))]
		question := strings.ReplaceAll(tmpl.Text, "{key_point}", keyPoint)
		correct := correctAnswerFor(tmpl, keyPoint)

		options, correctKey, err := s.buildOptions(ctx, course, tmpl.Kind, keyPoint, correct, combined, pool)
		if err != nil {
			logCtx.WithFields(logrus.Fields{"key_point": keyPoint, "error": err}).Error("Skipping question")
			continue
		}

		quiz := &domain.Quiz{RoomID: roomID, Question: question, CorrectAnswer: correctKey}
		if err := quiz.SetOptions(options); err != nil {
			logCtx.WithFields(logrus.Fields{"key_point": keyPoint, "error": err}).Error("Skipping question")
			continue
		}
		if err := s.quizRepo.Save(ctx, quiz); err != nil {
			logCtx.WithFields(logrus.Fields{"key_point": keyPoint, "error": err}).Error("Failed to save question")
			continue
		}
		generated++
	}

	logCtx.WithField("questions", generated).Info("Quiz generation finished")
	return generated, nil
}

// QuizzesForRoom returns the room's questions in client form, with the
// correct answers stripped.
func (s *QuizService) QuizzesForRoom(ctx context.Context, roomID uint) ([]hub.QuizPayload, error) {
	quizzes, err := s.quizRepo.FindByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("service: load quizzes: %w", err)
	}
	payloads := make([]hub.QuizPayload, 0, len(quizzes))
	for _, q := range quizzes {
		options, err := q.ParseOptions()
		if err != nil {
			logrus.WithFields(logrus.Fields{"quiz_id": q.ID, "error": err}).Error("Corrupt quiz options")
			continue
		}
		payloads = append(payloads, hub.QuizPayload{ID: q.ID, Question: q.Question, Options: options})
	}
	return payloads, nil
}

// HandleQuizResponse validates and records one answer. Resubmitting a
// quiz overwrites the previous selection.
func (s *QuizService) HandleQuizResponse(ctx context.Context, roomID, userID, quizID uint, selectedAnswer string) error {
	selectedAnswer = strings.ToUpper(strings.TrimSpace(selectedAnswer))
	quiz, err := s.quizRepo.FindByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("service: load quiz: %w", err)
	}
	if quiz.RoomID != roomID {
		return ErrQuizNotFound
	}
	options, err := quiz.ParseOptions()
	if err != nil {
		return fmt.Errorf("service: parse quiz options: %w", err)
	}
	if _, ok := options[selectedAnswer]; !ok {
		return fmt.Errorf("%w: selected answer is not an option", ErrValidation)
	}

	response := &domain.QuizResponse{
		RoomID:         roomID,
		UserID:         userID,
		QuizID:         quizID,
		SelectedAnswer: selectedAnswer,
	}
	if err := s.quizRepo.UpsertResponse(ctx, response); err != nil {
		return fmt.Errorf("service: save response: %w", err)
	}
	return nil
}

// Rankings returns every room member's score, highest first, ties broken
// alphabetically. Members with no responses score zero. Results are cached
// briefly in redis since the ranking phase re-requests them on every view.
func (s *QuizService) Rankings(ctx context.Context, roomID uint) ([]hub.RankingEntry, error) {
	if cached, err := s.stateRepo.GetRankingCache(ctx, roomID); err == nil {
		var entries []hub.RankingEntry
		if err := json.Unmarshal(cached, &entries); err == nil {
			return entries, nil
		}
	}

	members, err := s.roomRepo.Members(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("service: load members: %w", err)
	}
	quizzes, err := s.quizRepo.FindByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("service: load quizzes: %w", err)
	}
	correctByQuiz := make(map[uint]string, len(quizzes))
	for _, q := range quizzes {
		correctByQuiz[q.ID] = q.CorrectAnswer
	}

	responses, err := s.quizRepo.ResponsesByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("service: load responses: %w", err)
	}
	scores := make(map[uint]int, len(members))
	for _, r := range responses {
		if correct, ok := correctByQuiz[r.QuizID]; ok && r.SelectedAnswer == correct {
			scores[r.UserID]++
		}
	}

	entries := make([]hub.RankingEntry, 0, len(members))
	for _, m := range members {
		entries = append(entries, hub.RankingEntry{Name: m.DisplayName(), Score: scores[m.ID]})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})

	if payload, err := json.Marshal(entries); err == nil {
		if err := s.stateRepo.SetRankingCache(ctx, roomID, payload, rankingCacheTTL); err != nil {
			logrus.WithFields(logrus.Fields{"room_id": roomID, "error": err}).Warn("Failed to cache rankings")
		}
	}
	return entries, nil
}

// roomKeyPoints picks the key points feeding generation: live extraction
// over the combined summaries, then the latest summary's stored points,
// then the course name itself.
func (s *QuizService) roomKeyPoints(ctx context.Context, room *domain.Room, latest *domain.Summary, combined string) []string {
	if s.keyPoints != nil {
		points, err := s.keyPoints.ExtractKeyPoints(ctx, combined, 10)
		if err == nil && len(points) > 0 {
			return points
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{"room_id": room.ID, "error": err}).Error("Key point extraction failed")
		}
	}
	if points, err := latest.ParseKeyPoints(); err == nil && len(points) > 0 {
		return points
	}
	return []string{room.Course}
}

func (s *QuizService) buildOptions(ctx context.Context, course string, kind templateKind, keyPoint, correct, summaryText string, pool []string) (map[string]string, string, error) {
	if kind == kindTrueFalse {
		key := "B"
		if correct == "True" {
			key = "A"
		}
		return map[string]string{"A": "True", "B": "False"}, key, nil
	}

	var candidates []string
	switch {
	case course == "Algorithms" && kind == kindTimeComplexity:
		candidates = excluding(complexityDistractors, correct)
	case course == "Algorithms" && kind == kindUseCase:
		candidates = excluding(useCaseDistractors, correct)
	default:
		for _, term := range pool {
			if !strings.EqualFold(term, keyPoint) && !strings.EqualFold(term, correct) {
				candidates = append(candidates, term)
			}
		}
		if len(candidates) < distractorCount {
			candidates = s.dynamicDistractors(ctx, summaryText, correct)
		}
	}
	if len(candidates) < distractorCount {
		return nil, "", fmt.Errorf("not enough distractors for %q", keyPoint)
	}

	incorrect := s.sample(candidates, distractorCount)
	all := append([]string{correct}, incorrect...)
	s.shuffle(all)

	letters := []string{"A", "B", "C", "D"}
	options := make(map[string]string, len(all))
	correctKey := ""
	for i, text := range all {
		options[letters[i]] = text
		if correctKey == "" && text == correct {
			correctKey = letters[i]
		}
	}
	return options, correctKey, nil
}

// dynamicDistractors re-extracts phrases from the summary text when the
// curated pool cannot supply three distinct wrong answers; placeholders
// are the terminal fallback.
func (s *QuizService) dynamicDistractors(ctx context.Context, summaryText, correct string) []string {
	var candidates []string
	if s.keyPoints != nil {
		if points, err := s.keyPoints.ExtractKeyPoints(ctx, summaryText, 10); err == nil {
			for _, p := range points {
				if !strings.EqualFold(p, correct) {
					candidates = append(candidates, p)
				}
			}
		} else {
			logrus.WithField("error", err).Warn("Dynamic distractor extraction failed")
		}
	}
	if len(candidates) < distractorCount {
		return []string{"Alternative Concept 1", "Alternative Concept 2", "Alternative Concept 3"}
	}
	return candidates
}

func (s *QuizService) intn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}

func (s *QuizService) sample(items []string, n int) []string {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	perm := s.rng.Perm(len(items))
	out := make([]string, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, items[idx])
	}
	return out
}

func (s *QuizService) shuffle(items []string) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
}

func filterKeyPoints(points []string) []string {
	var out []string
	for _, p := range points {
		p = strings.TrimSpace(p)
		if p == "" || len(strings.Fields(p)) > 3 || keyPointStoplist[strings.ToLower(p)] {
			continue
		}
		out = append(out, p)
	}
	return out
}

func excluding(items []string, remove string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item != remove {
			out = append(out, item)
		}
	}
	return out
}
