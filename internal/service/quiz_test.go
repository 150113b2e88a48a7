package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Anika2121/brain-bloom/internal/domain"
	"github.com/Anika2121/brain-bloom/internal/hub"
	"github.com/Anika2121/brain-bloom/internal/repository"
	"github.com/Anika2121/brain-bloom/internal/repository/mocks"
	"github.com/Anika2121/brain-bloom/internal/service"
)

type quizFixture struct {
	quizRepo    *mocks.QuizRepository
	roomRepo    *mocks.RoomRepository
	summaryRepo *mocks.SummaryRepository
	stateRepo   *mocks.StateRepository
	ml          *fakeML
	enqueuer    *recordingEnqueuer
	svc         *service.QuizService
}

func newQuizFixture(ml *fakeML) *quizFixture {
	f := &quizFixture{
		quizRepo:    new(mocks.QuizRepository),
		roomRepo:    new(mocks.RoomRepository),
		summaryRepo: new(mocks.SummaryRepository),
		stateRepo:   new(mocks.StateRepository),
		ml:          ml,
		enqueuer:    &recordingEnqueuer{},
	}
	var keyPoints service.KeyPointExtractor
	if ml != nil {
		keyPoints = ml
	}
	f.svc = service.NewQuizService(f.quizRepo, f.roomRepo, f.summaryRepo, f.stateRepo, keyPoints, f.enqueuer)
	return f
}

func (f *quizFixture) expectLock(roomID uint) {
	f.stateRepo.On("AcquireQuizLock", mock.Anything, roomID, mock.Anything).Return(true, nil).Once()
	f.stateRepo.On("ReleaseQuizLock", mock.Anything, roomID).Return(nil).Once()
}

func quizPhaseRoom(id uint, course string) *domain.Room {
	// 22 minutes in puts the room inside its quiz window.
	return &domain.Room{ID: id, Course: course, StartAt: time.Now().Add(-22 * time.Minute)}
}

func TestQuizService_GenerateForRoom_LockHeldElsewhere(t *testing.T) {
	f := newQuizFixture(&fakeML{})
	ctx := context.Background()

	f.stateRepo.On("AcquireQuizLock", mock.Anything, uint(5), mock.Anything).Return(false, nil).Once()

	generated, err := f.svc.GenerateForRoom(ctx, 5)

	require.NoError(t, err)
	assert.Equal(t, 0, generated)
	f.roomRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	f.quizRepo.AssertNotCalled(t, "DeleteByRoom", mock.Anything, mock.Anything)
}

func TestQuizService_GenerateForRoom_NoSummaries(t *testing.T) {
	f := newQuizFixture(&fakeML{})
	ctx := context.Background()

	f.expectLock(5)
	f.roomRepo.On("FindByID", mock.Anything, uint(5)).Return(quizPhaseRoom(5, "Algorithms"), nil).Once()
	f.quizRepo.On("DeleteByRoom", mock.Anything, uint(5)).Return(nil).Once()
	f.summaryRepo.On("FindByRoom", mock.Anything, uint(5)).Return([]domain.Summary{}, nil).Once()

	generated, err := f.svc.GenerateForRoom(ctx, 5)

	require.NoError(t, err)
	assert.Equal(t, 0, generated)
	f.quizRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestQuizService_GenerateForRoom_RoomGone(t *testing.T) {
	f := newQuizFixture(&fakeML{})
	ctx := context.Background()

	f.expectLock(5)
	f.roomRepo.On("FindByID", mock.Anything, uint(5)).Return(nil, repository.ErrNotFound).Once()

	_, err := f.svc.GenerateForRoom(ctx, 5)
	assert.ErrorIs(t, err, service.ErrRoomNotFound)
}

func TestQuizService_GenerateForRoom_BuildsValidQuestions(t *testing.T) {
	ml := &fakeML{
		keyPoints: func(string, int) ([]string, error) {
			return []string{"Sorting", "Searching", "Recursion", "Hashing", "Graphs", "Heaps"}, nil
		},
	}
	f := newQuizFixture(ml)
	ctx := context.Background()

	summary := domain.Summary{RoomID: 5, SummaryText: "Sorting and searching with recursion over graphs."}

	f.expectLock(5)
	f.roomRepo.On("FindByID", mock.Anything, uint(5)).Return(quizPhaseRoom(5, "Algorithms"), nil).Once()
	f.quizRepo.On("DeleteByRoom", mock.Anything, uint(5)).Return(nil).Once()
	f.summaryRepo.On("FindByRoom", mock.Anything, uint(5)).Return([]domain.Summary{summary}, nil).Once()

	var saved []*domain.Quiz
	f.quizRepo.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(1).(*domain.Quiz))
	}).Return(nil)

	generated, err := f.svc.GenerateForRoom(ctx, 5)

	require.NoError(t, err)
	assert.Equal(t, generated, len(saved))
	assert.LessOrEqual(t, generated, 5)
	assert.Greater(t, generated, 0)

	for _, q := range saved {
		assert.Equal(t, uint(5), q.RoomID)
		assert.NotEmpty(t, q.Question)
		options, err := q.ParseOptions()
		require.NoError(t, err)

		correctText, ok := options[q.CorrectAnswer]
		require.True(t, ok, "correct answer key %q must be an option", q.CorrectAnswer)
		assert.NotEmpty(t, correctText)

		switch len(options) {
		case 2:
			assert.Equal(t, map[string]string{"A": "True", "B": "False"}, options)
		case 4:
			seen := map[string]bool{}
			for _, key := range []string{"A", "B", "C", "D"} {
				text, ok := options[key]
				require.True(t, ok, "option %q missing", key)
				assert.False(t, seen[text], "duplicate option text %q", text)
				seen[text] = true
			}
		default:
			t.Fatalf("unexpected option count %d", len(options))
		}
	}
}

func TestQuizService_GenerateForRoom_FallsBackToStoredKeyPoints(t *testing.T) {
	ml := &fakeML{
		keyPoints: func(string, int) ([]string, error) {
			return nil, errors.New("model unavailable")
		},
	}
	f := newQuizFixture(ml)
	ctx := context.Background()

	summary := domain.Summary{RoomID: 5, SummaryText: "Stacks and queues."}
	require.NoError(t, summary.SetKeyPoints([]string{"Stacks", "Queues", "Linked Lists", "Trees"}))

	f.expectLock(5)
	f.roomRepo.On("FindByID", mock.Anything, uint(5)).Return(quizPhaseRoom(5, "Data Structures"), nil).Once()
	f.quizRepo.On("DeleteByRoom", mock.Anything, uint(5)).Return(nil).Once()
	f.summaryRepo.On("FindByRoom", mock.Anything, uint(5)).Return([]domain.Summary{summary}, nil).Once()

	var saved []*domain.Quiz
	f.quizRepo.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(1).(*domain.Quiz))
	}).Return(nil)

	generated, err := f.svc.GenerateForRoom(ctx, 5)

	require.NoError(t, err)
	assert.Greater(t, generated, 0)
	stored := []string{"Stacks", "Queues", "Linked Lists", "Trees"}
	for _, q := range saved {
		found := false
		for _, point := range stored {
			if strings.Contains(q.Question, point) {
				found = true
				break
			}
		}
		assert.True(t, found, "question %q does not use a stored key point", q.Question)
	}
}

func TestQuizService_EnsureQuizzes(t *testing.T) {
	t.Run("enqueues in quiz phase with no quizzes", func(t *testing.T) {
		f := newQuizFixture(&fakeML{})
		room := quizPhaseRoom(5, "Algorithms")
		f.quizRepo.On("CountByRoom", mock.Anything, uint(5)).Return(int64(0), nil).Once()

		require.NoError(t, f.svc.EnsureQuizzes(context.Background(), room))
		assert.Equal(t, []uint{5}, f.enqueuer.quizRooms)
	})

	t.Run("skips outside quiz phase", func(t *testing.T) {
		f := newQuizFixture(&fakeML{})
		room := &domain.Room{ID: 5, StartAt: time.Now().Add(-5 * time.Minute)}

		require.NoError(t, f.svc.EnsureQuizzes(context.Background(), room))
		assert.Empty(t, f.enqueuer.quizRooms)
		f.quizRepo.AssertNotCalled(t, "CountByRoom", mock.Anything, mock.Anything)
	})

	t.Run("skips when quizzes exist", func(t *testing.T) {
		f := newQuizFixture(&fakeML{})
		room := quizPhaseRoom(5, "Algorithms")
		f.quizRepo.On("CountByRoom", mock.Anything, uint(5)).Return(int64(4), nil).Once()

		require.NoError(t, f.svc.EnsureQuizzes(context.Background(), room))
		assert.Empty(t, f.enqueuer.quizRooms)
	})
}

func TestQuizService_HandleQuizResponse(t *testing.T) {
	newQuiz := func() *domain.Quiz {
		q := &domain.Quiz{ID: 11, RoomID: 5, Question: "What is X?", CorrectAnswer: "B"}
		if err := q.SetOptions(map[string]string{"A": "one", "B": "two", "C": "three", "D": "four"}); err != nil {
			t.Fatal(err)
		}
		return q
	}

	t.Run("records uppercase answer", func(t *testing.T) {
		f := newQuizFixture(&fakeML{})
		f.quizRepo.On("FindByID", mock.Anything, uint(11)).Return(newQuiz(), nil).Once()

		var saved *domain.QuizResponse
		f.quizRepo.On("UpsertResponse", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.QuizResponse)
		}).Return(nil).Once()

		err := f.svc.HandleQuizResponse(context.Background(), 5, 9, 11, " b ")
		require.NoError(t, err)
		assert.Equal(t, &domain.QuizResponse{RoomID: 5, UserID: 9, QuizID: 11, SelectedAnswer: "B"}, saved)
	})

	t.Run("rejects quiz from another room", func(t *testing.T) {
		f := newQuizFixture(&fakeML{})
		f.quizRepo.On("FindByID", mock.Anything, uint(11)).Return(newQuiz(), nil).Once()

		err := f.svc.HandleQuizResponse(context.Background(), 8, 9, 11, "B")
		assert.ErrorIs(t, err, service.ErrQuizNotFound)
	})

	t.Run("rejects unknown option", func(t *testing.T) {
		f := newQuizFixture(&fakeML{})
		f.quizRepo.On("FindByID", mock.Anything, uint(11)).Return(newQuiz(), nil).Once()

		err := f.svc.HandleQuizResponse(context.Background(), 5, 9, 11, "E")
		assert.ErrorIs(t, err, service.ErrValidation)
		f.quizRepo.AssertNotCalled(t, "UpsertResponse", mock.Anything, mock.Anything)
	})

	t.Run("missing quiz", func(t *testing.T) {
		f := newQuizFixture(&fakeML{})
		f.quizRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, repository.ErrNotFound).Once()

		err := f.svc.HandleQuizResponse(context.Background(), 5, 9, 99, "A")
		assert.ErrorIs(t, err, service.ErrQuizNotFound)
	})
}

func TestQuizService_QuizzesForRoom_SkipsCorruptOptions(t *testing.T) {
	f := newQuizFixture(&fakeML{})

	good := domain.Quiz{ID: 1, RoomID: 5, Question: "ok?"}
	require.NoError(t, good.SetOptions(map[string]string{"A": "True", "B": "False"}))
	bad := domain.Quiz{ID: 2, RoomID: 5, Question: "broken?", Options: "{not json"}

	f.quizRepo.On("FindByRoom", mock.Anything, uint(5)).Return([]domain.Quiz{good, bad}, nil).Once()

	payloads, err := f.svc.QuizzesForRoom(context.Background(), 5)

	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Equal(t, uint(1), payloads[0].ID)
	assert.Equal(t, "ok?", payloads[0].Question)
	assert.Equal(t, map[string]string{"A": "True", "B": "False"}, payloads[0].Options)
}

func TestQuizService_Rankings_ScoresAndSorts(t *testing.T) {
	f := newQuizFixture(&fakeML{})
	ctx := context.Background()

	f.stateRepo.On("GetRankingCache", mock.Anything, uint(5)).Return(nil, repository.ErrNotFound).Once()
	f.roomRepo.On("Members", mock.Anything, uint(5)).Return([]domain.User{
		{ID: 1, Name: "Zara"},
		{ID: 2, Name: "Anika"},
		{ID: 3, Name: "Mitu"},
	}, nil).Once()
	f.quizRepo.On("FindByRoom", mock.Anything, uint(5)).Return([]domain.Quiz{
		{ID: 10, RoomID: 5, CorrectAnswer: "A"},
		{ID: 11, RoomID: 5, CorrectAnswer: "C"},
	}, nil).Once()
	f.quizRepo.On("ResponsesByRoom", mock.Anything, uint(5)).Return([]domain.QuizResponse{
		{UserID: 1, QuizID: 10, SelectedAnswer: "A"},
		{UserID: 1, QuizID: 11, SelectedAnswer: "B"},
		{UserID: 2, QuizID: 10, SelectedAnswer: "A"},
		{UserID: 2, QuizID: 11, SelectedAnswer: "C"},
		{UserID: 3, QuizID: 10, SelectedAnswer: "A"},
	}, nil).Once()
	f.stateRepo.On("SetRankingCache", mock.Anything, uint(5), mock.Anything, mock.Anything).Return(nil).Once()

	entries, err := f.svc.Rankings(ctx, 5)

	require.NoError(t, err)
	assert.Equal(t, []hub.RankingEntry{
		{Name: "Anika", Score: 2},
		{Name: "Mitu", Score: 1},
		{Name: "Zara", Score: 1},
	}, entries)
}

func TestQuizService_Rankings_ServedFromCache(t *testing.T) {
	f := newQuizFixture(&fakeML{})

	cached := []hub.RankingEntry{{Name: "Anika", Score: 3}}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)
	f.stateRepo.On("GetRankingCache", mock.Anything, uint(5)).Return(payload, nil).Once()

	entries, err := f.svc.Rankings(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, cached, entries)
	f.roomRepo.AssertNotCalled(t, "Members", mock.Anything, mock.Anything)
}
