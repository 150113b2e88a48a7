package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Anika2121/brain-bloom/internal/domain"
)

var phaseStart = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func TestPhaseOf_Timeline(t *testing.T) {
	cases := []struct {
		name   string
		offset time.Duration
		want   domain.Phase
	}{
		{"two minutes before start", -2 * time.Minute, domain.PhasePre},
		{"exactly one minute before start", -1 * time.Minute, domain.PhaseStudy},
		{"at start", 0, domain.PhaseStudy},
		{"five minutes in", 5 * time.Minute, domain.PhaseStudy},
		{"just before quiz boundary", 20*time.Minute - time.Second, domain.PhaseStudy},
		{"at quiz boundary", 20 * time.Minute, domain.PhaseQuiz},
		{"one minute into quiz", 21 * time.Minute, domain.PhaseQuiz},
		{"at ranking boundary", 27 * time.Minute, domain.PhaseRanking},
		{"one minute into ranking", 28 * time.Minute, domain.PhaseRanking},
		{"at expiry", 32 * time.Minute, domain.PhaseExpired},
		{"well past expiry", 33 * time.Minute, domain.PhaseExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.PhaseOf(phaseStart, phaseStart.Add(tc.offset))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPhaseOf_Monotonic(t *testing.T) {
	// Walking forward through the whole lifecycle must never move to an
	// earlier phase.
	prev := domain.PhaseOf(phaseStart, phaseStart.Add(-10*time.Minute))
	for offset := -10 * time.Minute; offset <= 40*time.Minute; offset += 10 * time.Second {
		current := domain.PhaseOf(phaseStart, phaseStart.Add(offset))
		assert.GreaterOrEqual(t, int(current), int(prev), "phase regressed at offset %s", offset)
		prev = current
	}
}

func TestPhaseBoundaries(t *testing.T) {
	assert.Equal(t, phaseStart.Add(20*time.Minute), domain.QuizStartAt(phaseStart))
	assert.Equal(t, phaseStart.Add(27*time.Minute), domain.RankingStartAt(phaseStart))
	assert.Equal(t, phaseStart.Add(32*time.Minute), domain.ExpiryAt(phaseStart))
}

func TestRoom_Expired(t *testing.T) {
	room := &domain.Room{StartAt: phaseStart}
	assert.False(t, room.Expired(phaseStart.Add(31*time.Minute)))
	assert.True(t, room.Expired(phaseStart.Add(32*time.Minute)))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "pre", domain.PhasePre.String())
	assert.Equal(t, "study", domain.PhaseStudy.String())
	assert.Equal(t, "quiz", domain.PhaseQuiz.String())
	assert.Equal(t, "ranking", domain.PhaseRanking.String())
	assert.Equal(t, "expired", domain.PhaseExpired.String())
}
