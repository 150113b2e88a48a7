package domain

import "time"

// Phase is the lifecycle state of a room, derived from the wall-clock
// offset from its scheduled start. Transitions are monotonic; PhaseExpired
// is terminal.
type Phase int

const (
	PhasePre Phase = iota
	PhaseStudy
	PhaseQuiz
	PhaseRanking
	PhaseExpired
)

// Fixed phase windows. Chat opens one minute before the scheduled start.
const (
	PreOpenLead     = 1 * time.Minute
	StudyDuration   = 20 * time.Minute
	QuizDuration    = 7 * time.Minute
	RankingDuration = 5 * time.Minute
)

func (p Phase) String() string {
	switch p {
	case PhasePre:
		return "pre"
	case PhaseStudy:
		return "study"
	case PhaseQuiz:
		return "quiz"
	case PhaseRanking:
		return "ranking"
	case PhaseExpired:
		return "expired"
	}
	return "unknown"
}

// PhaseOf maps (start, now) to the current phase. Each phase is a
// half-open interval: the instant a boundary is reached belongs to the
// next phase.
func PhaseOf(start, now time.Time) Phase {
	switch {
	case now.Before(start.Add(-PreOpenLead)):
		return PhasePre
	case now.Before(QuizStartAt(start)):
		return PhaseStudy
	case now.Before(RankingStartAt(start)):
		return PhaseQuiz
	case now.Before(ExpiryAt(start)):
		return PhaseRanking
	default:
		return PhaseExpired
	}
}

// QuizStartAt returns the STUDY→QUIZ boundary. Quiz generation is
// triggered at this boundary, on first observation of the QUIZ phase.
func QuizStartAt(start time.Time) time.Time {
	return start.Add(StudyDuration)
}

// RankingStartAt returns the QUIZ→RANKING boundary.
func RankingStartAt(start time.Time) time.Time {
	return start.Add(StudyDuration + QuizDuration)
}

// ExpiryAt returns the instant the room becomes eligible for deletion.
func ExpiryAt(start time.Time) time.Time {
	return start.Add(StudyDuration + QuizDuration + RankingDuration)
}
