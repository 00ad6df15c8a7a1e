package app

import (
	"context"
	"sync"

	"trivia-quiz-service/internal/domain"
)

// QuestionSource fetches a normalized question batch (remote API, fixtures, etc).
type QuestionSource interface {
	Fetch(ctx context.Context, amount int, questionType string) ([]domain.Question, error)
}

// Snapshot is the presenter-facing view of a session at one point in time.
// The correct answer is only revealed once the current question is answered.
type Snapshot struct {
	Phase          domain.Phase `json:"phase"`
	Message        string       `json:"message,omitempty"`
	QuestionNumber int          `json:"questionNumber,omitempty"`
	TotalQuestions int          `json:"totalQuestions,omitempty"`
	Prompt         string       `json:"prompt,omitempty"`
	Options        []string     `json:"options,omitempty"`
	SelectedAnswer string       `json:"selectedAnswer,omitempty"`
	Answered       bool         `json:"answered"`
	CorrectAnswer  string       `json:"correctAnswer,omitempty"`
	Score          int          `json:"score"`
}

// Session owns the progress of a single quiz run: the loaded questions, the
// current index, the per-question answer state, and the score. All mutations
// are serialized under the mutex, so they are totally ordered; the only
// asynchronous producer is the fetch goroutine, which is fenced by a
// generation token so a stale response can never clobber a newer restart.
type Session struct {
	source       QuestionSource
	amount       int
	questionType string

	mu          sync.Mutex
	generation  uint64
	phase       domain.Phase
	message     string
	questions   []domain.Question
	current     int
	selected    string
	answered    bool
	score       int
	subscribers map[chan Snapshot]struct{}
}

func NewSession(source QuestionSource, amount int, questionType string) *Session {
	return &Session{
		source:       source,
		amount:       amount,
		questionType: questionType,
		phase:        domain.PhaseLoading,
		subscribers:  make(map[chan Snapshot]struct{}),
	}
}

// Start discards any current state, enters the loading phase, and launches a
// fetch. Valid from any phase: it serves as the initial load, the retry path
// out of an error, and the restart path out of a finished quiz.
func (s *Session) Start(ctx context.Context) {
	token := s.beginFetch()
	go func() {
		questions, err := s.source.Fetch(ctx, s.amount, s.questionType)
		s.completeFetch(token, questions, err)
	}()
}

// Retry re-attempts the fetch after an error.
func (s *Session) Retry(ctx context.Context) { s.Start(ctx) }

// Restart throws away the current quiz and fetches a fresh batch. This is a
// logically new session, not a reset of the existing question set.
func (s *Session) Restart(ctx context.Context) { s.Start(ctx) }

// beginFetch resets the session to loading and issues a new fetch generation.
func (s *Session) beginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.phase = domain.PhaseLoading
	s.message = ""
	s.questions = nil
	s.current = 0
	s.selected = ""
	s.answered = false
	s.score = 0
	s.broadcastLocked()
	return s.generation
}

// completeFetch applies a fetch outcome. Outcomes carrying a superseded
// generation token are discarded: only the most recently issued fetch may
// drive the loading phase forward.
func (s *Session) completeFetch(token uint64, questions []domain.Question, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.generation || s.phase != domain.PhaseLoading {
		return
	}
	if err != nil {
		s.phase = domain.PhaseError
		s.message = err.Error()
		s.broadcastLocked()
		return
	}
	if len(questions) == 0 {
		s.phase = domain.PhaseError
		s.message = domain.ErrNoQuestions.Error()
		s.broadcastLocked()
		return
	}

	s.phase = domain.PhaseInProgress
	s.questions = questions
	s.broadcastLocked()
}

// SubmitAnswer records the selection for the current question and scores it.
// Calls while the question is already answered are no-ops, which is the guard
// against double-scoring.
func (s *Session) SubmitAnswer(option string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseInProgress || s.answered {
		return
	}
	s.selected = option
	s.answered = true
	if option == s.questions[s.current].CorrectAnswer {
		s.score++
	}
	s.broadcastLocked()
}

// Advance moves to the next question, or finishes the quiz on the last one.
// Ignored until the current question has been answered.
func (s *Session) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseInProgress || !s.answered || len(s.questions) == 0 {
		return
	}
	if s.current == len(s.questions)-1 {
		s.phase = domain.PhaseFinished
		s.broadcastLocked()
		return
	}
	s.current++
	s.selected = ""
	s.answered = false
	s.broadcastLocked()
}

// Snapshot returns the current presenter-facing state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel that receives the current snapshot immediately
// and a fresh one after every mutation. The caller must invoke the returned
// cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the oldest update so a slow presenter cannot block mutations.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Phase:    s.phase,
		Message:  s.message,
		Answered: s.answered,
		Score:    s.score,
	}
	if s.phase == domain.PhaseInProgress || s.phase == domain.PhaseFinished {
		snap.TotalQuestions = len(s.questions)
	}
	if s.phase == domain.PhaseInProgress {
		question := s.questions[s.current]
		snap.QuestionNumber = s.current + 1
		snap.Prompt = question.Prompt
		snap.Options = append([]string(nil), question.Options...)
		snap.SelectedAnswer = s.selected
		if s.answered {
			snap.CorrectAnswer = question.CorrectAnswer
		}
	}
	return snap
}
