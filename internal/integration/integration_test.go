package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/opentdb"
)

const triviaPayload = `{
	"response_code": 0,
	"results": [
		{
			"question": "What does &quot;HTTP&quot; stand for?",
			"correct_answer": "HyperText Transfer Protocol",
			"incorrect_answers": ["High Throughput Protocol", "Hyperlink Transport Protocol", "Host Transfer Protocol"]
		},
		{
			"question": "2 &lt; 3?",
			"correct_answer": "Yes",
			"incorrect_answers": ["No", "Sometimes", "Undefined"]
		},
		{
			"question": "Who painted the &quot;Mona Lisa&quot;?",
			"correct_answer": "Leonardo da Vinci",
			"incorrect_answers": ["Raphael", "Michelangelo", "Donatello"]
		}
	]
}`

var correctAnswers = map[string]string{
	`What does "HTTP" stand for?`: "HyperText Transfer Protocol",
	"2 < 3?":                      "Yes",
	`Who painted the "Mona Lisa"?`: "Leonardo da Vinci",
}

func TestQuizSessionEndToEnd(t *testing.T) {
	var fetches atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		w.Write([]byte(triviaPayload))
	}))
	defer server.Close()

	source := opentdb.NewClient(server.URL, 2*time.Second)
	session := app.NewSession(source, 3, "multiple")
	updates, cancel := session.Subscribe()
	defer cancel()

	session.Start(context.Background())
	snap := waitForPhase(t, updates, domain.PhaseInProgress)
	if snap.TotalQuestions != 3 {
		t.Fatalf("expected 3 questions, got %d", snap.TotalQuestions)
	}

	for question := 0; question < 3; question++ {
		snap = session.Snapshot()
		answer, ok := correctAnswers[snap.Prompt]
		if !ok {
			t.Fatalf("unexpected prompt %q", snap.Prompt)
		}
		session.SubmitAnswer(answer)
		session.Advance()
	}

	final := waitForPhase(t, updates, domain.PhaseFinished)
	if final.Score != 3 || final.TotalQuestions != 3 {
		t.Fatalf("expected 3 out of 3, got %d out of %d", final.Score, final.TotalQuestions)
	}

	session.Restart(context.Background())
	snap = waitForPhase(t, updates, domain.PhaseInProgress)
	if snap.Score != 0 || snap.QuestionNumber != 1 {
		t.Fatalf("expected fresh session after restart, got %+v", snap)
	}
	if got := fetches.Load(); got != 2 {
		t.Fatalf("expected restart to issue a second fetch, got %d", got)
	}
}

func waitForPhase(t *testing.T, updates <-chan app.Snapshot, phase domain.Phase) app.Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				t.Fatal("updates channel closed")
			}
			if snap.Phase == phase {
				return snap
			}
		case <-deadline:
			t.Fatalf("timed out waiting for phase %s", phase)
		}
	}
}
