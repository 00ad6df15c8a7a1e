// Package opentdb fetches question batches from an Open Trivia DB compatible
// HTTP API and maps them into the internal question shape.
package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/shuffle"
)

// Client is a QuestionSource backed by the remote trivia API. Strings in the
// API payload are HTML-entity escaped; the configured decoder normalizes them
// before questions are constructed.
type Client struct {
	baseURL string
	httpc   *http.Client
	decode  func(string) string

	mu  sync.Mutex // guards rnd, which is not safe for concurrent use
	rnd *rand.Rand
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		decode:  html.UnescapeString,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []rawQuestion `json:"results"`
}

type rawQuestion struct {
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Fetch retrieves amount questions of the given type. The batch is
// all-or-nothing: any record that cannot be turned into a valid question
// fails the whole fetch.
func (c *Client) Fetch(ctx context.Context, amount int, questionType string) ([]domain.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(amount, questionType), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrUnreachable, resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrUnreachable, err)
	}
	if len(payload.Results) == 0 {
		return nil, domain.ErrNoQuestions
	}

	questions := make([]domain.Question, 0, len(payload.Results))
	for i, raw := range payload.Results {
		question, err := c.buildQuestion(raw)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		questions = append(questions, question)
	}
	return questions, nil
}

func (c *Client) requestURL(amount int, questionType string) string {
	params := url.Values{}
	params.Set("amount", strconv.Itoa(amount))
	params.Set("type", questionType)
	return c.baseURL + "?" + params.Encode()
}

// buildQuestion maps one raw record into a Question: every string is
// entity-decoded and the correct answer is shuffled in with the incorrect
// ones. The display order is decided here, once.
func (c *Client) buildQuestion(raw rawQuestion) (domain.Question, error) {
	prompt := c.decode(raw.Question)
	correct := c.decode(raw.CorrectAnswer)
	if prompt == "" || correct == "" || len(raw.IncorrectAnswers) == 0 {
		return domain.Question{}, domain.ErrBadQuestion
	}

	options := make([]string, 0, len(raw.IncorrectAnswers)+1)
	options = append(options, correct)
	for _, incorrect := range raw.IncorrectAnswers {
		options = append(options, c.decode(incorrect))
	}

	seen := make(map[string]struct{}, len(options))
	for _, option := range options {
		if _, dup := seen[option]; dup {
			return domain.Question{}, fmt.Errorf("%w: duplicate option %q", domain.ErrBadQuestion, option)
		}
		seen[option] = struct{}{}
	}

	c.mu.Lock()
	shuffled := shuffle.Strings(c.rnd, options)
	c.mu.Unlock()

	return domain.Question{
		Prompt:        prompt,
		Options:       shuffled,
		CorrectAnswer: correct,
	}, nil
}
