package domain

import "errors"

var (
	// ErrUnreachable indicates a transport failure, a non-success status, or a
	// response body that could not be decoded.
	ErrUnreachable = errors.New("trivia service unreachable")
	// ErrNoQuestions indicates a well-formed response carrying zero questions.
	ErrNoQuestions = errors.New("no questions available")
	// ErrBadQuestion indicates a record that cannot become a valid Question
	// (empty prompt/answer or duplicate options after decoding).
	ErrBadQuestion = errors.New("malformed question record")
)
