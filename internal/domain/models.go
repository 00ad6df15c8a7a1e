package domain

// Phase identifies where a quiz session is in its lifecycle.
type Phase string

const (
	// PhaseLoading means a question fetch is outstanding. Initial state.
	PhaseLoading Phase = "loading"
	// PhaseError means the last fetch failed; retry leads back to loading.
	PhaseError Phase = "error"
	// PhaseInProgress means questions are loaded and being answered.
	PhaseInProgress Phase = "inProgress"
	// PhaseFinished means the last question has been answered and advanced past.
	PhaseFinished Phase = "finished"
)

// Question is a fully normalized multiple-choice question. Prompt and option
// texts are already entity-decoded, and Options holds the shuffled display
// order, fixed for the lifetime of the question. CorrectAnswer equals exactly
// one element of Options.
type Question struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}
