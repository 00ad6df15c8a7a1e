package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/opentdb"
	transport "trivia-quiz-service/internal/transport/http"

	"github.com/spf13/cobra"
)

const (
	defaultTriviaURL    = "https://opentdb.com/api.php"
	defaultBatchSize    = 10
	defaultQuestionType = "multiple"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	baseURL := cfg.Trivia.URL
	if baseURL == "" {
		baseURL = defaultTriviaURL
	}
	amount := cfg.Trivia.Amount
	if amount <= 0 {
		amount = defaultBatchSize
	}
	questionType := cfg.Trivia.Type
	if questionType == "" {
		questionType = defaultQuestionType
	}

	fetchTimeout := config.FetchTimeout(cfg.Trivia.Timeout, 10*time.Second)
	source := opentdb.NewClient(baseURL, fetchTimeout)
	wsHandler := transport.NewWSHandler(source, amount, questionType)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trivia quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
