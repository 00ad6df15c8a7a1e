package http

import (
	"encoding/json"
	"log"
	"net/http"

	"trivia-quiz-service/internal/app"

	"github.com/gorilla/websocket"
)

// WSHandler attaches one quiz session to each websocket connection: state
// snapshots flow out, player intents (answer, advance, retry, restart) flow in.
type WSHandler struct {
	source       app.QuestionSource
	amount       int
	questionType string
	upgrader     websocket.Upgrader
}

func NewWSHandler(source app.QuestionSource, amount int, questionType string) *WSHandler {
	return &WSHandler{
		source:       source,
		amount:       amount,
		questionType: questionType,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Option string `json:"option"`
}

type outboundMessage struct {
	Type    string       `json:"type"`
	Payload app.Snapshot `json:"payload"`
}

// ServeWS upgrades the request and drives a dedicated quiz session for the
// connection. Invalid intents are logged and dropped rather than closing the
// connection; they represent presenter misuse, not failure.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session := app.NewSession(h.source, h.amount, h.questionType)
	updates, cancel := session.Subscribe()
	defer cancel()
	session.Start(r.Context())

	// Single writer: only this goroutine writes to the connection.
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for snap := range updates {
			if err := conn.WriteJSON(outboundMessage{Type: "state", Payload: snap}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				log.Printf("ws invalid answer payload: %v", err)
				continue
			}
			session.SubmitAnswer(payload.Option)
		case "advance":
			session.Advance()
		case "retry":
			session.Retry(r.Context())
		case "restart":
			session.Restart(r.Context())
		default:
			log.Printf("ws unsupported message type %q", inbound.Type)
		}
	}

	cancel()
	<-writerDone
}
