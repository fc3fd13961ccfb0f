package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"dota-picker-service/internal/app"
	"dota-picker-service/internal/domain"
	"dota-picker-service/internal/scoring"
)

// WSHandler drives an interactive quiz over a websocket: the server sends
// one question at a time, the client answers by option index, and the
// final message carries the persisted result.
type WSHandler struct {
	service  *app.PickerService
	tokens   app.TokenStore
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.PickerService, tokens app.TokenStore, log *zap.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		tokens:  tokens,
		log:     log,
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

type startPayload struct {
	Quiz          app.QuizMode `json:"quiz"`
	PositionIndex int          `json:"positionIndex"`
	TopN          int          `json:"topN"`
}

type answerPayload struct {
	Option int `json:"option"`
}

type questionPayload struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Number  int      `json:"number"`
	Total   int      `json:"total"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the connection and runs the quiz loop. All writes happen
// on the read loop's goroutine, so no write pump is needed.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}
	userID, err := h.tokens.Resolve(r.Context(), token)
	if err != nil {
		http.Error(w, domain.ErrInvalidToken.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	var session *app.QuizSession
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.sendError(conn, "invalid start payload")
				continue
			}
			session, err = h.startSession(payload)
			if err != nil {
				h.sendError(conn, err.Error())
				continue
			}
			h.sendQuestion(conn, session)

		case "answer":
			if session == nil {
				h.sendError(conn, "no quiz in progress")
				continue
			}
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.sendError(conn, "invalid answer payload")
				continue
			}
			done, err := session.Answer(payload.Option)
			if err != nil {
				h.sendError(conn, err.Error())
				continue
			}
			if !done {
				h.sendQuestion(conn, session)
				continue
			}
			h.finishSession(conn, r, userID, session)
			session = nil

		default:
			h.sendError(conn, "unsupported message type")
		}
	}
}

func (h *WSHandler) startSession(payload startPayload) (*app.QuizSession, error) {
	switch payload.Quiz {
	case app.ModePosition:
		return h.service.NewPositionSession(), nil
	case app.ModeHero:
		topN := payload.TopN
		if topN <= 0 {
			topN = scoring.DefaultTopN
		}
		return h.service.NewHeroSession(payload.PositionIndex, topN)
	default:
		return nil, domain.ErrInvalidAnswer
	}
}

func (h *WSHandler) finishSession(conn *websocket.Conn, r *http.Request, userID int64, session *app.QuizSession) {
	switch session.Mode() {
	case app.ModePosition:
		res, err := h.service.SubmitPositionQuiz(r.Context(), userID, session.Answers())
		if err != nil {
			h.sendError(conn, err.Error())
			return
		}
		_ = conn.WriteJSON(outboundMessage[domain.PositionResult]{Type: "positionResult", Payload: res})
	case app.ModeHero:
		res, err := h.service.SubmitHeroQuiz(r.Context(), userID, session.PositionIndex(), session.Answers(), session.TopN())
		if err != nil {
			h.sendError(conn, err.Error())
			return
		}
		_ = conn.WriteJSON(outboundMessage[domain.HeroResult]{Type: "heroResult", Payload: res})
	}
}

func (h *WSHandler) sendQuestion(conn *websocket.Conn, session *app.QuizSession) {
	prompt, options, number, total := session.Question()
	_ = conn.WriteJSON(outboundMessage[questionPayload]{Type: "question", Payload: questionPayload{
		Prompt:  prompt,
		Options: options,
		Number:  number,
		Total:   total,
	}})
}

func (h *WSHandler) sendError(conn *websocket.Conn, msg string) {
	_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: msg}})
}
