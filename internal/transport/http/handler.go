package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"dota-picker-service/internal/app"
	"dota-picker-service/internal/domain"
)

// Handler serves the REST API. Tokens are resolved here; the service layer
// only ever sees user identities.
type Handler struct {
	service *app.PickerService
	tokens  app.TokenStore
	log     *zap.Logger
}

func NewHandler(service *app.PickerService, tokens app.TokenStore, log *zap.Logger) *Handler {
	return &Handler{service: service, tokens: tokens, log: log}
}

// Routes registers the REST endpoints on a mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /api/position_quiz", h.submitPositionQuiz)
	mux.HandleFunc("POST /api/hero_quiz", h.submitHeroQuiz)
	mux.HandleFunc("POST /api/save_result", h.saveResult)
	mux.HandleFunc("GET /api/get_result", h.getResult)
	mux.HandleFunc("GET /api/content/position_quiz", h.positionQuizContent)
	mux.HandleFunc("GET /api/content/hero_quiz", h.heroQuizContent)
}

type positionQuizRequest struct {
	Token   string `json:"token"`
	Answers []int  `json:"answers"`
}

type heroQuizRequest struct {
	Token         string `json:"token"`
	PositionIndex int    `json:"positionIndex"`
	Answers       []int  `json:"answers"`
	TopN          int    `json:"topN"`
}

type saveResultRequest struct {
	Token  string          `json:"token"`
	Result json.RawMessage `json:"result"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type resultResponse struct {
	Result *domain.QuizResults `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) submitPositionQuiz(w http.ResponseWriter, r *http.Request) {
	var req positionQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	userID, ok := h.authenticate(w, r, req.Token)
	if !ok {
		return
	}
	res, err := h.service.SubmitPositionQuiz(r.Context(), userID, req.Answers)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) submitHeroQuiz(w http.ResponseWriter, r *http.Request) {
	var req heroQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	userID, ok := h.authenticate(w, r, req.Token)
	if !ok {
		return
	}
	res, err := h.service.SubmitHeroQuiz(r.Context(), userID, req.PositionIndex, req.Answers, req.TopN)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) saveResult(w http.ResponseWriter, r *http.Request) {
	var req saveResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	userID, ok := h.authenticate(w, r, req.Token)
	if !ok {
		return
	}
	if len(req.Result) == 0 {
		writeError(w, http.StatusBadRequest, "missing result")
		return
	}
	if err := h.service.SaveResult(r.Context(), userID, req.Result); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) getResult(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r, r.URL.Query().Get("token"))
	if !ok {
		return
	}
	results, found, err := h.service.Results(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, resultResponse{Result: nil})
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Result: &results})
}

func (h *Handler) positionQuizContent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Content().PositionQuiz())
}

func (h *Handler) heroQuizContent(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(r.URL.Query().Get("positionIndex"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "positionIndex must be an integer")
		return
	}
	questions, err := h.service.Content().HeroQuiz(idx)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

// authenticate resolves a token and writes the error response on failure.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, token string) (int64, bool) {
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing token")
		return 0, false
	}
	userID, err := h.tokens.Resolve(r.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, domain.ErrInvalidToken.Error())
		} else {
			h.log.Error("token resolve failed", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "token store unavailable")
		}
		return 0, false
	}
	return userID, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPosition),
		errors.Is(err, domain.ErrAnswerCount),
		errors.Is(err, domain.ErrInvalidAnswer):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrResultUnavailable):
		// Persistence being down is surfaced, never masked as "no result".
		writeError(w, http.StatusServiceUnavailable, domain.ErrResultUnavailable.Error())
	default:
		h.log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
