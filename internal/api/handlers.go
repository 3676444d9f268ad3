package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"bbc.edu.in/college-chatbot/internal/auth"
	"bbc.edu.in/college-chatbot/internal/core"
	"bbc.edu.in/college-chatbot/internal/store"
)

type APIHandler struct {
	chatService *core.ChatService
	tokens      *auth.TokenIssuer
	logger      *slog.Logger
}

func NewAPIHandler(cs *core.ChatService, tokens *auth.TokenIssuer, logger *slog.Logger) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIHandler{chatService: cs, tokens: tokens, logger: logger}
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Status: "error", Message: message})
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.chatService.Register(r.Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Username, email and password are required")
		return
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "Username or email already exists")
		return
	case err != nil:
		h.logger.Error("failed to register user", "username", req.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	res, err := h.chatService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, core.ErrInvalidCredentials) {
			h.logger.Error("login failed", "username", req.Username, "error", err)
		}
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: res.Token, Username: res.User.Username, IsAdmin: res.User.IsAdmin})
}

type SendMessageRequest struct {
	Message string `json:"message"`
}

type SendMessageResponse struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

func (h *APIHandler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	reply, err := h.chatService.SendMessage(r.Context(), identity.UserID, req.Message)
	if err != nil {
		h.logger.Error("failed to handle chat message", "user_id", identity.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}
	writeJSON(w, http.StatusOK, SendMessageResponse{Status: "success", Response: reply})
}

func (h *APIHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	history, err := h.chatService.History(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("failed to load chat history", "user_id", identity.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load chat history")
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// Admin FAQ handlers

type FAQRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func faqIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "faqID"), 10, 64)
	return id, err == nil
}

func (h *APIHandler) ListFAQsHandler(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.chatService.ListFAQs(r.Context())
	if err != nil {
		h.logger.Error("failed to list faqs", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list FAQs")
		return
	}
	writeJSON(w, http.StatusOK, faqs)
}

func (h *APIHandler) GetFAQHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := faqIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid FAQ id")
		return
	}

	faq, err := h.chatService.GetFAQ(r.Context(), id)
	if err != nil {
		h.writeFAQError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, faq)
}

func (h *APIHandler) CreateFAQHandler(w http.ResponseWriter, r *http.Request) {
	var req FAQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	faq, err := h.chatService.CreateFAQ(r.Context(), req.Question, req.Answer)
	if err != nil {
		h.logger.Error("failed to create faq", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create FAQ")
		return
	}
	writeJSON(w, http.StatusCreated, faq)
}

func (h *APIHandler) UpdateFAQHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := faqIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid FAQ id")
		return
	}

	var req FAQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.chatService.UpdateFAQ(r.Context(), id, req.Question, req.Answer); err != nil {
		h.writeFAQError(w, id, err)
		return
	}
	writeSuccess(w)
}

func (h *APIHandler) DeleteFAQHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := faqIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid FAQ id")
		return
	}

	if err := h.chatService.DeleteFAQ(r.Context(), id); err != nil {
		h.writeFAQError(w, id, err)
		return
	}
	writeSuccess(w)
}

func (h *APIHandler) writeFAQError(w http.ResponseWriter, id int64, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "FAQ not found")
		return
	}
	h.logger.Error("faq operation failed", "faq_id", id, "error", err)
	writeError(w, http.StatusInternalServerError, "FAQ operation failed")
}

// Diagnostics

func (h *APIHandler) CompletionCheckHandler(w http.ResponseWriter, r *http.Request) {
	msg := h.chatService.CheckCompletion(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": msg})
}

func (h *APIHandler) FallbackDemoHandler(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept"), "text/plain") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, d := range h.chatService.FallbackDemo() {
			w.Write([]byte("Q: " + d.Question + "\nA: " + d.Answer + "\n\n"))
		}
		return
	}
	writeJSON(w, http.StatusOK, h.chatService.FallbackDemo())
}
