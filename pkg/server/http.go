// Package server exposes the interpreter service as a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/medbridge/medbridge/pkg/service"
	"github.com/medbridge/medbridge/pkg/store"
)

// clientErrorMessage is what a 500 response carries. Internal error detail
// stays in the logs, never in the response body.
const clientErrorMessage = "Something went wrong. Please try again."

// HTTPServer provides the REST endpoints for conversations, messages,
// search and the ad-hoc AI helpers.
type HTTPServer struct {
	interp *service.Interpreter
	logger *logrus.Logger
}

// New creates a new HTTP server over the interpreter service.
func New(interp *service.Interpreter, logger *logrus.Logger) *HTTPServer {
	if logger == nil {
		logger = logrus.New()
	}
	return &HTTPServer{interp: interp, logger: logger}
}

// Handler builds the route table.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/conversations", s.handleListConversations)
	mux.HandleFunc("POST /api/conversations", s.handleCreateConversation)
	// Registered before /{id} patterns so "search" is never read as an id.
	mux.HandleFunc("GET /api/conversations/search", s.handleSearch)
	mux.HandleFunc("GET /api/conversations/{id}", s.handleGetConversation)
	mux.HandleFunc("PATCH /api/conversations/{id}", s.handleRenameConversation)
	mux.HandleFunc("POST /api/conversations/{id}/messages", s.handleAddMessage)
	mux.HandleFunc("POST /api/conversations/{id}/audio", s.handleAddAudio)

	mux.HandleFunc("POST /api/ai/detect", s.handleDetect)
	mux.HandleFunc("POST /api/ai/translate", s.handleTranslate)
	mux.HandleFunc("POST /api/ai/summarize/{id}", s.handleSummarize)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

func (s *HTTPServer) handleListConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := s.interp.Conversations(r.Context())
	if err != nil {
		s.internalError(w, err, "list conversations")
		return
	}
	s.writeJSON(w, http.StatusOK, conversations)
}

func (s *HTTPServer) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DoctorLanguage  string `json:"doctorLanguage"`
		PatientLanguage string `json:"patientLanguage"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	conv, err := s.interp.CreateConversation(r.Context(), req.DoctorLanguage, req.PatientLanguage)
	if err != nil {
		s.internalError(w, err, "create conversation")
		return
	}
	s.writeJSON(w, http.StatusCreated, conv)
}

func (s *HTTPServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results, err := s.interp.Search(r.Context(), query)
	if err != nil {
		s.internalError(w, err, "search conversations")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *HTTPServer) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.interp.Conversation(r.Context(), r.PathValue("id"))
	if err != nil {
		s.conversationError(w, err, "get conversation")
		return
	}
	s.writeJSON(w, http.StatusOK, conv)
}

func (s *HTTPServer) handleRenameConversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name *string `json:"name"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Name == nil {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := s.interp.Rename(r.Context(), r.PathValue("id"), *req.Name); err != nil {
		s.conversationError(w, err, "rename conversation")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"name": *req.Name})
}

func (s *HTTPServer) handleAddMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role     string `json:"role"`
		Content  string `json:"content"`
		FromLang string `json:"fromLang"`
		ToLang   string `json:"toLang"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	msg, err := s.interp.AddTextMessage(r.Context(), r.PathValue("id"), req.Role, req.Content, req.FromLang, req.ToLang)
	if err != nil {
		s.messageError(w, err, "add message")
		return
	}
	s.writeJSON(w, http.StatusCreated, msg)
}

func (s *HTTPServer) handleAddAudio(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role     string  `json:"role"`
		AudioURL string  `json:"audioUrl"`
		Duration float64 `json:"duration"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Role == "" {
		req.Role = store.RolePatient
	}

	msg, err := s.interp.AddAudioMessage(r.Context(), r.PathValue("id"), req.Role, req.AudioURL, req.Duration)
	if err != nil {
		s.messageError(w, err, "add audio message")
		return
	}
	s.writeJSON(w, http.StatusCreated, msg)
}

func (s *HTTPServer) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"lang": s.interp.DetectLanguage(req.Text)})
}

func (s *HTTPServer) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text     string `json:"text"`
		FromLang string `json:"fromLang"`
		ToLang   string `json:"toLang"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}
	translated := s.interp.Translate(r.Context(), req.Text, req.FromLang, req.ToLang)
	s.writeJSON(w, http.StatusOK, map[string]string{"translated": translated})
}

func (s *HTTPServer) handleSummarize(w http.ResponseWriter, r *http.Request) {
	text, name, err := s.interp.Summarize(r.Context(), r.PathValue("id"))
	if err != nil {
		s.conversationError(w, err, "summarize conversation")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"summary": text, "name": name})
}

// handleHealth provides a health check endpoint.
func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *HTTPServer) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *HTTPServer) internalError(w http.ResponseWriter, err error, op string) {
	s.logger.WithError(err).Error("Request failed: " + op)
	s.writeError(w, http.StatusInternalServerError, clientErrorMessage)
}

// conversationError maps a missing conversation to 404 and everything else
// to a client-safe 500.
func (s *HTTPServer) conversationError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	s.internalError(w, err, op)
}

// messageError additionally maps validation failures to 400.
func (s *HTTPServer) messageError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if service.IsValidation(err) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.internalError(w, err, op)
}
