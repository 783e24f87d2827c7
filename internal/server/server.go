package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/chat"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/llm"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/metrics"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/profile"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/session"
)

// Server exposes the session lifecycle, plan generation and chat over a JSON
// HTTP API. Each client holds its own ActiveSession, identified by a signed
// bearer token; the stores behind the session manager are shared.
type Server struct {
	manager      *session.Manager
	metricsStore *metrics.Store
	secret       string

	mu       sync.Mutex
	sessions map[string]*clientSession
}

// clientSession pairs an ActiveSession with the mutex that serializes the
// requests of the client holding its token. The session struct itself is not
// safe for concurrent mutation; only the stores behind the manager are.
type clientSession struct {
	mu   sync.Mutex
	sess *session.ActiveSession
}

// New creates a Server. metricsStore may be nil.
func New(manager *session.Manager, metricsStore *metrics.Store, secret string) *Server {
	return &Server{
		manager:      manager,
		metricsStore: metricsStore,
		secret:       secret,
		sessions:     make(map[string]*clientSession),
	}
}

// Handler returns the HTTP handler for the full API surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /sessions", s.handleNewSession)
	mux.HandleFunc("POST /profiles", s.withSession(s.handleCreateProfile))
	mux.HandleFunc("GET /profiles", s.withSession(s.handleListProfiles))
	mux.HandleFunc("POST /profiles/{id}/load", s.withSession(s.handleLoadProfile))
	mux.HandleFunc("DELETE /profiles/{id}", s.withSession(s.handleDeleteProfile))
	mux.HandleFunc("POST /plans", s.withSession(s.handleGeneratePlans))
	mux.HandleFunc("GET /plans", s.withSession(s.handleGetPlans))
	mux.HandleFunc("POST /chat", s.withSession(s.handleAsk))
	mux.HandleFunc("GET /chat", s.withSession(s.handleGetChat))
	mux.HandleFunc("POST /chat/clear", s.withSession(s.handleClearChat))
	mux.HandleFunc("POST /backend", s.withSession(s.handleSelectBackend))
	mux.HandleFunc("POST /session/reset", s.withSession(s.handleReset))
	mux.HandleFunc("GET /metrics", s.withSession(s.handleMetrics))

	return mux
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.ActiveSession)

// withSession resolves the caller's ActiveSession from the bearer token.
func (s *Server) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := s.sessionIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		s.mu.Lock()
		cs, ok := s.sessions[id]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "session expired; create a new one")
			return
		}

		// One request at a time per session. Without this, simultaneous
		// requests on the same token race on the session caches.
		cs.mu.Lock()
		defer cs.mu.Unlock()
		next(w, r, cs.sess)
	}
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	sess := s.manager.NewSession()

	s.mu.Lock()
	s.sessions[id] = &clientSession{sess: sess}
	s.mu.Unlock()

	token, err := s.issueToken(id)
	if err != nil {
		log.Printf("Failed to issue session token: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"token":   token,
		"backend": sess.Backend,
	})
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request, sess *session.ActiveSession) {
	var p profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile payload: "+err.Error())
		return
	}
	if len(p.HealthConditions) == 0 {
		p.HealthConditions = []string{"None"}
	}
	// Out-of-range values never reach the session core.
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.manager.CreateProfile(sess, p)
	if err != nil {
		if errors.Is(err, session.ErrProfileActive) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sess.ViewProfiles = false
	writeJSON(w, http.StatusCreated, created)
}

type profileListing struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request, sess *session.ActiveSession) {
	sess.ViewProfiles = true

	listings := []profileListing{}
	for id, p := range s.manager.Profiles() {
		listings = append(listings, profileListing{ID: id, Label: p.Label()})
	}
	writeJSON(w, http.StatusOK, listings)
}

func (s *Server) handleLoadProfile(w http.ResponseWriter, r *http.Request, sess *session.ActiveSession) {
	id := r.PathValue("id")
	if err := s.manager.LoadProfile(sess, id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sess.ViewProfiles = false
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request, sess *session.ActiveSession) {
	if err := s.manager.DeleteProfile(sess, r.PathValue("id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGeneratePlans(w http.ResponseWriter, r *http.Request, sess *session.ActiveSession) {
	pair, err := s.manager.GeneratePlans(r.Context(), sess)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoActiveProfile):
			writeError(w, http.StatusBadRequest, err.Error())
		case isBackendError(err):
			writeError(w, http.StatusBadGateway, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleGetPlans(w http.ResponseWriter, r *http.Request, sess *session.ActiveSession) {
	if !sess.PlansReady {
		writeError(w, http.StatusNotFound, "no plans generated yet")
		return
	}
	writeJSON(w, http.StatusOK, sess.Plans)
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer     string          `json:"answer"`
	Transcript chat.Transcript `json:"transcript"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request, sess *session.ActiveSession) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeError(w, http.StatusBadRequest, "a non-empty question is required")
		return
	}

	answer, err := s.manager.Ask(r.Context(), sess, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoActiveProfile):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, session.ErrPendingTurn):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	// Backend faults arrive here as a normal assistant turn carrying the
	// error text, so this path stays 200.
	writeJSON(w, http.StatusOK, askResponse{Answer: answer, Transcript: sess.Transcript})
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request, sess *session.ActiveSession) {
	transcript := sess.Transcript
	if transcript == nil {
		transcript = chat.Transcript{}
	}
	writeJSON(w, http.StatusOK, transcript)
}

func (s *Server) handleClearChat(w http.ResponseWriter, r *http.Request, sess *session.ActiveSession) {
	s.manager.ClearChat(sess)
	w.WriteHeader(http.StatusNoContent)
}

type backendRequest struct {
	Backend string `json:"backend"`
}

func (s *Server) handleSelectBackend(w http.ResponseWriter, r *http.Request, sess *session.ActiveSession) {
	var req backendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if err := s.manager.SelectBackend(sess, req.Backend); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"backend": sess.Backend})
}

type resetRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, sess *session.ActiveSession) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	switch req.Mode {
	case "new":
		s.manager.ResetForNewProfile(sess)
	case "regenerate":
		s.manager.ResetForRegeneration(sess)
	default:
		writeError(w, http.StatusBadRequest, `mode must be "new" or "regenerate"`)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request, sess *session.ActiveSession) {
	if s.metricsStore == nil {
		writeError(w, http.StatusNotFound, "metrics are not enabled")
		return
	}
	usage, err := s.metricsStore.GetDailyUsage(7)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, usage)
}

func isBackendError(err error) bool {
	var be *llm.BackendError
	return errors.As(err, &be)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
