// ABOUTME: In-memory fake of the xlr appliance REST API for development and tests
// ABOUTME: Mirrors the relay controller: PIN login, session cookie, four default channels

package fakepanel

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/2389/xlr-panel/internal/channel"
)

// SessionCookie is the cookie name carrying the session id.
const SessionCookie = "session"

// Request is one request observed by the fake, in arrival order.
type Request struct {
	Method string
	Path   string
	Body   string
}

// Server is an http.Handler emulating the appliance.
type Server struct {
	mu       sync.Mutex
	pin      string
	hardware bool
	channels channel.List
	sessions map[string]bool
	requests []Request

	router *mux.Router
	logger *slog.Logger
}

// DefaultChannels returns the appliance's factory channel set.
func DefaultChannels() channel.List {
	return channel.List{
		{ID: 0, Name: "Speaker", Color: "#3b82f6", Active: true},
		{ID: 1, Name: "Reader", Color: "#10b981", Active: true},
		{ID: 2, Name: "Left", Color: "#f59e0b", Active: true},
		{ID: 3, Name: "Right", Color: "#8b5cf6", Active: true},
	}
}

// New creates a fake appliance accepting pin. It reports no hardware attached.
func New(pin string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		pin:      pin,
		channels: DefaultChannels(),
		sessions: make(map[string]bool),
		logger:   logger.With("component", "fakepanel"),
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/login", s.handleLogin).Methods(http.MethodPost)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.requireSession)
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/toggle/{id:[0-9]+}", s.handleToggle).Methods(http.MethodPost)
	api.HandleFunc("/all/{action}", s.handleAll).Methods(http.MethodPost)
	api.HandleFunc("/update/{id:[0-9]+}", s.handleUpdate).Methods(http.MethodPost)
	s.router = r

	return s
}

// ServeHTTP records the request and dispatches it.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))

	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	s.mu.Unlock()

	s.router.ServeHTTP(w, r)
}

// Channels returns a copy of the current channel state.
func (s *Server) Channels() channel.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channels.Clone()
}

// SetChannels replaces the channel state.
func (s *Server) SetChannels(l channel.List) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels = l.Clone()
}

// SetHardware sets the hardware flag reported by /api/status.
func (s *Server) SetHardware(present bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hardware = present
}

// Requests returns every request seen so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RevokeSessions logs every client out; their next call gets a 401.
func (s *Server) RevokeSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]bool)
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie(SessionCookie)
		s.mu.Lock()
		ok := err == nil && s.sessions[ck.Value]
		s.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]bool{"success": false})
		return
	}

	if req.PIN != s.pin {
		s.logger.Info("login rejected")
		writeJSON(w, http.StatusOK, map[string]bool{"success": false})
		return
	}

	id := uuid.New().String()
	s.mu.Lock()
	s.sessions[id] = true
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: id, Path: "/", HttpOnly: true})
	s.logger.Info("login accepted")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := struct {
		Hardware bool         `json:"hardware"`
		Channels channel.List `json:"channels"`
	}{Hardware: s.hardware, Channels: s.channels.Clone()}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	s.mu.Lock()
	i := s.channels.Index(id)
	if i >= 0 {
		s.channels[i].Active = !s.channels[i].Active
	}
	s.mu.Unlock()

	if i < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]bool{"success": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleAll(w http.ResponseWriter, r *http.Request) {
	action, err := channel.ParseAction(mux.Vars(r)["action"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]bool{"success": false})
		return
	}

	s.mu.Lock()
	for i := range s.channels {
		s.channels[i].Active = action.Active()
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == nil || req.Color == nil {
		writeJSON(w, http.StatusBadRequest, map[string]bool{"success": false})
		return
	}

	s.mu.Lock()
	i := s.channels.Index(id)
	if i >= 0 {
		s.channels[i].Name = *req.Name
		s.channels[i].Color = *req.Color
	}
	s.mu.Unlock()

	if i < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]bool{"success": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
