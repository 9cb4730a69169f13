package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	faceoffservice "newedenfaces/contexts/arena/faceoff-service"
	faceofferrors "newedenfaces/contexts/arena/faceoff-service/domain/errors"
	faceoffhttp "newedenfaces/contexts/arena/faceoff-service/transport/http"
	"newedenfaces/internal/platform/presence"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "newedenfaces/internal/platform/httpserver/docs"
)

type Server struct {
	mux              *http.ServeMux
	logger           *slog.Logger
	addr             string
	faceoff          faceoffservice.Module
	presence         *presence.Hub
	leaderboardLimit int
}

func New(
	faceoff faceoffservice.Module,
	presenceHub *presence.Hub,
	leaderboardLimit int,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":3000"
	}
	if presenceHub == nil {
		presenceHub = presence.NewHub(logger)
	}
	if leaderboardLimit <= 0 {
		leaderboardLimit = 25
	}

	s := &Server{
		mux:              http.NewServeMux(),
		logger:           logger,
		addr:             addr,
		faceoff:          faceoff,
		presence:         presenceHub,
		leaderboardLimit: leaderboardLimit,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the route table for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /api/characters", s.handleRandomPair)
	// The vote route answers both the bare and trailing-slash forms; exact
	// ServeMux patterns match only one of them.
	s.mux.HandleFunc("PUT /api/characters", s.handleCastVote)
	s.mux.HandleFunc("PUT /api/characters/{$}", s.handleCastVote)
	s.mux.HandleFunc("POST /api/characters", s.handleEnlist)
	s.mux.HandleFunc("GET /api/characters/top", s.handleTopCharacters)
	s.mux.HandleFunc("GET /api/characters/{character_id}", s.handleGetCharacter)
	s.mux.HandleFunc("GET /api/presence", s.handlePresence)
}

func (s *Server) handleRandomPair(w http.ResponseWriter, r *http.Request) {
	pair, err := s.faceoff.Handler.RandomPairHandler(r.Context())
	if err != nil {
		writeFaceoffDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	var req faceoffhttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	if _, err := s.faceoff.Handler.CastVoteHandler(r.Context(), req); err != nil {
		writeFaceoffDomainError(w, err)
		return
	}
	// Applied and AlreadySettled both answer 200 with an empty body; a stale
	// pair is a no-op for the caller, not a failure.
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleEnlist(w http.ResponseWriter, r *http.Request) {
	var req faceoffhttp.EnlistCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.faceoff.Handler.EnlistHandler(r.Context(), req)
	if err != nil {
		writeFaceoffDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTopCharacters(w http.ResponseWriter, r *http.Request) {
	limit := s.leaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	resp, err := s.faceoff.Handler.TopCharactersHandler(r.Context(), limit)
	if err != nil {
		writeFaceoffDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	resp, err := s.faceoff.Handler.GetCharacterHandler(r.Context(), r.PathValue("character_id"))
	if err != nil {
		writeFaceoffDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePresence streams the online-user count over SSE. The connection
// itself counts as one online user for its lifetime.
func (s *Server) handlePresence(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	updates, cancel := s.presence.Subscribe()
	defer cancel()

	s.presence.Join()
	defer s.presence.Leave()

	for {
		select {
		case <-r.Context().Done():
			return
		case count := <-updates:
			fmt.Fprintf(w, "data: {\"onlineUsers\": %d}\n\n", count)
			flusher.Flush()
		}
	}
}

func writeFaceoffDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, faceofferrors.ErrVotePairIncomplete),
		errors.Is(err, faceofferrors.ErrSelfVote),
		errors.Is(err, faceofferrors.ErrInvalidEnlistInput),
		errors.Is(err, faceofferrors.ErrCharacterExists),
		errors.Is(err, faceofferrors.ErrDirectoryUnparsable):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, faceofferrors.ErrCharacterNotFound),
		errors.Is(err, faceofferrors.ErrDirectoryNoMatch):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		// Persistence/directory I/O detail stays server-side.
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, faceoffhttp.ErrorResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
