package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Server exposes an agent over HTTP. Decisions are serialized as agents keep
// state between moves.
type Server struct {
	mu     sync.Mutex
	agent  Agent
	logger zerolog.Logger
}

func NewServer(agent Agent, logger zerolog.Logger) *Server {
	return &Server{agent: agent, logger: logger}
}

func (s *Server) Handler() http.Handler {
	// Local mux rather than the global DefaultServeMux
	mux := http.NewServeMux()
	mux.HandleFunc("POST /play", s.handlePlay)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// ListenAndServe serves on port until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			s.logger.Warn().Err(err).Msg("agent server shutdown failed")
		}
	}()

	s.logger.Info().Msgf("starting agent server on :%d", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "agent server failed")
	}
	return nil
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	action, metric, err := s.agent.Play(r.Context(), req)
	s.mu.Unlock()

	switch {
	case errors.Is(err, ErrNoAction):
		w.WriteHeader(http.StatusNoContent)
		return
	case errors.Is(err, ErrInvalidRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.logger.Info().Msgf("step %d: played %s for player %d in %s", req.Step, action, req.Player, metric.Duration)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(action); err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode action")
	}
}
