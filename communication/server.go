package communication

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"wildperudo/agent"
	"wildperudo/config"
	"wildperudo/engine"
	"wildperudo/game"
)

// Server hosts sessions over HTTP. A game seats two automated agents, or one
// automated agent against a human who moves through the bid and challenge
// routes.
type Server struct {
	rounds  int
	dice    int
	options []agent.Option
	games   map[uuid.UUID]*hostedGame
	mutex   sync.RWMutex
	mux     *http.ServeMux
}

type hostedGame struct {
	session *engine.Session
	human   *webPrompter
	mutex   sync.Mutex
}

type CreateResponse struct {
	ID    string          `json:"id"`
	State engine.Snapshot `json:"state"`
}

type TurnResponse struct {
	Outcome engine.TurnOutcome `json:"outcome"`
	State   engine.Snapshot    `json:"state"`
	Result  *engine.Result     `json:"result,omitempty"`
}

// MoveResponse carries the human's turn and every automated turn it set off.
type MoveResponse struct {
	Outcomes []engine.TurnOutcome `json:"outcomes"`
	State    engine.Snapshot      `json:"state"`
	Result   *engine.Result       `json:"result,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// NewServer initializes a Server whose games last at most rounds rounds.
// The options tune every automated agent it seats.
func NewServer(rounds, dice int, options ...agent.Option) *Server {
	s := &Server{
		rounds:  rounds,
		dice:    dice,
		options: options,
		games:   make(map[uuid.UUID]*hostedGame),
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /games", s.handleCreate)
	s.mux.HandleFunc("POST /games/{id}/turn", s.handleTurn)
	s.mux.HandleFunc("POST /games/{id}/bid", s.handleBid)
	s.mux.HandleFunc("POST /games/{id}/challenge", s.handleChallenge)
	s.mux.HandleFunc("GET /games/{id}/state", s.handleState)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	kinds := make([]agent.Kind, 0, 2)
	humans := 0
	for _, param := range []string{"a", "b"} {
		value := query.Get(param)
		if value == "" {
			value = string(agent.KindZeroOrder)
		}
		kind, err := agent.ParseKind(value)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("agent %s: %q cannot play here", param, value))
			return
		}
		if kind == agent.KindHuman {
			humans++
		}
		kinds = append(kinds, kind)
	}
	if humans > 1 {
		writeError(w, http.StatusBadRequest, "at most one human per game")
		return
	}

	seed, err := seedFrom(query.Get("seed"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g := &hostedGame{}
	rng := game.NewRNG(seed)
	agents := make([]game.Agent, 0, len(kinds))
	for i, kind := range kinds {
		name := fmt.Sprintf("%s%d", kind, i+1)
		agentRNG := game.NewRNG(rng.Uint64())
		if kind == agent.KindHuman {
			g.human = &webPrompter{name: name}
			agents = append(agents, agent.NewHuman(name, s.dice, g.human))
			continue
		}
		a, err := agent.New(kind, name, s.dice, agentRNG, s.options...)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		agents = append(agents, a)
	}

	session, err := engine.New(agents, engine.WithSeed(rng.Uint64()))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g.session = session
	if g.human != nil {
		// the automated agent opens when it sits first
		_, err = s.advance(g, true)
	} else {
		err = session.StartRound()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.mutex.Lock()
	s.games[session.ID] = g
	s.mutex.Unlock()

	log.Info().Msgf("created game %s: %s vs %s (seed %d)", session.ID, kinds[0], kinds[1], seed)
	writeJSON(w, http.StatusCreated, CreateResponse{ID: session.ID.String(), State: g.view()})
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}
	g.mutex.Lock()
	defer g.mutex.Unlock()

	session := g.session
	if session.Phase() == engine.GameOver {
		writeError(w, http.StatusConflict, engine.ErrGameOver.Error())
		return
	}
	if session.Phase() != engine.InRound {
		if err := session.StartRound(); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	outcome, err := session.PlayTurn()
	if errors.Is(err, errAwaitingHuman) {
		writeError(w, http.StatusConflict, fmt.Sprintf("waiting for %s to bid or challenge", g.human.name))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := TurnResponse{Outcome: outcome}
	if s.finished(g) {
		result := session.Finish()
		response.Result = &result
	}
	response.State = g.view()
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleBid(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(r.FormValue("count"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("count %q is not a number", r.FormValue("count")))
		return
	}
	face, err := strconv.Atoi(r.FormValue("face"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("face %q is not a number", r.FormValue("face")))
		return
	}
	bid, err := game.NewBid(count, face)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.move(w, r, &bid, false)
}

func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	switch strings.ToLower(r.FormValue("challenge")) {
	case "y", "yes":
		s.move(w, r, nil, true)
	case "n", "no":
		// declining only hands the turn back for a bid
		s.move(w, r, nil, false)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("challenge %q: answer y or n", r.FormValue("challenge")))
	}
}

// move plays the human's turn with the given answer, then the automated
// turns up to the human's next decision or the end of the round.
func (s *Server) move(w http.ResponseWriter, r *http.Request, bid *game.Bid, challenge bool) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if g.human == nil {
		writeError(w, http.StatusBadRequest, "no human seated in this game")
		return
	}
	outcomes, err := s.advance(g, true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	session := g.session
	if session.Phase() == engine.GameOver {
		writeError(w, http.StatusConflict, engine.ErrGameOver.Error())
		return
	}
	if session.CurrentBid() == nil && bid == nil {
		writeError(w, http.StatusConflict, "no bid on the table, open with a bid")
		return
	}

	if bid != nil || challenge {
		g.human.answer(bid, challenge)
		outcome, err := session.PlayTurn()
		rejected := g.human.rejected
		g.human.clear()
		if errors.Is(err, errAwaitingHuman) && rejected != nil {
			writeError(w, http.StatusBadRequest, rejected.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		outcomes = append(outcomes, outcome)

		more, err := s.advance(g, false)
		outcomes = append(outcomes, more...)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	response := MoveResponse{Outcomes: outcomes, State: g.view()}
	if session.Phase() == engine.GameOver {
		result := session.Finish()
		response.Result = &result
	}
	writeJSON(w, http.StatusOK, response)
}

// advance plays automated turns until the human has to decide. A resolved
// round is only followed by a new one when next is set.
func (s *Server) advance(g *hostedGame, next bool) ([]engine.TurnOutcome, error) {
	session := g.session
	outcomes := []engine.TurnOutcome{}
	for !s.finished(g) {
		if session.Phase() != engine.InRound {
			if !next {
				break
			}
			if err := session.StartRound(); err != nil {
				return outcomes, err
			}
		}
		if session.CurrentTurn() == g.human.name {
			break
		}
		outcome, err := session.PlayTurn()
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// finished ends the game once the round budget is spent.
func (s *Server) finished(g *hostedGame) bool {
	session := g.session
	if session.Phase() == engine.RoundResolved && session.Round() >= s.rounds {
		session.Finish()
	}
	return session.Phase() == engine.GameOver
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}
	g.mutex.Lock()
	defer g.mutex.Unlock()
	writeJSON(w, http.StatusOK, g.view())
}

// view is the session snapshot with the automated agents' dice hidden from
// the human while a round is open.
func (g *hostedGame) view() engine.Snapshot {
	snapshot := g.session.Snapshot()
	if g.human == nil || snapshot.Phase != engine.InRound {
		return snapshot
	}
	for name, state := range snapshot.Agents {
		if name != g.human.name {
			state.Dice = nil
			snapshot.Agents[name] = state
		}
	}
	return snapshot
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*hostedGame, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown game")
		return nil, false
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	g, ok := s.games[id]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown game")
		return nil, false
	}
	return g, true
}

func seedFrom(value string) (uint64, error) {
	if value == "" {
		return config.NewSeed()
	}
	seed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("seed %q is not a number", value)
	}
	return seed, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
