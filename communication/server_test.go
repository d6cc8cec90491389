package communication

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"wildperudo/engine"
)

func do(t *testing.T, h http.Handler, method, target string, out any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	if out != nil {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
	}
	return rec.Code
}

func create(t *testing.T, h http.Handler, target string) CreateResponse {
	t.Helper()
	var created CreateResponse
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, target, &created))
	return created
}

func TestCreate(t *testing.T) {
	h := NewServer(2, 5).Handler()

	t.Run("starts the first round", func(t *testing.T) {
		created := create(t, h, "/games?a=random&b=improved&seed=3")
		_, err := uuid.Parse(created.ID)
		require.NoError(t, err)
		require.Equal(t, engine.InRound, created.State.Phase)
		require.Equal(t, 1, created.State.Round)
		require.Equal(t, []string{"random1", "improved2"}, created.State.Order)
		require.Equal(t, "random1", created.State.CurrentTurn)
		require.Len(t, created.State.Agents["random1"].Dice, 5)
	})

	t.Run("defaults to zero-order agents", func(t *testing.T) {
		created := create(t, h, "/games")
		require.Equal(t, []string{"zero1", "zero2"}, created.State.Order)
	})

	for _, target := range []string{"/games?a=oracle", "/games?a=human&b=human", "/games?seed=abc"} {
		t.Run(target, func(t *testing.T) {
			var resp ErrorResponse
			require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, target, &resp))
			require.NotEmpty(t, resp.Error)
		})
	}
}

func TestState(t *testing.T) {
	h := NewServer(2, 5).Handler()
	created := create(t, h, "/games?seed=9")

	var state engine.Snapshot
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/games/"+created.ID+"/state", &state))
	require.Equal(t, created.State, state)

	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/games/"+uuid.NewString()+"/state", nil))
	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/games/not-a-uuid/state", nil))
	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/games/"+uuid.NewString()+"/turn", nil))
}

func TestTurn(t *testing.T) {
	h := NewServer(2, 3).Handler()
	created := create(t, h, "/games?a=zero&b=first&seed=21")
	turn := "/games/" + created.ID + "/turn"

	var last TurnResponse
	for i := 0; i < 200 && last.Result == nil; i++ {
		last = TurnResponse{}
		require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, turn, &last))
	}
	require.NotNil(t, last.Result, "game should end within the round budget")
	require.Equal(t, engine.GameOver, last.State.Phase)
	require.LessOrEqual(t, last.Result.Rounds, 2)

	var resp ErrorResponse
	require.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, turn, &resp))
	require.Equal(t, engine.ErrGameOver.Error(), resp.Error)
}

func TestSeededGamesMatch(t *testing.T) {
	h := NewServer(2, 5).Handler()
	first := create(t, h, "/games?a=random&b=zero&seed=77")
	second := create(t, h, "/games?a=random&b=zero&seed=77")
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, first.State.Agents, second.State.Agents)

	var a, b TurnResponse
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/games/"+first.ID+"/turn", &a))
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/games/"+second.ID+"/turn", &b))
	require.Equal(t, a.Outcome, b.Outcome)
}

func TestHumanGame(t *testing.T) {
	h := NewServer(1, 3).Handler()
	created := create(t, h, "/games?a=human&b=zero&seed=4")
	base := "/games/" + created.ID

	t.Run("opens on the human's turn with the opponent's dice hidden", func(t *testing.T) {
		require.Equal(t, []string{"human1", "zero2"}, created.State.Order)
		require.Equal(t, "human1", created.State.CurrentTurn)
		require.Len(t, created.State.Agents["human1"].Dice, 3)
		require.Nil(t, created.State.Agents["zero2"].Dice)
	})

	t.Run("turn waits for the human", func(t *testing.T) {
		var resp ErrorResponse
		require.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, base+"/turn", &resp))
		require.Contains(t, resp.Error, "human1")
	})

	t.Run("nothing to challenge yet", func(t *testing.T) {
		require.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, base+"/challenge?challenge=y", nil))
	})

	t.Run("malformed moves", func(t *testing.T) {
		for _, target := range []string{"/bid?count=x&face=2", "/bid?count=1&face=7", "/challenge?challenge=maybe"} {
			require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, base+target, nil), target)
		}
	})

	var move MoveResponse
	t.Run("bid is answered by the opponent", func(t *testing.T) {
		require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, base+"/bid?count=1&face=2", &move))
		require.Len(t, move.Outcomes, 2)
		require.Equal(t, engine.OutcomeBid, move.Outcomes[0].Kind)
		require.Equal(t, "human1", move.Outcomes[0].Agent)
		require.Equal(t, engine.OutcomeBid, move.Outcomes[1].Kind)
		require.Equal(t, "zero2", move.Outcomes[1].Agent)
		require.Nil(t, move.Result)
		require.Equal(t, "human1", move.State.CurrentTurn)
		require.Nil(t, move.State.Agents["zero2"].Dice)
	})

	t.Run("a bid that does not raise is refused", func(t *testing.T) {
		var resp ErrorResponse
		require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, base+"/bid?count=1&face=2", &resp))
		require.Contains(t, resp.Error, "does not raise")

		var state engine.Snapshot
		require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, base+"/state", &state))
		require.Equal(t, move.State, state)
	})

	t.Run("declining keeps the turn", func(t *testing.T) {
		var declined MoveResponse
		require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, base+"/challenge?challenge=n", &declined))
		require.Empty(t, declined.Outcomes)
		require.Equal(t, move.State, declined.State)
	})

	t.Run("challenge ends the round and the game", func(t *testing.T) {
		var last MoveResponse
		require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, base+"/challenge?challenge=yes", &last))
		require.Len(t, last.Outcomes, 1)
		require.Equal(t, engine.OutcomeChallenge, last.Outcomes[0].Kind)
		require.Equal(t, "human1", last.Outcomes[0].Agent)
		require.Len(t, last.Outcomes[0].Hands["zero2"], 3)
		require.NotNil(t, last.Result)
		require.Equal(t, 1, last.Result.Rounds)
		require.Equal(t, engine.GameOver, last.State.Phase)

		var resp ErrorResponse
		require.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, base+"/bid?count=5&face=5", &resp))
		require.Equal(t, engine.ErrGameOver.Error(), resp.Error)
	})

	t.Run("automated games have no human seat", func(t *testing.T) {
		other := create(t, h, "/games?seed=2")
		require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/games/"+other.ID+"/bid?count=1&face=2", nil))
	})
}
