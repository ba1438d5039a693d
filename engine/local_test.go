package engine

import (
	"math/rand"
	"testing"

	"catan/game"

	"github.com/stretchr/testify/require"
)

func runGame(t *testing.T, numPlayers, maxTurns int, seed int64) *Engine {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	agents := make([]Agent, numPlayers)
	for i := range agents {
		agents[i] = NewRandomAgent(rng)
	}
	e, err := LocalEngine(agents, maxTurns, rng)
	require.NoError(t, err)
	_, err = e.Run()
	require.NoError(t, err, "random agents only ever submit legal moves")
	return e
}

func TestLocalEngineNeedsTwoAgents(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := LocalEngine([]Agent{NewRandomAgent(rng)}, 100, rng)
	require.Error(t, err)
}

func TestFullGameCompletes(t *testing.T) {
	e := runGame(t, 4, 2000, 11)
	g := e.State

	require.NotEqual(t, game.SetupPhase, g.Phase, "setup always finishes")
	for _, p := range g.Players {
		require.GreaterOrEqual(t, len(p.SettlementPlots)+len(p.CityPlots), 2,
			"the two setup settlements never leave the board")
		require.GreaterOrEqual(t, len(p.RoadPaths), 2)
	}
	if g.Winner != nil {
		require.Equal(t, game.EndPhase, g.Phase)
		require.GreaterOrEqual(t, g.Winner.VictoryPoints(), game.VictoryTarget)
	}
}

func TestFullGameConservesResources(t *testing.T) {
	for _, seed := range []int64{3, 17, 99} {
		e := runGame(t, 3, 1500, seed)
		g := e.State

		for _, r := range game.AllResources {
			total := g.Bank.Resources[r]
			for _, p := range g.Players {
				total += p.Resources[r]
			}
			require.Equal(t, game.BankStock, total,
				"seed %d: every %s unit accounted for", seed, r)
		}

		cards := g.Deck.Remaining()
		for _, p := range g.Players {
			cards += len(p.DevelopmentCards)
		}
		require.Equal(t, 25, cards, "seed %d: every development card accounted for", seed)
	}
}

func TestSameSeedReplaysIdentically(t *testing.T) {
	a := runGame(t, 4, 1000, 7)
	b := runGame(t, 4, 1000, 7)

	require.Equal(t, a.State.Turn, b.State.Turn)
	require.Equal(t, a.State.Summary(), b.State.Summary(),
		"a fixed seed must replay the exact same game")
	if a.State.Winner != nil {
		require.NotNil(t, b.State.Winner)
		require.Equal(t, a.State.Winner.ID, b.State.Winner.ID)
	}
}
