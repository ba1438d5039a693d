package engine

import (
	"fmt"
	"math/rand"

	"catan/game"

	"github.com/rs/zerolog/log"
)

// Agent decides moves for one seat. Agents only ever touch the core through
// its public operations; the engine owns turn sequencing.
type Agent interface {
	// PlaceInitial performs one setup placement: a settlement and the road
	// touching it.
	PlaceInitial(g *game.GameState, playerID int) error
	// PlayTurn performs the post-roll actions of one main-phase turn.
	// rolledSeven tells the agent it must relocate the robber first.
	PlayTurn(g *game.GameState, playerID int, rolledSeven bool) error
}

// Engine runs a complete local game between agents.
type Engine struct {
	State    *game.GameState
	Agents   []Agent
	MaxTurns int
}

// LocalEngine wires a fresh game to one agent per seat.
func LocalEngine(agents []Agent, maxTurns int, rng *rand.Rand) (*Engine, error) {
	if len(agents) < 2 {
		return nil, fmt.Errorf("need at least two agents, got %d", len(agents))
	}
	state, err := game.NewGameState(len(agents), rng)
	if err != nil {
		return nil, err
	}
	return &Engine{State: state, Agents: agents, MaxTurns: maxTurns}, nil
}

// Run drives the game to completion or to the turn cap and returns the
// winner, nil when the cap hit first.
func (e *Engine) Run() (*game.Player, error) {
	g := e.State

	for g.Phase == game.SetupPhase {
		playerID := g.CurrentPlayer().ID
		if err := e.Agents[playerID-1].PlaceInitial(g, playerID); err != nil {
			return nil, fmt.Errorf("setup placement by player %d: %w", playerID, err)
		}
	}
	log.Info().Msgf("setup complete, player %d starts", g.CurrentPlayer().ID)

	for g.Phase == game.MainPhase && g.Turn <= e.MaxTurns {
		playerID := g.CurrentPlayer().ID
		die1, die2, total, err := g.StartTurn(playerID)
		if err != nil {
			return nil, fmt.Errorf("turn %d roll by player %d: %w", g.Turn, playerID, err)
		}
		log.Debug().Msgf("turn %d: player %d rolled %d+%d=%d", g.Turn, playerID, die1, die2, total)

		if err := e.Agents[playerID-1].PlayTurn(g, playerID, total == 7); err != nil {
			return nil, fmt.Errorf("turn %d by player %d: %w", g.Turn, playerID, err)
		}
		if g.Phase != game.MainPhase {
			break
		}
		if err := g.EndTurn(playerID); err != nil {
			return nil, fmt.Errorf("turn %d end by player %d: %w", g.Turn, playerID, err)
		}
	}

	if g.Winner != nil {
		log.Info().Msgf("player %d wins with %d points after %d turns",
			g.Winner.ID, g.Winner.VictoryPoints(), g.Turn)
	} else {
		log.Info().Msgf("no winner within %d turns", e.MaxTurns)
	}
	return g.Winner, nil
}
