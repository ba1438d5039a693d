package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"catan/engine"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type config struct {
	games    int
	players  int
	maxTurns int
	seed     int64
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg := config{
		games:    5,
		players:  4,
		maxTurns: 400,
		seed:     time.Now().UnixNano(),
	}
	runDemoGames(cfg)
}

func runDemoGames(cfg config) {
	fmt.Printf("Running %d demo games with %d random players each...\n", cfg.games, cfg.players)

	wins := make(map[int]int)
	for i := 0; i < cfg.games; i++ {
		rng := rand.New(rand.NewSource(cfg.seed + int64(i)))

		// Seat 1 plays the greedy baseline, the rest play randomly.
		agents := make([]engine.Agent, cfg.players)
		agents[0] = engine.NewGreedyAgent()
		for j := 1; j < len(agents); j++ {
			agents[j] = engine.NewRandomAgent(rng)
		}

		e, err := engine.LocalEngine(agents, cfg.maxTurns, rng)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start game")
		}

		winner, err := e.Run()
		if err != nil {
			log.Fatal().Err(err).Msgf("game %d failed", i+1)
		}
		if winner != nil {
			fmt.Printf("Game %d over! Winner: Player %d\n", i+1, winner.ID)
			wins[winner.ID]++
		} else {
			fmt.Printf("Game %d stopped at the turn cap with no winner\n", i+1)
		}
		fmt.Print(e.State.Summary())
	}

	fmt.Printf("Finished. Wins by seat: %v\n", wins)
}
