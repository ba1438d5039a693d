package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"catan/game"

	"golang.org/x/exp/slices"
)

// RandomAgent plays by picking uniformly among legal candidates, the way the
// demo driver exercises the engine. It holds its own source so agent
// decisions replay deterministically under a fixed seed.
type RandomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns an agent drawing its choices from rng.
func NewRandomAgent(rng *rand.Rand) *RandomAgent {
	return &RandomAgent{rng: rng}
}

func (a *RandomAgent) PlaceInitial(g *game.GameState, playerID int) error {
	p := g.Player(playerID)

	var plots []int
	for id := 1; id <= len(g.Board.Plots); id++ {
		if g.Board.CanBuildSettlement(p, id, true) {
			plots = append(plots, id)
		}
	}
	if len(plots) == 0 {
		return fmt.Errorf("no legal setup plot for player %d", playerID)
	}
	plotID := plots[a.rng.Intn(len(plots))]
	if err := g.PlaceInitialSettlement(playerID, plotID); err != nil {
		return err
	}

	var paths []int
	for _, pathID := range g.Board.Plots[plotID].PathIDs {
		if g.Board.CanBuildRoad(p, pathID) {
			paths = append(paths, pathID)
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no legal setup road at plot %d", plotID)
	}
	return g.PlaceInitialRoad(playerID, paths[a.rng.Intn(len(paths))])
}

func (a *RandomAgent) PlayTurn(g *game.GameState, playerID int, rolledSeven bool) error {
	p := g.Player(playerID)

	if rolledSeven {
		hexID, victimID := a.chooseRobberTarget(g, playerID)
		if err := g.MoveRobber(playerID, hexID, victimID); err != nil {
			return err
		}
	}

	built := false

	if p.CanAfford(game.DevCardCost) && a.rng.Float64() < 0.25 {
		if _, err := g.BuyDevelopmentCard(playerID); err != nil && !errors.Is(err, game.ErrDeckExhausted) {
			return err
		}
		built = true
	}

	if !built && p.CanAfford(game.CityCost) {
		for _, plotID := range p.SettlementPlots {
			if g.Board.CanBuildCity(p, plotID) {
				if err := g.BuildCity(playerID, plotID); err != nil {
					return err
				}
				built = true
				break
			}
		}
	}
	if g.Phase != game.MainPhase {
		return nil
	}

	if !built && p.CanAfford(game.SettlementCost) {
		var plots []int
		for id := 1; id <= len(g.Board.Plots); id++ {
			if g.Board.CanBuildSettlement(p, id, false) {
				plots = append(plots, id)
			}
		}
		if len(plots) > 0 {
			if err := g.BuildSettlement(playerID, plots[a.rng.Intn(len(plots))]); err != nil {
				return err
			}
			built = true
		}
	}
	if g.Phase != game.MainPhase {
		return nil
	}

	if !built && (p.FreeRoads > 0 || p.CanAfford(game.RoadCost)) && a.rng.Float64() < 0.5 {
		var paths []int
		for id := 1; id <= len(g.Board.Paths); id++ {
			if g.Board.CanBuildRoad(p, id) {
				paths = append(paths, id)
			}
		}
		if len(paths) > 0 {
			if err := g.BuildRoad(playerID, paths[a.rng.Intn(len(paths))]); err != nil {
				return err
			}
		}
	}
	if g.Phase != game.MainPhase {
		return nil
	}

	// Dump an overstocked resource at the best available ratio.
	for _, give := range game.AllResources {
		ratio := p.BestTradeRatio(g.Board, give)
		if p.Resources[give] < ratio {
			continue
		}
		receive := a.otherResource(give)
		if err := g.BankTrade(playerID, give, receive); err != nil && !errors.Is(err, game.ErrBankShort) {
			return err
		}
		break
	}

	if cards := p.PlayableCards(); len(cards) > 0 && a.rng.Float64() < 0.3 {
		if err := a.playCard(g, playerID, cards[0]); err != nil {
			return err
		}
	}
	return nil
}

func (a *RandomAgent) playCard(g *game.GameState, playerID int, card *game.DevelopmentCard) error {
	p := g.Player(playerID)
	index := -1
	for i, held := range p.DevelopmentCards {
		if held == card {
			index = i
			break
		}
	}
	play := game.CardPlay{CardIndex: index}
	switch card.Type {
	case game.KnightCard:
		play.RobberHexID, play.VictimID = a.chooseRobberTarget(g, playerID)
	case game.MonopolyCard:
		play.Monopolize = game.AllResources[a.rng.Intn(len(game.AllResources))]
	case game.InventionCard:
		play.Invent[0] = game.AllResources[a.rng.Intn(len(game.AllResources))]
		play.Invent[1] = game.AllResources[a.rng.Intn(len(game.AllResources))]
	}
	return g.PlayDevelopmentCard(playerID, play)
}

// chooseRobberTarget picks a random hexagon other than the robber's current
// one, plus a stealable opponent on it when there is one.
func (a *RandomAgent) chooseRobberTarget(g *game.GameState, playerID int) (hexID, victimID int) {
	var hexes []int
	for _, hex := range g.Board.Hexagons {
		if hex.ID != g.Board.RobberHexID {
			hexes = append(hexes, hex.ID)
		}
	}
	hexID = hexes[a.rng.Intn(len(hexes))]

	var victims []int
	for _, plotID := range g.Board.Hexagon(hexID).PlotIDs {
		bld := g.Board.Plots[plotID].Building
		if bld == nil || bld.PlayerID == playerID {
			continue
		}
		victim := g.Player(bld.PlayerID)
		if victim.TotalResources() > 0 && !slices.Contains(victims, victim.ID) {
			victims = append(victims, victim.ID)
		}
	}
	if len(victims) > 0 {
		victimID = victims[a.rng.Intn(len(victims))]
	}
	return hexID, victimID
}

func (a *RandomAgent) otherResource(give game.Resource) game.Resource {
	for {
		r := game.AllResources[a.rng.Intn(len(game.AllResources))]
		if r != give {
			return r
		}
	}
}
