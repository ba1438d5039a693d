package engine

import (
	"errors"
	"fmt"

	"catan/game"
)

// GreedyAgent scores every legal candidate and takes the best one, breaking
// ties by lowest ID. It is fully deterministic, which makes it a useful
// baseline opponent next to RandomAgent.
type GreedyAgent struct{}

// NewGreedyAgent returns the deterministic baseline agent.
func NewGreedyAgent() *GreedyAgent {
	return &GreedyAgent{}
}

// pipWeight is the relative production frequency of a roll number: 6 and 8
// come up five times as often as 2 and 12.
func pipWeight(roll int) int {
	if roll < 2 || roll > 12 || roll == 7 {
		return 0
	}
	return 6 - abs(7-roll)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// plotScore tallies the production weight of every hexagon touching the plot.
func plotScore(b *game.Board, plotID int) int {
	score := 0
	for _, hexID := range b.Plots[plotID].HexIDs {
		hex := b.Hexagon(hexID)
		if _, ok := hex.Resource(); ok {
			score += pipWeight(hex.Roll)
		}
	}
	return score
}

func (a *GreedyAgent) PlaceInitial(g *game.GameState, playerID int) error {
	p := g.Player(playerID)

	bestPlot, bestScore := 0, -1
	for id := 1; id <= len(g.Board.Plots); id++ {
		if !g.Board.CanBuildSettlement(p, id, true) {
			continue
		}
		if s := plotScore(g.Board, id); s > bestScore {
			bestPlot, bestScore = id, s
		}
	}
	if bestPlot == 0 {
		return fmt.Errorf("no legal setup plot for player %d", playerID)
	}
	if err := g.PlaceInitialSettlement(playerID, bestPlot); err != nil {
		return err
	}

	// Point the road at the most productive unoccupied neighbor plot.
	bestPath, bestScore := 0, -1
	for _, pathID := range g.Board.Plots[bestPlot].PathIDs {
		if !g.Board.CanBuildRoad(p, pathID) {
			continue
		}
		other := g.Board.Paths[pathID].OtherPlot(bestPlot)
		if s := plotScore(g.Board, other); s > bestScore {
			bestPath, bestScore = pathID, s
		}
	}
	if bestPath == 0 {
		return fmt.Errorf("no legal setup road at plot %d", bestPlot)
	}
	return g.PlaceInitialRoad(playerID, bestPath)
}

func (a *GreedyAgent) PlayTurn(g *game.GameState, playerID int, rolledSeven bool) error {
	p := g.Player(playerID)

	if rolledSeven {
		hexID, victimID := a.chooseRobberTarget(g, playerID)
		if err := g.MoveRobber(playerID, hexID, victimID); err != nil {
			return err
		}
	}

	// Spend downwards: city, settlement, development card, road.
	if p.CanAfford(game.CityCost) {
		bestPlot, bestScore := 0, -1
		for _, plotID := range p.SettlementPlots {
			if !g.Board.CanBuildCity(p, plotID) {
				continue
			}
			if s := plotScore(g.Board, plotID); s > bestScore {
				bestPlot, bestScore = plotID, s
			}
		}
		if bestPlot != 0 {
			if err := g.BuildCity(playerID, bestPlot); err != nil {
				return err
			}
		}
	}
	if g.Phase != game.MainPhase {
		return nil
	}

	if p.CanAfford(game.SettlementCost) {
		bestPlot, bestScore := 0, -1
		for id := 1; id <= len(g.Board.Plots); id++ {
			if !g.Board.CanBuildSettlement(p, id, false) {
				continue
			}
			if s := plotScore(g.Board, id); s > bestScore {
				bestPlot, bestScore = id, s
			}
		}
		if bestPlot != 0 {
			if err := g.BuildSettlement(playerID, bestPlot); err != nil {
				return err
			}
		}
	}
	if g.Phase != game.MainPhase {
		return nil
	}

	if p.CanAfford(game.DevCardCost) {
		if _, err := g.BuyDevelopmentCard(playerID); err != nil && !errors.Is(err, game.ErrDeckExhausted) {
			return err
		}
	}

	if p.FreeRoads > 0 || p.CanAfford(game.RoadCost) {
		bestPath, bestScore := 0, -1
		for id := 1; id <= len(g.Board.Paths); id++ {
			if !g.Board.CanBuildRoad(p, id) {
				continue
			}
			// Reach for the better of the two endpoint plots.
			path := g.Board.Paths[id]
			s := max(plotScore(g.Board, path.PlotIDs[0]), plotScore(g.Board, path.PlotIDs[1]))
			if s > bestScore {
				bestPath, bestScore = id, s
			}
		}
		if bestPath != 0 {
			if err := g.BuildRoad(playerID, bestPath); err != nil {
				return err
			}
		}
	}
	if g.Phase != game.MainPhase {
		return nil
	}

	// Trade the deepest surplus into the scarcest resource.
	give, receive := a.tradePlan(g, p)
	if give != receive {
		if err := g.BankTrade(playerID, give, receive); err != nil && !errors.Is(err, game.ErrBankShort) {
			return err
		}
	}

	if cards := p.PlayableCards(); len(cards) > 0 {
		if err := a.playCard(g, playerID, cards[0]); err != nil {
			return err
		}
	}
	return nil
}

// tradePlan returns a bank trade worth making, or equal resources when none
// is: the most-held resource above its trade ratio for the least-held one.
func (a *GreedyAgent) tradePlan(g *game.GameState, p *game.Player) (give, receive game.Resource) {
	give, receive = game.AllResources[0], a.scarcestResource(p)
	bestSurplus := 0
	for _, r := range game.AllResources {
		if r == receive {
			continue
		}
		ratio := p.BestTradeRatio(g.Board, r)
		if surplus := p.Resources[r] - ratio; surplus >= 0 && surplus > bestSurplus {
			give, bestSurplus = r, surplus
		}
	}
	if bestSurplus == 0 {
		return game.Brick, game.Brick
	}
	return give, receive
}

func (a *GreedyAgent) playCard(g *game.GameState, playerID int, card *game.DevelopmentCard) error {
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
		play.Monopolize = a.scarcestResource(p)
	case game.InventionCard:
		play.Invent[0] = a.scarcestResource(p)
		play.Invent[1] = play.Invent[0]
	}
	return g.PlayDevelopmentCard(playerID, play)
}

func (a *GreedyAgent) scarcestResource(p *game.Player) game.Resource {
	scarcest := game.AllResources[0]
	for _, r := range game.AllResources[1:] {
		if p.Resources[r] < p.Resources[scarcest] {
			scarcest = r
		}
	}
	return scarcest
}

// chooseRobberTarget parks the robber on the most productive hexagon that
// hosts an opponent but none of the agent's own buildings, and robs the
// richest player on it.
func (a *GreedyAgent) chooseRobberTarget(g *game.GameState, playerID int) (hexID, victimID int) {
	bestScore := -1
	for _, hex := range g.Board.Hexagons {
		if hex.ID == g.Board.RobberHexID {
			continue
		}
		hasOpponent, hasOwn := false, false
		for _, plotID := range hex.PlotIDs {
			if bld := g.Board.Plots[plotID].Building; bld != nil {
				if bld.PlayerID == playerID {
					hasOwn = true
				} else {
					hasOpponent = true
				}
			}
		}
		if hasOwn {
			continue
		}
		score := pipWeight(hex.Roll)
		if hasOpponent {
			score += 100
		}
		if score > bestScore {
			hexID, bestScore = hex.ID, score
		}
	}
	if hexID == 0 {
		// Own buildings everywhere; any hexagon but the robber's will do.
		hexID = g.Board.RobberHexID%19 + 1
	}

	richest := 0
	for _, plotID := range g.Board.Hexagon(hexID).PlotIDs {
		bld := g.Board.Plots[plotID].Building
		if bld == nil || bld.PlayerID == playerID {
			continue
		}
		victim := g.Player(bld.PlayerID)
		if held := victim.TotalResources(); held > richest {
			victimID, richest = victim.ID, held
		}
	}
	return hexID, victimID
}
