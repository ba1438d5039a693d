package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, numPlayers int, seed int64) *GameState {
	t.Helper()
	g, err := NewGameState(numPlayers, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return g
}

// mainPhaseGame returns a game forced straight into the main phase with no
// placements, for tests that build their own scenario.
func mainPhaseGame(t *testing.T, numPlayers int, seed int64) *GameState {
	t.Helper()
	g := newTestGame(t, numPlayers, seed)
	g.Phase = MainPhase
	g.Turn = 1
	return g
}

func firstLegalSetupPlot(g *GameState, p *Player) int {
	for id := 1; id <= len(g.Board.Plots); id++ {
		if g.Board.CanBuildSettlement(p, id, true) {
			return id
		}
	}
	return 0
}

func runSetup(t *testing.T, g *GameState) []int {
	t.Helper()
	var order []int
	for g.Phase == SetupPhase {
		p := g.CurrentPlayer()
		order = append(order, p.ID)

		plotID := firstLegalSetupPlot(g, p)
		require.NotZero(t, plotID, "a legal setup plot must exist")
		require.NoError(t, g.PlaceInitialSettlement(p.ID, plotID))

		placed := false
		for _, pathID := range g.Board.Plots[plotID].PathIDs {
			if g.Board.CanBuildRoad(p, pathID) {
				require.NoError(t, g.PlaceInitialRoad(p.ID, pathID))
				placed = true
				break
			}
		}
		require.True(t, placed, "a legal setup road must exist")
	}
	return order
}

func TestNewGameState(t *testing.T) {
	g := newTestGame(t, 4, 1)

	require.Equal(t, SetupPhase, g.Phase)
	require.Len(t, g.Players, 4)
	require.Equal(t, 1, g.CurrentPlayer().ID)
	require.Equal(t, 25, g.Deck.Remaining())
	for _, r := range AllResources {
		require.Equal(t, BankStock, g.Bank.Resources[r])
	}

	_, err := NewGameState(5, rand.New(rand.NewSource(1)))
	require.Error(t, err, "player count is capped at 4")
}

func TestSetupSnakeOrder(t *testing.T) {
	g := newTestGame(t, 4, 2)
	order := runSetup(t, g)

	require.Equal(t, []int{1, 2, 3, 4, 4, 3, 2, 1}, order,
		"setup runs forward then reversed")
	require.Equal(t, MainPhase, g.Phase)
	require.Equal(t, 1, g.Turn)
	require.Equal(t, 1, g.CurrentPlayer().ID, "player 1 opens the main game")
}

func TestSetupStartingResources(t *testing.T) {
	g := newTestGame(t, 4, 3)
	runSetup(t, g)

	for _, p := range g.Players {
		require.Len(t, p.SettlementPlots, 2)
		require.Equal(t, InitialSettlements-2, p.SettlementsLeft)
		require.Equal(t, InitialRoads-2, p.RoadsLeft)

		// Only the second settlement grants resources: one per adjacent
		// producing hexagon.
		expected := 0
		for _, hexID := range g.Board.Plots[p.SettlementPlots[1]].HexIDs {
			if _, ok := g.Board.Hexagon(hexID).Resource(); ok {
				expected++
			}
		}
		require.Equal(t, expected, p.TotalResources(),
			"player %d starting resources", p.ID)
	}
}

func TestSetupRejectsOutOfTurn(t *testing.T) {
	g := newTestGame(t, 4, 4)

	p2 := g.Player(2)
	require.ErrorIs(t, g.PlaceInitialSettlement(2, firstLegalSetupPlot(g, p2)), ErrNotYourTurn)
	require.ErrorIs(t, g.BuildRoad(1, 1), ErrWrongPhase, "main-phase actions are rejected during setup")
}

func TestDistributeResourcesWithBankCap(t *testing.T) {
	g := mainPhaseGame(t, 3, 5)
	for _, h := range g.Board.Hexagons {
		h.Roll = 0
		h.HasRobber = false
	}
	hex := g.Board.Hexagons[0]
	hex.Terrain = Hills
	hex.Roll = 5

	// Settlements for three players on alternating corners of the hexagon.
	for i, slot := range []int{0, 2, 4} {
		plotID := hex.PlotIDs[slot]
		g.Board.Plots[plotID].Building = &Building{Kind: SettlementBuilding, PlayerID: i + 1, PlotID: plotID}
	}
	g.Bank.Resources[Brick] = 2

	g.distributeResources(5)

	require.Equal(t, 1, g.Player(1).Resources[Brick], "first plot in board order is credited")
	require.Equal(t, 1, g.Player(2).Resources[Brick], "second plot drains the bank")
	require.Zero(t, g.Player(3).Resources[Brick], "third plot finds the bank empty")
	require.Zero(t, g.Bank.Resources[Brick])
}

func TestDistributeResourcesSkipsRobber(t *testing.T) {
	g := mainPhaseGame(t, 2, 6)
	for _, h := range g.Board.Hexagons {
		h.Roll = 0
		h.HasRobber = false
	}
	hex := g.Board.Hexagons[0]
	hex.Terrain = Forests
	hex.Roll = 9
	hex.HasRobber = true

	plotID := hex.PlotIDs[0]
	g.Board.Plots[plotID].Building = &Building{Kind: CityBuilding, PlayerID: 1, PlotID: plotID}

	g.distributeResources(9)
	require.Zero(t, g.Player(1).Resources[Wood], "robbed hexagons produce nothing")

	hex.HasRobber = false
	g.distributeResources(9)
	require.Equal(t, 2, g.Player(1).Resources[Wood], "a city collects double")
}

func TestSevenForcesHalfDiscard(t *testing.T) {
	g := mainPhaseGame(t, 2, 7)
	p := g.Player(1)
	g.Bank.Give(p, Brick, 4)
	g.Bank.Give(p, Wool, 5)

	require.True(t, p.MustDiscard())
	require.Equal(t, 4, p.DiscardCount(), "9 resources discard 9/2 = 4")

	g.randomDiscard(p, p.DiscardCount())
	require.Equal(t, 5, p.TotalResources())

	total := 0
	for _, r := range AllResources {
		total += g.Bank.Resources[r]
	}
	require.Equal(t, 5*BankStock-5, total, "discards return to the bank")
}

func TestMoveRobberAndSteal(t *testing.T) {
	g := mainPhaseGame(t, 2, 8)
	victim := g.Player(2)

	target := g.Board.RobberHexID%19 + 1
	hex := g.Board.Hexagon(target)
	plotID := hex.PlotIDs[0]
	g.Board.Plots[plotID].Building = &Building{Kind: SettlementBuilding, PlayerID: 2, PlotID: plotID}
	g.Bank.Give(victim, Wool, 1)

	require.ErrorIs(t, g.MoveRobber(1, g.Board.RobberHexID, 0), ErrRobberStays)
	require.NoError(t, g.MoveRobber(1, target, 2))

	require.Equal(t, target, g.Board.RobberHexID)
	require.Equal(t, 1, g.Player(1).Resources[Wool], "the single held unit is stolen")
	require.Zero(t, victim.Resources[Wool])
}

func TestMoveRobberNoStealWithoutBuilding(t *testing.T) {
	g := mainPhaseGame(t, 2, 9)
	victim := g.Player(2)
	g.Bank.Give(victim, Ore, 3)

	target := g.Board.RobberHexID%19 + 1
	require.NoError(t, g.MoveRobber(1, target, 2))
	require.Equal(t, 3, victim.Resources[Ore], "no building on the hexagon, nothing stolen")
}

func TestBuildRoadChargesOrUsesFreeRoads(t *testing.T) {
	g := mainPhaseGame(t, 2, 10)
	p := g.Player(1)

	plotID := g.Board.Hexagons[0].PlotIDs[0]
	g.Board.Plots[plotID].Building = &Building{Kind: SettlementBuilding, PlayerID: 1, PlotID: plotID}
	pathID := g.Board.Plots[plotID].PathIDs[0]

	require.ErrorIs(t, g.BuildRoad(1, pathID), ErrCannotAfford)

	g.Bank.Give(p, Brick, 1)
	g.Bank.Give(p, Wood, 1)
	require.NoError(t, g.BuildRoad(1, pathID))
	require.Zero(t, p.TotalResources(), "road cost paid to the bank")
	require.Equal(t, InitialRoads-1, p.RoadsLeft)

	// Free placements from Road Building bypass cost but not legality.
	p.FreeRoads = 2
	next := g.Board.Plots[g.Board.Paths[pathID].OtherPlot(plotID)].PathIDs[0]
	if next == pathID {
		next = g.Board.Plots[g.Board.Paths[pathID].OtherPlot(plotID)].PathIDs[1]
	}
	require.NoError(t, g.BuildRoad(1, next))
	require.Equal(t, 1, p.FreeRoads)
	require.ErrorIs(t, g.BuildRoad(1, next), ErrOccupied)
}

func TestBuildSettlementAndCity(t *testing.T) {
	g := mainPhaseGame(t, 2, 11)
	p := g.Player(1)

	plotID := g.Board.Hexagons[0].PlotIDs[0]
	pathID := g.Board.Plots[plotID].PathIDs[0]
	g.Board.Paths[pathID].Road = &Road{PlayerID: 1, PathID: pathID}

	require.ErrorIs(t, g.BuildSettlement(1, plotID), ErrCannotAfford)
	for r, n := range SettlementCost {
		g.Bank.Give(p, r, n)
	}
	require.NoError(t, g.BuildSettlement(1, plotID))
	require.Equal(t, 1, p.VictoryPoints())
	require.Equal(t, InitialSettlements-1, p.SettlementsLeft)

	require.ErrorIs(t, g.BuildCity(1, plotID), ErrCannotAfford)
	for r, n := range CityCost {
		g.Bank.Give(p, r, n)
	}
	require.NoError(t, g.BuildCity(1, plotID))

	require.Equal(t, 2, p.VictoryPoints(), "city is worth two points")
	require.Equal(t, CityBuilding, g.Board.Plots[plotID].Building.Kind)
	require.Equal(t, InitialSettlements, p.SettlementsLeft, "upgrade frees the settlement piece")
	require.Equal(t, InitialCities-1, p.CitiesLeft)
	require.Empty(t, p.SettlementPlots)
	require.Equal(t, []int{plotID}, p.CityPlots)
}

func TestBuyDevelopmentCard(t *testing.T) {
	g := mainPhaseGame(t, 2, 12)
	p := g.Player(1)

	_, err := g.BuyDevelopmentCard(1)
	require.ErrorIs(t, err, ErrCannotAfford)

	for r, n := range DevCardCost {
		g.Bank.Give(p, r, n)
	}
	cardType, err := g.BuyDevelopmentCard(1)
	require.NoError(t, err)
	require.Len(t, p.DevelopmentCards, 1)
	require.Equal(t, cardType, p.DevelopmentCards[0].Type)
	require.Len(t, p.BoughtThisTurn, 1)
	require.Equal(t, 24, g.Deck.Remaining())
}

func TestBuyDevelopmentCardEmptyDeckRefunds(t *testing.T) {
	g := mainPhaseGame(t, 2, 13)
	p := g.Player(1)
	for g.Deck.Draw() != nil {
	}

	for r, n := range DevCardCost {
		g.Bank.Give(p, r, n)
	}
	before := p.TotalResources()

	_, err := g.BuyDevelopmentCard(1)
	require.ErrorIs(t, err, ErrDeckExhausted)
	require.Equal(t, before, p.TotalResources(), "payment refunded when the deck is empty")
	require.Empty(t, p.DevelopmentCards)
}

// giveCard plants a card in the player's hand as if bought on an earlier
// turn.
func giveCard(p *Player, cardType DevelopmentCardType) int {
	p.DevelopmentCards = append(p.DevelopmentCards, &DevelopmentCard{Type: cardType})
	return len(p.DevelopmentCards) - 1
}

func TestPlayKnight(t *testing.T) {
	g := mainPhaseGame(t, 2, 14)
	p := g.Player(1)
	idx := giveCard(p, KnightCard)

	target := g.Board.RobberHexID%19 + 1
	require.ErrorIs(t,
		g.PlayDevelopmentCard(1, CardPlay{CardIndex: idx, RobberHexID: g.Board.RobberHexID}),
		ErrRobberStays)
	require.Zero(t, p.KnightsPlayed, "a rejected play leaves no effect behind")

	require.NoError(t, g.PlayDevelopmentCard(1, CardPlay{CardIndex: idx, RobberHexID: target}))
	require.Equal(t, 1, p.KnightsPlayed)
	require.Equal(t, target, g.Board.RobberHexID)
	require.True(t, p.PlayedCardThisTurn)
	require.True(t, p.DevelopmentCards[idx].Played)
}

func TestPlayMonopolySeizesFromAllPlayers(t *testing.T) {
	g := mainPhaseGame(t, 4, 15)
	p := g.Player(1)
	g.Bank.Give(g.Player(2), Wheat, 3)
	g.Bank.Give(g.Player(3), Wheat, 2)
	g.Bank.Give(g.Player(4), Brick, 2)

	idx := giveCard(p, MonopolyCard)
	require.NoError(t, g.PlayDevelopmentCard(1, CardPlay{CardIndex: idx, Monopolize: Wheat}))

	require.Equal(t, 5, p.Resources[Wheat], "all wheat moves to the seizer")
	require.Zero(t, g.Player(2).Resources[Wheat])
	require.Zero(t, g.Player(3).Resources[Wheat])
	require.Equal(t, 2, g.Player(4).Resources[Brick], "other resources untouched")
}

func TestPlayInventionCappedByBank(t *testing.T) {
	g := mainPhaseGame(t, 2, 16)
	p := g.Player(1)
	g.Bank.Resources[Ore] = 1

	idx := giveCard(p, InventionCard)
	require.NoError(t, g.PlayDevelopmentCard(1, CardPlay{CardIndex: idx, Invent: [2]Resource{Ore, Ore}}))

	require.Equal(t, 1, p.Resources[Ore], "second unit unavailable, bank empty")
	require.Zero(t, g.Bank.Resources[Ore])
}

func TestPlayRoadBuilding(t *testing.T) {
	g := mainPhaseGame(t, 2, 17)
	p := g.Player(1)

	idx := giveCard(p, RoadBuildingCard)
	require.NoError(t, g.PlayDevelopmentCard(1, CardPlay{CardIndex: idx}))
	require.Equal(t, 2, p.FreeRoads)
}

func TestPlayVictoryPointCard(t *testing.T) {
	g := mainPhaseGame(t, 2, 18)
	p := g.Player(1)

	// Bought this turn, still playable, and exempt from the one-card limit.
	knightIdx := giveCard(p, KnightCard)
	target := g.Board.RobberHexID%19 + 1
	require.NoError(t, g.PlayDevelopmentCard(1, CardPlay{CardIndex: knightIdx, RobberHexID: target}))

	vp := &DevelopmentCard{Type: VictoryPointCard}
	p.DevelopmentCards = append(p.DevelopmentCards, vp)
	p.BoughtThisTurn = append(p.BoughtThisTurn, vp)

	require.NoError(t, g.PlayDevelopmentCard(1, CardPlay{CardIndex: len(p.DevelopmentCards) - 1}))
	require.Equal(t, 1, p.VictoryCardsPlayed)
	require.Equal(t, 1, p.VictoryPoints())
}

func TestOneCardPerTurn(t *testing.T) {
	g := mainPhaseGame(t, 2, 19)
	p := g.Player(1)

	first := giveCard(p, RoadBuildingCard)
	second := giveCard(p, MonopolyCard)

	require.NoError(t, g.PlayDevelopmentCard(1, CardPlay{CardIndex: first}))
	require.ErrorIs(t, g.PlayDevelopmentCard(1, CardPlay{CardIndex: second, Monopolize: Ore}),
		ErrCardNotPlayable)

	require.NoError(t, g.EndTurn(1))
	require.NoError(t, g.EndTurn(2))
	require.NoError(t, g.PlayDevelopmentCard(1, CardPlay{CardIndex: second, Monopolize: Ore}),
		"limit resets on the next turn")
}

func TestCardUnplayableTurnBought(t *testing.T) {
	g := mainPhaseGame(t, 2, 20)
	p := g.Player(1)
	for r, n := range DevCardCost {
		g.Bank.Give(p, r, n)
	}
	_, err := g.BuyDevelopmentCard(1)
	require.NoError(t, err)

	card := p.DevelopmentCards[0]
	if card.Type == VictoryPointCard {
		t.Skip("drew a victory point card, which is always playable")
	}
	err = g.PlayDevelopmentCard(1, CardPlay{CardIndex: 0, RobberHexID: g.Board.RobberHexID%19 + 1})
	require.ErrorIs(t, err, ErrCardNotPlayable)
}

func TestProposeTrade(t *testing.T) {
	g := mainPhaseGame(t, 2, 21)
	p1, p2 := g.Player(1), g.Player(2)
	g.Bank.Give(p1, Brick, 2)
	g.Bank.Give(p2, Wheat, 1)

	require.ErrorIs(t,
		g.ProposeTrade(1, 2, map[Resource]int{Brick: 1}, map[Resource]int{Brick: 1}),
		ErrBadTrade, "a resource kind may not appear on both sides")

	require.ErrorIs(t,
		g.ProposeTrade(1, 2, map[Resource]int{Brick: 1}, map[Resource]int{Ore: 1}),
		ErrCannotAfford, "target lacks the requested ore")
	require.Equal(t, 2, p1.Resources[Brick], "rejected trade moves nothing")
	require.Equal(t, 1, p2.Resources[Wheat], "rejected trade moves nothing")

	require.NoError(t, g.ProposeTrade(1, 2, map[Resource]int{Brick: 2}, map[Resource]int{Wheat: 1}))
	require.Zero(t, p1.Resources[Brick])
	require.Equal(t, 1, p1.Resources[Wheat])
	require.Equal(t, 2, p2.Resources[Brick])
}

func TestBankTradeUsesBestRatio(t *testing.T) {
	g := mainPhaseGame(t, 2, 22)
	p := g.Player(1)

	g.Bank.Give(p, Wool, 4)
	require.NoError(t, g.BankTrade(1, Wool, Ore))
	require.Zero(t, p.Resources[Wool], "default bank rate is 4:1")
	require.Equal(t, 1, p.Resources[Ore])

	// A generic port improves the rate to 3:1.
	var generic *Port
	for _, port := range g.Board.Ports {
		if port.Type == PortAny {
			generic = port
			break
		}
	}
	plotID := generic.PlotIDs[0]
	g.Board.Plots[plotID].Building = &Building{Kind: SettlementBuilding, PlayerID: 1, PlotID: plotID}
	p.SettlementPlots = append(p.SettlementPlots, plotID)

	g.Bank.Give(p, Wool, 3)
	require.NoError(t, g.BankTrade(1, Wool, Ore))
	require.Zero(t, p.Resources[Wool], "generic port trades at 3:1")
	require.Equal(t, 2, p.Resources[Ore])
}

func TestLongestRoadAward(t *testing.T) {
	g := mainPhaseGame(t, 2, 23)
	b := g.Board

	start1 := b.Hexagons[0].PlotIDs[0]
	visited1 := map[int]bool{start1: true}
	end1 := extendChain(t, b, 1, start1, 4, visited1)
	g.checkLongestRoad()
	require.False(t, g.Player(1).HasLongestRoad, "four roads are below the threshold")

	extendChain(t, b, 1, end1, 1, visited1)
	g.checkLongestRoad()
	require.True(t, g.Player(1).HasLongestRoad, "five roads earn the award")
	require.Equal(t, AwardPoints, g.Player(1).VictoryPoints())

	// An equal-length road does not transfer the award.
	start2 := b.Hexagons[18].PlotIDs[3]
	visited2 := map[int]bool{start2: true}
	end2 := extendChain(t, b, 2, start2, 5, visited2)
	g.checkLongestRoad()
	require.True(t, g.Player(1).HasLongestRoad, "ties never transfer")
	require.False(t, g.Player(2).HasLongestRoad)

	// Strictly exceeding it does.
	extendChain(t, b, 2, end2, 1, visited2)
	g.checkLongestRoad()
	require.False(t, g.Player(1).HasLongestRoad)
	require.True(t, g.Player(2).HasLongestRoad)
}

func TestLargestArmyAward(t *testing.T) {
	g := mainPhaseGame(t, 2, 24)
	a, b := g.Player(1), g.Player(2)

	a.KnightsPlayed = 2
	g.checkLargestArmy()
	require.False(t, a.HasLargestArmy, "two knights are below the threshold")

	a.KnightsPlayed = 3
	g.checkLargestArmy()
	require.True(t, a.HasLargestArmy)

	b.KnightsPlayed = 3
	g.checkLargestArmy()
	require.True(t, a.HasLargestArmy, "a tie keeps the award with the holder")
	require.False(t, b.HasLargestArmy)

	b.KnightsPlayed = 4
	g.checkLargestArmy()
	require.False(t, a.HasLargestArmy, "strict excess transfers the award")
	require.True(t, b.HasLargestArmy)
}

func TestCheckVictoryIdempotent(t *testing.T) {
	g := mainPhaseGame(t, 2, 25)

	require.False(t, g.CheckVictory())
	require.Equal(t, MainPhase, g.Phase)
	require.Nil(t, g.Winner)
	require.False(t, g.CheckVictory(), "repeated checks never change anything")

	g.Player(2).VictoryCardsPlayed = VictoryTarget
	require.True(t, g.CheckVictory())
	require.Equal(t, EndPhase, g.Phase)
	require.Equal(t, g.Player(2), g.Winner)
}

func TestEndTurnResetsFlagsAndAdvances(t *testing.T) {
	g := mainPhaseGame(t, 3, 26)
	p := g.Player(1)
	p.PlayedCardThisTurn = true
	p.BoughtThisTurn = []*DevelopmentCard{{Type: KnightCard}}

	require.ErrorIs(t, g.EndTurn(2), ErrNotYourTurn)
	require.NoError(t, g.EndTurn(1))

	require.False(t, p.PlayedCardThisTurn)
	require.Empty(t, p.BoughtThisTurn)
	require.Equal(t, 2, g.CurrentPlayer().ID)
	require.Equal(t, 2, g.Turn)

	require.NoError(t, g.EndTurn(2))
	require.NoError(t, g.EndTurn(3))
	require.Equal(t, 1, g.CurrentPlayer().ID, "turn order is cyclic")
}

func TestResourceConservation(t *testing.T) {
	g := newTestGame(t, 4, 27)
	runSetup(t, g)

	// Roll a handful of turns' worth of distributions.
	for total := 2; total <= 12; total++ {
		if total != 7 {
			g.distributeResources(total)
		}
	}

	for _, r := range AllResources {
		sum := g.Bank.Resources[r]
		for _, p := range g.Players {
			sum += p.Resources[r]
		}
		require.Equal(t, BankStock, sum, "every %s unit is in the bank or a hand", r)
	}
}
