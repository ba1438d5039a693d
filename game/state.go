package game

import (
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/exp/slices"
)

// Phase is the coarse state of the turn machine.
type Phase int

const (
	SetupPhase Phase = iota
	MainPhase
	EndPhase
)

func (p Phase) String() string {
	switch p {
	case SetupPhase:
		return "setup"
	case MainPhase:
		return "main"
	case EndPhase:
		return "end"
	default:
		return "unknown"
	}
}

// GameState owns the board, the bank, the deck and the players, and drives
// every mutation of them. All randomness flows through the injected source,
// so a fixed seed replays the same game.
type GameState struct {
	Board   *Board
	Bank    *Bank
	Deck    *DevelopmentDeck
	Players []*Player

	CurrentIndex int
	Turn         int
	Phase        Phase
	Winner       *Player

	// Setup bookkeeping: one forward round then one reversed round.
	SetupRound      int
	SetupForward    bool
	SetupPlacements int

	rng *rand.Rand
}

// NewGameState builds a fresh game: constructed board with randomized
// terrain/rolls, stocked bank, shuffled deck, and numPlayers empty seats.
func NewGameState(numPlayers int, rng *rand.Rand) (*GameState, error) {
	if numPlayers < 2 || numPlayers > 4 {
		return nil, fmt.Errorf("%w: %d players", ErrNoSuchTarget, numPlayers)
	}
	g := &GameState{
		Board:        NewBoard(),
		Bank:         NewBank(),
		Deck:         NewDevelopmentDeck(rng),
		Phase:        SetupPhase,
		SetupRound:   1,
		SetupForward: true,
		rng:          rng,
	}
	g.Board.SetupRandom(rng)
	for id := 1; id <= numPlayers; id++ {
		g.Players = append(g.Players, NewPlayer(id))
	}
	return g, nil
}

// CurrentPlayer is the player whose turn it is.
func (g *GameState) CurrentPlayer() *Player {
	return g.Players[g.CurrentIndex]
}

// Player returns the player with the given ID, or nil.
func (g *GameState) Player(id int) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// requireTurn verifies phase and acting player for a turn-scoped operation.
func (g *GameState) requireTurn(playerID int, phase Phase) (*Player, error) {
	if g.Phase != phase {
		return nil, ErrWrongPhase
	}
	p := g.Player(playerID)
	if p == nil {
		return nil, ErrNoSuchTarget
	}
	if p != g.CurrentPlayer() {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

// PlaceInitialSettlement places a setup settlement for the current player.
// Only the distance rule applies; no road connection is required. The second
// settlement of each player grants one resource per adjacent producing
// hexagon, capped by bank stock.
func (g *GameState) PlaceInitialSettlement(playerID, plotID int) error {
	p, err := g.requireTurn(playerID, SetupPhase)
	if err != nil {
		return err
	}
	if err := g.Board.settlementError(p, plotID, true); err != nil {
		return err
	}

	plot := g.Board.Plots[plotID]
	plot.Building = &Building{Kind: SettlementBuilding, PlayerID: p.ID, PlotID: plotID}
	p.SettlementPlots = append(p.SettlementPlots, plotID)
	p.SettlementsLeft--

	if g.SetupRound == 2 {
		g.collectStartingResources(p, plot)
	}
	g.SetupPlacements++
	return nil
}

// PlaceInitialRoad places a setup road for the current player. The road must
// touch the settlement the player just placed; placing it hands the turn to
// the next setup seat.
func (g *GameState) PlaceInitialRoad(playerID, pathID int) error {
	p, err := g.requireTurn(playerID, SetupPhase)
	if err != nil {
		return err
	}
	if len(p.SettlementPlots) == 0 {
		return ErrNotConnected
	}
	lastPlot := p.SettlementPlots[len(p.SettlementPlots)-1]
	path, ok := g.Board.Paths[pathID]
	if !ok {
		return ErrNoSuchTarget
	}
	if path.OtherPlot(lastPlot) == 0 {
		return ErrNotConnected
	}
	if err := g.Board.roadError(p, pathID); err != nil {
		return err
	}

	path.Road = &Road{PlayerID: p.ID, PathID: pathID}
	p.RoadPaths = append(p.RoadPaths, pathID)
	p.RoadsLeft--

	g.advanceSetupTurn()
	return nil
}

// advanceSetupTurn walks the snake order: forward through all seats, then
// the last seat again, then backwards. When the reversed round finishes the
// main game begins.
func (g *GameState) advanceSetupTurn() {
	if g.SetupForward {
		if g.CurrentIndex < len(g.Players)-1 {
			g.CurrentIndex++
		} else {
			g.SetupForward = false
			g.SetupRound = 2
		}
	} else {
		if g.CurrentIndex > 0 {
			g.CurrentIndex--
		} else {
			g.Phase = MainPhase
			g.Turn = 1
		}
	}
}

func (g *GameState) collectStartingResources(p *Player, plot *Plot) {
	for _, hexID := range plot.HexIDs {
		hex := g.Board.Hexagon(hexID)
		if r, ok := hex.Resource(); ok {
			g.Bank.Give(p, r, 1)
		}
	}
}

// StartTurn rolls the dice for the acting player. A 7 forces every
// over-threshold player to discard half their hand (random units, weighted
// by holdings); the caller must then relocate the robber via MoveRobber.
// Any other total distributes resources.
func (g *GameState) StartTurn(playerID int) (die1, die2, total int, err error) {
	_, err = g.requireTurn(playerID, MainPhase)
	if err != nil {
		return 0, 0, 0, err
	}
	die1 = g.rng.Intn(6) + 1
	die2 = g.rng.Intn(6) + 1
	total = die1 + die2

	if total == 7 {
		for _, p := range g.Players {
			if p.MustDiscard() {
				g.randomDiscard(p, p.DiscardCount())
			}
		}
	} else {
		g.distributeResources(total)
	}
	return die1, die2, total, nil
}

// randomDiscard removes count units from the player's hand, each drawn
// uniformly over held units, and returns them to the bank.
func (g *GameState) randomDiscard(p *Player, count int) {
	var units []Resource
	for _, r := range AllResources {
		for i := 0; i < p.Resources[r]; i++ {
			units = append(units, r)
		}
	}
	g.rng.Shuffle(len(units), func(i, j int) {
		units[i], units[j] = units[j], units[i]
	})
	for i := 0; i < count && i < len(units); i++ {
		p.Resources[units[i]]--
		g.Bank.Resources[units[i]]++
	}
}

// distributeResources credits every building on a matching, robber-free
// hexagon. Hexagons are processed in ID order and plots in cyclic order, so
// bank depletion is deterministic; each credit is capped independently.
func (g *GameState) distributeResources(total int) {
	for _, hex := range g.Board.Hexagons {
		if hex.Roll != total || hex.HasRobber {
			continue
		}
		resource, ok := hex.Resource()
		if !ok {
			continue
		}
		for _, plotID := range hex.PlotIDs {
			bld := g.Board.Plots[plotID].Building
			if bld == nil {
				continue
			}
			g.Bank.Give(g.Player(bld.PlayerID), resource, bld.ResourceMultiplier())
		}
	}
}

// MoveRobber relocates the robber for the acting player and, when victimID
// is non-zero, steals one holdings-weighted random resource from the victim
// if the victim has a building on the target hexagon and anything to steal.
func (g *GameState) MoveRobber(playerID, hexID, victimID int) error {
	p, err := g.requireTurn(playerID, MainPhase)
	if err != nil {
		return err
	}
	hex := g.Board.Hexagon(hexID)
	if hex == nil {
		return ErrNoSuchTarget
	}
	if hexID == g.Board.RobberHexID {
		return ErrRobberStays
	}
	if err := g.Board.MoveRobber(hexID); err != nil {
		return err
	}

	if victimID == 0 {
		return nil
	}
	victim := g.Player(victimID)
	if victim == nil || victim == p {
		return ErrNoSuchTarget
	}
	g.steal(p, victim, hex)
	return nil
}

func (g *GameState) steal(thief, victim *Player, hex *Hexagon) {
	onHex := false
	for _, plotID := range hex.PlotIDs {
		if bld := g.Board.Plots[plotID].Building; bld != nil && bld.PlayerID == victim.ID {
			onHex = true
			break
		}
	}
	if !onHex || victim.TotalResources() == 0 {
		return
	}
	var units []Resource
	for _, r := range AllResources {
		for i := 0; i < victim.Resources[r]; i++ {
			units = append(units, r)
		}
	}
	stolen := units[g.rng.Intn(len(units))]
	victim.Resources[stolen]--
	thief.Resources[stolen]++
}

// BuildRoad places a road for the acting player, consuming a free placement
// from a Road Building card before charging the usual cost.
func (g *GameState) BuildRoad(playerID, pathID int) error {
	p, err := g.requireTurn(playerID, MainPhase)
	if err != nil {
		return err
	}
	if err := g.Board.roadError(p, pathID); err != nil {
		return err
	}
	if p.FreeRoads > 0 {
		p.FreeRoads--
	} else if err := p.Pay(g.Bank, RoadCost); err != nil {
		return err
	}

	g.Board.Paths[pathID].Road = &Road{PlayerID: p.ID, PathID: pathID}
	p.RoadPaths = append(p.RoadPaths, pathID)
	p.RoadsLeft--

	g.checkLongestRoad()
	return nil
}

// BuildSettlement places a settlement for the acting player.
func (g *GameState) BuildSettlement(playerID, plotID int) error {
	p, err := g.requireTurn(playerID, MainPhase)
	if err != nil {
		return err
	}
	if err := g.Board.settlementError(p, plotID, false); err != nil {
		return err
	}
	if err := p.Pay(g.Bank, SettlementCost); err != nil {
		return err
	}

	g.Board.Plots[plotID].Building = &Building{Kind: SettlementBuilding, PlayerID: p.ID, PlotID: plotID}
	p.SettlementPlots = append(p.SettlementPlots, plotID)
	p.SettlementsLeft--

	g.CheckVictory()
	return nil
}

// BuildCity upgrades the acting player's settlement in place. The freed
// settlement piece returns to the player's stock.
func (g *GameState) BuildCity(playerID, plotID int) error {
	p, err := g.requireTurn(playerID, MainPhase)
	if err != nil {
		return err
	}
	if err := g.Board.cityError(p, plotID); err != nil {
		return err
	}
	if err := p.Pay(g.Bank, CityCost); err != nil {
		return err
	}

	if i := slices.Index(p.SettlementPlots, plotID); i >= 0 {
		p.SettlementPlots = slices.Delete(p.SettlementPlots, i, i+1)
	}
	p.SettlementsLeft++

	g.Board.Plots[plotID].Building = &Building{Kind: CityBuilding, PlayerID: p.ID, PlotID: plotID}
	p.CityPlots = append(p.CityPlots, plotID)
	p.CitiesLeft--

	g.CheckVictory()
	return nil
}

// BuyDevelopmentCard draws one card for the acting player. If the deck is
// empty the payment is refunded and no card is granted.
func (g *GameState) BuyDevelopmentCard(playerID int) (DevelopmentCardType, error) {
	p, err := g.requireTurn(playerID, MainPhase)
	if err != nil {
		return 0, err
	}
	if err := p.Pay(g.Bank, DevCardCost); err != nil {
		return 0, err
	}
	card := g.Deck.Draw()
	if card == nil {
		for r, n := range DevCardCost {
			p.Resources[r] += n
			g.Bank.Resources[r] -= n
		}
		return 0, ErrDeckExhausted
	}
	p.DevelopmentCards = append(p.DevelopmentCards, card)
	p.BoughtThisTurn = append(p.BoughtThisTurn, card)
	return card.Type, nil
}

// CardPlay carries the follow-up choices a development card needs.
type CardPlay struct {
	CardIndex int

	Monopolize  Resource    // monopoly: resource to seize
	Invent      [2]Resource // invention: two resources to draw
	RobberHexID int         // knight: robber destination
	VictimID    int         // knight: steal target, 0 for none
}

// PlayDevelopmentCard plays one card from the acting player's hand. Victory
// point cards are always playable, even on the turn they were bought, and do
// not consume the one-card-per-turn allowance; every other card does.
func (g *GameState) PlayDevelopmentCard(playerID int, play CardPlay) error {
	p, err := g.requireTurn(playerID, MainPhase)
	if err != nil {
		return err
	}
	if play.CardIndex < 0 || play.CardIndex >= len(p.DevelopmentCards) {
		return ErrNoSuchTarget
	}
	card := p.DevelopmentCards[play.CardIndex]
	if !slices.Contains(p.PlayableCards(), card) {
		return ErrCardNotPlayable
	}

	// Validate follow-up parameters before any effect lands, so a rejected
	// play leaves no partial mutation behind.
	switch card.Type {
	case KnightCard:
		if g.Board.Hexagon(play.RobberHexID) == nil {
			return ErrNoSuchTarget
		}
		if play.RobberHexID == g.Board.RobberHexID {
			return ErrRobberStays
		}
		if play.VictimID != 0 && (g.Player(play.VictimID) == nil || play.VictimID == p.ID) {
			return ErrNoSuchTarget
		}
	}

	card.Played = true
	if card.Type != VictoryPointCard {
		p.PlayedCardThisTurn = true
	}

	switch card.Type {
	case KnightCard:
		p.KnightsPlayed++
		g.checkLargestArmy()
		hex := g.Board.Hexagon(play.RobberHexID)
		g.Board.MoveRobber(play.RobberHexID)
		if play.VictimID != 0 {
			g.steal(p, g.Player(play.VictimID), hex)
		}
	case MonopolyCard:
		// Seizure moves resources player to player, so no bank cap applies.
		for _, other := range g.Players {
			if other == p {
				continue
			}
			amount := other.Resources[play.Monopolize]
			other.Resources[play.Monopolize] = 0
			p.Resources[play.Monopolize] += amount
		}
	case InventionCard:
		g.Bank.Give(p, play.Invent[0], 1)
		g.Bank.Give(p, play.Invent[1], 1)
	case RoadBuildingCard:
		p.FreeRoads = 2
	case VictoryPointCard:
		p.VictoryCardsPlayed++
		g.CheckVictory()
	}
	return nil
}

// ProposeTrade executes a player-to-player exchange. Rejected when a
// resource kind appears on both sides or either side cannot cover its half;
// a rejected trade moves nothing.
func (g *GameState) ProposeTrade(proposerID, targetID int, offer, request map[Resource]int) error {
	proposer, err := g.requireTurn(proposerID, MainPhase)
	if err != nil {
		return err
	}
	target := g.Player(targetID)
	if target == nil || target == proposer {
		return ErrNoSuchTarget
	}
	for r := range offer {
		if _, dup := request[r]; dup {
			return ErrBadTrade
		}
	}
	if !proposer.CanAfford(offer) || !target.CanAfford(request) {
		return ErrCannotAfford
	}

	for r, n := range offer {
		proposer.Resources[r] -= n
		target.Resources[r] += n
	}
	for r, n := range request {
		target.Resources[r] -= n
		proposer.Resources[r] += n
	}
	return nil
}

// BankTrade exchanges resources with the bank at the best ratio the acting
// player has access to: 4:1 by default, 3:1 with a generic port, 2:1 with a
// matching resource port.
func (g *GameState) BankTrade(playerID int, give, receive Resource) error {
	p, err := g.requireTurn(playerID, MainPhase)
	if err != nil {
		return err
	}
	ratio := p.BestTradeRatio(g.Board, give)
	return g.Bank.Trade(p, give, ratio, receive)
}

// checkLongestRoad re-evaluates the Longest Road award: first player to
// reach 5 keeps it until strictly exceeded.
func (g *GameState) checkLongestRoad() {
	var holder *Player
	holderLength := 0
	for _, p := range g.Players {
		if p.HasLongestRoad {
			holder = p
			holderLength = g.Board.LongestRoad(p.ID)
			break
		}
	}

	for _, p := range g.Players {
		length := g.Board.LongestRoad(p.ID)
		if length < LongestRoadMinimum {
			continue
		}
		if holder == nil {
			p.HasLongestRoad = true
			holder = p
			holderLength = length
		} else if p != holder && length > holderLength {
			holder.HasLongestRoad = false
			p.HasLongestRoad = true
			holder = p
			holderLength = length
		}
	}
	g.CheckVictory()
}

// checkLargestArmy re-evaluates the Largest Army award: first player to
// reach 3 knights keeps it until strictly exceeded.
func (g *GameState) checkLargestArmy() {
	var holder *Player
	holderKnights := 0
	for _, p := range g.Players {
		if p.HasLargestArmy {
			holder = p
			holderKnights = p.KnightsPlayed
			break
		}
	}

	for _, p := range g.Players {
		if p.KnightsPlayed < LargestArmyMinimum {
			continue
		}
		if holder == nil {
			p.HasLargestArmy = true
			holder = p
			holderKnights = p.KnightsPlayed
		} else if p != holder && p.KnightsPlayed > holderKnights {
			holder.HasLargestArmy = false
			p.HasLargestArmy = true
			holder = p
			holderKnights = p.KnightsPlayed
		}
	}
	g.CheckVictory()
}

// CheckVictory ends the game the moment any player reaches the target. It
// never mutates anything while nobody has.
func (g *GameState) CheckVictory() bool {
	if g.Winner != nil {
		return true
	}
	for _, p := range g.Players {
		if p.VictoryPoints() >= VictoryTarget {
			g.Winner = p
			g.Phase = EndPhase
			return true
		}
	}
	return false
}

// EndTurn resets the acting player's turn-scoped flags and passes play on.
func (g *GameState) EndTurn(playerID int) error {
	p, err := g.requireTurn(playerID, MainPhase)
	if err != nil {
		return err
	}
	p.PlayedCardThisTurn = false
	p.BoughtThisTurn = nil

	g.CurrentIndex = (g.CurrentIndex + 1) % len(g.Players)
	g.Turn++
	return nil
}

// Summary renders a human-readable snapshot of the game.
func (g *GameState) Summary() string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", 50) + "\n")
	switch g.Phase {
	case SetupPhase:
		fmt.Fprintf(&sb, "Setup phase (round %d) - Player %d to place\n", g.SetupRound, g.CurrentPlayer().ID)
	case MainPhase:
		fmt.Fprintf(&sb, "Turn %d - Player %d\n", g.Turn, g.CurrentPlayer().ID)
	case EndPhase:
		fmt.Fprintf(&sb, "Game over! Winner: Player %d\n", g.Winner.ID)
	}
	sb.WriteString("\nPlayer status:\n")
	for _, p := range g.Players {
		fmt.Fprintf(&sb, "  Player %d: %d VP, %d resources, %d dev cards",
			p.ID, p.VictoryPoints(), p.TotalResources(), len(p.DevelopmentCards))
		if p.HasLongestRoad {
			sb.WriteString(" [Longest Road]")
		}
		if p.HasLargestArmy {
			sb.WriteString(" [Largest Army]")
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\nDevelopment cards remaining: %d\n", g.Deck.Remaining())
	sb.WriteString(strings.Repeat("=", 50) + "\n")
	return sb.String()
}
