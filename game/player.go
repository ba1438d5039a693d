package game

import "golang.org/x/exp/slices"

// Player holds one seat's mutable state: resources, pieces, cards, awards.
type Player struct {
	ID int

	Resources map[Resource]int

	DevelopmentCards   []*DevelopmentCard
	BoughtThisTurn     []*DevelopmentCard
	PlayedCardThisTurn bool

	VictoryCardsPlayed int
	KnightsPlayed      int
	HasLargestArmy     bool
	HasLongestRoad     bool

	SettlementsLeft int
	CitiesLeft      int
	RoadsLeft       int

	SettlementPlots []int // plot IDs, in placement order
	CityPlots       []int
	RoadPaths       []int // path IDs, in placement order

	// FreeRoads is the number of cost-free road placements left from a
	// Road Building card.
	FreeRoads int
}

// NewPlayer returns a player with empty hands and full piece allotments.
func NewPlayer(id int) *Player {
	p := &Player{
		ID:              id,
		Resources:       make(map[Resource]int),
		SettlementsLeft: InitialSettlements,
		CitiesLeft:      InitialCities,
		RoadsLeft:       InitialRoads,
	}
	for _, r := range AllResources {
		p.Resources[r] = 0
	}
	return p
}

// TotalResources is the player's hand size.
func (p *Player) TotalResources() int {
	total := 0
	for _, n := range p.Resources {
		total += n
	}
	return total
}

// MustDiscard reports whether a rolled 7 forces this player to discard.
func (p *Player) MustDiscard() bool {
	return p.TotalResources() > DiscardThreshold
}

// DiscardCount is how many resources a forced discard removes.
func (p *Player) DiscardCount() int {
	return p.TotalResources() / 2
}

// Discard removes the given resources, all-or-nothing.
func (p *Player) Discard(toDiscard map[Resource]int) error {
	for r, n := range toDiscard {
		if p.Resources[r] < n {
			return ErrCannotAfford
		}
	}
	for r, n := range toDiscard {
		p.Resources[r] -= n
	}
	return nil
}

// CanAfford reports whether the player holds every resource in cost.
func (p *Player) CanAfford(cost map[Resource]int) bool {
	for r, n := range cost {
		if p.Resources[r] < n {
			return false
		}
	}
	return true
}

// Pay moves cost from the player to the bank, all-or-nothing.
func (p *Player) Pay(bank *Bank, cost map[Resource]int) error {
	if !p.CanAfford(cost) {
		return ErrCannotAfford
	}
	for r, n := range cost {
		p.Resources[r] -= n
		bank.Resources[r] += n
	}
	return nil
}

// VictoryPoints computes the player's current total: buildings, played
// victory cards, and award bonuses.
func (p *Player) VictoryPoints() int {
	points := len(p.SettlementPlots) + 2*len(p.CityPlots)
	points += p.VictoryCardsPlayed
	if p.HasLargestArmy {
		points += AwardPoints
	}
	if p.HasLongestRoad {
		points += AwardPoints
	}
	return points
}

// AccessiblePorts lists the ports the player reaches through an own
// settlement or city.
func (p *Player) AccessiblePorts(b *Board) []*Port {
	var ports []*Port
	plots := append(slices.Clone(p.SettlementPlots), p.CityPlots...)
	for _, plotID := range plots {
		portID := b.Plots[plotID].PortID
		if portID == 0 {
			continue
		}
		port := b.Port(portID)
		if !slices.Contains(ports, port) {
			ports = append(ports, port)
		}
	}
	return ports
}

// BestTradeRatio is the lowest give-count the player can trade the resource
// at, considering every accessible port. Defaults to the 4:1 bank rate.
func (p *Player) BestTradeRatio(b *Board, r Resource) int {
	best := DefaultBankRatio
	for _, port := range p.AccessiblePorts(b) {
		if give, ok := port.Type.TradeRatio(r); ok && give < best {
			best = give
		}
	}
	return best
}

// PlayableCards lists the development cards the player may play right now.
// A card sits out the turn it was bought and at most one non-victory card
// may be played per turn; victory cards are exempt from both limits.
func (p *Player) PlayableCards() []*DevelopmentCard {
	var playable []*DevelopmentCard
	for _, card := range p.DevelopmentCards {
		if card.Played {
			continue
		}
		if card.Type == VictoryPointCard {
			playable = append(playable, card)
			continue
		}
		if p.PlayedCardThisTurn {
			continue
		}
		if slices.Contains(p.BoughtThisTurn, card) {
			continue
		}
		playable = append(playable, card)
	}
	return playable
}

// Bank holds the shared resource supply.
type Bank struct {
	Resources map[Resource]int
}

// NewBank returns a bank stocked with 19 of each resource.
func NewBank() *Bank {
	bank := &Bank{Resources: make(map[Resource]int)}
	for _, r := range AllResources {
		bank.Resources[r] = BankStock
	}
	return bank
}

// Has reports whether the bank holds at least amount of the resource.
func (bk *Bank) Has(r Resource, amount int) bool {
	return bk.Resources[r] >= amount
}

// Give credits the player with up to amount of the resource, capped by the
// bank's stock, and returns how much was actually granted.
func (bk *Bank) Give(p *Player, r Resource, amount int) int {
	granted := min(amount, bk.Resources[r])
	if granted > 0 {
		p.Resources[r] += granted
		bk.Resources[r] -= granted
	}
	return granted
}

// Trade exchanges giveAmount of give for one unit of receive, all-or-nothing.
func (bk *Bank) Trade(p *Player, give Resource, giveAmount int, receive Resource) error {
	if p.Resources[give] < giveAmount {
		return ErrCannotAfford
	}
	if !bk.Has(receive, 1) {
		return ErrBankShort
	}
	p.Resources[give] -= giveAmount
	bk.Resources[give] += giveAmount
	p.Resources[receive]++
	bk.Resources[receive]--
	return nil
}
