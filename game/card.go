package game

import "math/rand"

// DevelopmentCardType is the closed set of development card variants.
type DevelopmentCardType int

const (
	KnightCard DevelopmentCardType = iota
	RoadBuildingCard
	InventionCard
	MonopolyCard
	VictoryPointCard
)

func (t DevelopmentCardType) String() string {
	switch t {
	case KnightCard:
		return "knight"
	case RoadBuildingCard:
		return "road building"
	case InventionCard:
		return "invention"
	case MonopolyCard:
		return "monopoly"
	case VictoryPointCard:
		return "victory point"
	default:
		return "unknown"
	}
}

// DevelopmentCard is a drawn card in a player's hand.
type DevelopmentCard struct {
	Type   DevelopmentCardType
	Played bool
}

// DevelopmentDeck is the face-down draw pile.
type DevelopmentDeck struct {
	cards []*DevelopmentCard
}

// NewDevelopmentDeck builds the 25-card deck (14 knights, 5 victory points,
// 2 each of monopoly, road building and invention) and shuffles it.
func NewDevelopmentDeck(rng *rand.Rand) *DevelopmentDeck {
	counts := []struct {
		cardType DevelopmentCardType
		n        int
	}{
		{MonopolyCard, 2},
		{RoadBuildingCard, 2},
		{InventionCard, 2},
		{VictoryPointCard, 5},
		{KnightCard, 14},
	}
	deck := &DevelopmentDeck{}
	for _, c := range counts {
		for i := 0; i < c.n; i++ {
			deck.cards = append(deck.cards, &DevelopmentCard{Type: c.cardType})
		}
	}
	rng.Shuffle(len(deck.cards), func(i, j int) {
		deck.cards[i], deck.cards[j] = deck.cards[j], deck.cards[i]
	})
	return deck
}

// Draw removes and returns the top card, or nil when the deck is empty.
func (d *DevelopmentDeck) Draw() *DevelopmentCard {
	if len(d.cards) == 0 {
		return nil
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card
}

// Remaining is the number of undrawn cards.
func (d *DevelopmentDeck) Remaining() int {
	return len(d.cards)
}
