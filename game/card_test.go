package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeckComposition(t *testing.T) {
	deck := NewDevelopmentDeck(rand.New(rand.NewSource(1)))
	require.Equal(t, 25, deck.Remaining())

	counts := map[DevelopmentCardType]int{}
	for card := deck.Draw(); card != nil; card = deck.Draw() {
		require.False(t, card.Played, "cards leave the deck unplayed")
		counts[card.Type]++
	}

	require.Equal(t, map[DevelopmentCardType]int{
		KnightCard:       14,
		VictoryPointCard: 5,
		RoadBuildingCard: 2,
		InventionCard:    2,
		MonopolyCard:     2,
	}, counts)
	require.Zero(t, deck.Remaining())
	require.Nil(t, deck.Draw(), "an exhausted deck keeps returning nil")
}

func TestDeckShuffleIsSeeded(t *testing.T) {
	drawAll := func(seed int64) []DevelopmentCardType {
		deck := NewDevelopmentDeck(rand.New(rand.NewSource(seed)))
		var order []DevelopmentCardType
		for card := deck.Draw(); card != nil; card = deck.Draw() {
			order = append(order, card.Type)
		}
		return order
	}

	require.Equal(t, drawAll(42), drawAll(42), "same seed, same order")
	require.NotEqual(t, drawAll(1), drawAll(2), "different seeds shuffle differently")
}
