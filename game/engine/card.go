package engine

import (
	"fmt"
	"math/rand"
)

// Ranks lists card ranks from Ace to King
var Ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

var suitIcons = map[Suit]string{
	Spades:   "♠",
	Hearts:   "♥",
	Clubs:    "♣",
	Diamonds: "♦",
}

// SuitsFor returns the suits used at a difficulty (1, 2 or 4 suits)
func SuitsFor(difficulty int) ([]Suit, error) {
	switch difficulty {
	case 1:
		return []Suit{Spades}, nil
	case 2:
		return []Suit{Spades, Hearts}, nil
	case 4:
		return []Suit{Spades, Hearts, Clubs, Diamonds}, nil
	default:
		return nil, fmt.Errorf("unsupported suit count %d (want 1, 2 or 4)", difficulty)
	}
}

// NewDeck builds the 104-card Spider deck for the given suit count and shuffles it with rng.
// Every suit contributes the same number of complete Ace-to-King sets so that the deck
// always holds exactly TotalRuns runs.
func NewDeck(suits int, rng *rand.Rand) ([]Card, error) {
	suitList, err := SuitsFor(suits)
	if err != nil {
		return nil, err
	}

	setsPerSuit := TotalRuns / len(suitList)
	deck := make([]Card, 0, DeckSize)
	for _, s := range suitList {
		for set := 0; set < setsPerSuit; set++ {
			for i, rank := range Ranks {
				deck = append(deck, Card{
					ID:    fmt.Sprintf("%s-%s-%d", s[:1], rank, set),
					Suit:  s,
					Rank:  rank,
					Value: i + 1,
				})
			}
		}
	}

	if rng != nil {
		rng.Shuffle(len(deck), func(i, j int) {
			deck[i], deck[j] = deck[j], deck[i]
		})
	}

	return deck, nil
}

// String renders the card as rank and suit icon, or "##" when face down
func (c Card) String() string {
	if !c.FaceUp {
		return "##"
	}
	return c.Rank + suitIcons[c.Suit]
}

// Label renders the card regardless of its face-up flag
func (c Card) Label() string {
	return c.Rank + suitIcons[c.Suit]
}
