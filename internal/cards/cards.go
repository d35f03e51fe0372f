package cards

import (
	"fmt"
	"strings"
)

type Suit int

type Rank int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

const NumSuits = 4

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

const (
	NumRanks = 13
	DeckSize = NumSuits * NumRanks
	HandSize = 5
)

var rankNames = map[Rank]string{
	Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7", Eight: "8", Nine: "9",
	Ten: "T", Jack: "J", Queen: "Q", King: "K", Ace: "A",
}

var suitNames = map[Suit]string{Spades: "s", Hearts: "h", Diamonds: "d", Clubs: "c"}

type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	return rankNames[c.Rank] + suitNames[c.Suit]
}

func (c Card) Valid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit >= Spades && c.Suit <= Clubs
}

// Index maps the card onto 0..51, suit-major and rank-minor. Every table in
// this module is addressed through it.
func (c Card) Index() int {
	return int(c.Suit)*NumRanks + int(c.Rank-Two)
}

func FromIndex(i int) Card {
	return Card{Rank: Two + Rank(i%NumRanks), Suit: Suit(i / NumRanks)}
}

// Parse reads cards written as rank then suit: "Ah", "Td", "10c", "Q♠".
func Parse(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	runes := []rune(s)
	suitPart := string(runes[len(runes)-1])
	rankPart := strings.ToUpper(string(runes[:len(runes)-1]))

	var c Card
	switch rankPart {
	case "A":
		c.Rank = Ace
	case "K":
		c.Rank = King
	case "Q":
		c.Rank = Queen
	case "J":
		c.Rank = Jack
	case "T", "10":
		c.Rank = Ten
	default:
		if len(rankPart) != 1 || rankPart[0] < '2' || rankPart[0] > '9' {
			return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
		}
		c.Rank = Rank(rankPart[0] - '0')
	}

	switch strings.ToLower(suitPart) {
	case "s", "♠":
		c.Suit = Spades
	case "h", "♥":
		c.Suit = Hearts
	case "d", "♦":
		c.Suit = Diamonds
	case "c", "♣":
		c.Suit = Clubs
	default:
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	return c, nil
}

func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseList parses a whitespace or comma separated list of cards.
func ParseList(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := Parse(f)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Deck returns the 52 cards in index order.
func Deck() []Card {
	out := make([]Card, 0, DeckSize)
	for s := Spades; s <= Clubs; s++ {
		for r := Two; r <= Ace; r++ {
			out = append(out, Card{Rank: r, Suit: s})
		}
	}
	return out
}
