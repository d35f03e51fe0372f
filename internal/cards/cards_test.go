package cards

import (
	"errors"
	"testing"
)

func TestIndexRoundTrip(t *testing.T) {
	seen := map[int]bool{}
	for _, c := range Deck() {
		i := c.Index()
		if i < 0 || i >= DeckSize {
			t.Fatalf("%v index = %d, out of range", c, i)
		}
		if seen[i] {
			t.Fatalf("duplicate index %d", i)
		}
		seen[i] = true
		if got := FromIndex(i); got != c {
			t.Fatalf("FromIndex(%d) = %v, want %v", i, got, c)
		}
	}
	if (Card{Rank: Two, Suit: Spades}).Index() != 0 || (Card{Rank: Ace, Suit: Clubs}).Index() != 51 {
		t.Fatal("deck index must be suit-major, rank-minor")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Card
	}{
		{"Ah", Card{Ace, Hearts}},
		{"td", Card{Ten, Diamonds}},
		{"10c", Card{Ten, Clubs}},
		{"Q♠", Card{Queen, Spades}},
		{"2♦", Card{Two, Diamonds}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "A", "1h", "Ax", "11s"} {
		if _, err := Parse(bad); !errors.Is(err, ErrInvalidCard) {
			t.Fatalf("Parse(%q) error = %v, want ErrInvalidCard", bad, err)
		}
	}
}

func TestNewHandValidation(t *testing.T) {
	cs, _ := ParseList("Ah Kh Qh Jh")
	if _, err := NewHand(cs); !errors.Is(err, ErrInvalidHandSize) {
		t.Fatalf("4 cards error = %v, want ErrInvalidHandSize", err)
	}
	cs, _ = ParseList("Ah Kh Qh Jh Ah")
	if _, err := NewHand(cs); !errors.Is(err, ErrDuplicateCard) {
		t.Fatalf("duplicate error = %v, want ErrDuplicateCard", err)
	}
}

func TestHoldMaskRoundTrip(t *testing.T) {
	for m := HoldMask(0); m < NumMasks; m++ {
		back, err := MaskFromHold(m.Bools())
		if err != nil {
			t.Fatalf("MaskFromHold error = %v", err)
		}
		if back != m {
			t.Fatalf("round trip %05b -> %05b", m, back)
		}
	}
	if _, err := MaskFromHold([]bool{true, false}); !errors.Is(err, ErrInvalidHoldCombination) {
		t.Fatalf("short hold error = %v", err)
	}
}

func TestSortedAndRemap(t *testing.T) {
	h := MustParseHand("Kh 2s Ac 9d 3s")
	idx, pos := h.Sorted()
	for i := 1; i < HandSize; i++ {
		if idx[i] <= idx[i-1] {
			t.Fatalf("sorted indices not ascending: %v", idx)
		}
	}
	for j := range idx {
		if h[pos[j]].Index() != int(idx[j]) {
			t.Fatalf("pos[%d] = %d does not point at index %d", j, pos[j], idx[j])
		}
	}
	// hold Kh and Ac in dealt order, go to sorted order and back.
	dealt := HoldMask(1<<0 | 1<<2)
	sorted := dealt.Remap(Invert(pos))
	if sorted.Count() != 2 {
		t.Fatalf("sorted mask %05b lost cards", sorted)
	}
	for j := 0; j < HandSize; j++ {
		if sorted.Holds(j) != dealt.Holds(int(pos[j])) {
			t.Fatalf("sorted bit %d disagrees with dealt position %d", j, pos[j])
		}
	}
	if back := sorted.Remap(pos); back != dealt {
		t.Fatalf("Remap back = %05b, want %05b", back, dealt)
	}
}
