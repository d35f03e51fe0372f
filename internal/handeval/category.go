package handeval

// Category is a Jacks-or-Better outcome. Lower values are stronger hands, so
// the first NumWinning values double as slots in winning-count vectors.
type Category int

const (
	RoyalFlush Category = iota
	StraightFlush
	FourOfAKind
	FullHouse
	Flush
	Straight
	ThreeOfAKind
	TwoPair
	JacksOrBetter
	NoPay
)

const (
	NumCategories = 10
	NumWinning    = 9
)

var categoryNames = [NumCategories]string{
	"royal_flush",
	"straight_flush",
	"four_of_a_kind",
	"full_house",
	"flush",
	"straight",
	"three_of_a_kind",
	"two_pair",
	"jacks_or_better",
	"no_pay",
}

func (c Category) String() string {
	if c < 0 || c >= NumCategories {
		return "unknown"
	}
	return categoryNames[c]
}

func (c Category) Winning() bool { return c >= RoyalFlush && c < NoPay }

// Better reports whether c outranks o.
func (c Category) Better(o Category) bool { return c < o }

func ParseCategory(s string) (Category, bool) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), true
		}
	}
	return 0, false
}

// Categories lists every outcome, strongest first.
func Categories() []Category {
	out := make([]Category, NumCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}
