// Package combin ranks sorted k-subsets of an n-element universe in
// lexicographic order and back. Both table formats are addressed through it.
package combin

const (
	MaxN = 52
	MaxK = 5
)

var binom [MaxN + 1][MaxK + 1]int

func init() {
	for n := 0; n <= MaxN; n++ {
		binom[n][0] = 1
		for k := 1; k <= MaxK && k <= n; k++ {
			if k == n {
				binom[n][k] = 1
				continue
			}
			binom[n][k] = binom[n-1][k-1] + binom[n-1][k]
		}
	}
}

// Binomial returns C(n, k) for 0 <= n <= 52 and 0 <= k <= 5, and 0 when
// k > n.
func Binomial(n, k int) int {
	if n < 0 || k < 0 || k > MaxK || n > MaxN || k > n {
		return 0
	}
	return binom[n][k]
}

// Rank returns the lexicographic position of an ascending subset of
// [0, n). The empty subset has rank 0.
func Rank(sorted []uint8, n int) int {
	k := len(sorted)
	r := Binomial(n, k) - 1
	for i, v := range sorted {
		r -= Binomial(n-1-int(v), k-i)
	}
	return r
}

// Unrank is the inverse of Rank.
func Unrank(r, n, k int) []uint8 {
	out := make([]uint8, k)
	UnrankInto(out, r, n)
	return out
}

// UnrankInto fills dst (of length k) with the subset of rank r.
func UnrankInto(dst []uint8, r, n int) {
	k := len(dst)
	next := 0
	for i := 0; i < k; i++ {
		for c := next; ; c++ {
			// Subsets that put c at position i.
			cnt := Binomial(n-1-c, k-1-i)
			if r < cnt {
				dst[i] = uint8(c)
				next = c + 1
				break
			}
			r -= cnt
		}
	}
}
