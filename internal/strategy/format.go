// Package strategy encodes and reads the per-hand lookup tables. Every table
// holds one fixed-size record per five-card hand, addressed by the
// lexicographic rank of the hand's ascending deck indices. Masks in a record
// refer to that ascending order; readers carry them back to dealt order.
package strategy

import (
	"encoding/binary"
	"fmt"
	"math"

	"holdwise/internal/cards"
	"holdwise/internal/handeval"
)

type Format int

const (
	// FormatLegacy: mask u8, EV f32.
	FormatLegacy Format = iota
	// FormatStrategy: hand index u32, mask u8, EV f32, 9 × u32 winning counts.
	FormatStrategy
	// FormatAgnostic: 32 masks × 9 × u32 winning counts, no EV.
	FormatAgnostic
)

// NumHands is C(52, 5).
const NumHands = 2598960

const (
	legacySize   = 1 + 4
	strategySize = 4 + 1 + 4 + handeval.NumWinning*4
	agnosticSize = cards.NumMasks * handeval.NumWinning * 4
)

func (f Format) RecordSize() int {
	switch f {
	case FormatLegacy:
		return legacySize
	case FormatStrategy:
		return strategySize
	case FormatAgnostic:
		return agnosticSize
	}
	return 0
}

func (f Format) String() string {
	switch f {
	case FormatLegacy:
		return "legacy"
	case FormatStrategy:
		return "strategy"
	case FormatAgnostic:
		return "agnostic"
	}
	return "unknown"
}

func ParseFormat(s string) (Format, error) {
	switch s {
	case "legacy":
		return FormatLegacy, nil
	case "strategy":
		return FormatStrategy, nil
	case "agnostic":
		return FormatAgnostic, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Record is one solved hand. Mask is relative to ascending deck order and EV
// is per coin under the schedule the table was generated for.
type Record struct {
	HandIndex uint32
	Mask      cards.HoldMask
	EV        float32
	Wins      [handeval.NumWinning]uint32
}

func (r Record) AppendLegacy(dst []byte) []byte {
	dst = append(dst, byte(r.Mask))
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(r.EV))
}

func (r Record) AppendStrategy(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, r.HandIndex)
	dst = append(dst, byte(r.Mask))
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(r.EV))
	for _, n := range r.Wins {
		dst = binary.LittleEndian.AppendUint32(dst, n)
	}
	return dst
}

// AppendAgnostic encodes the winning counts of all 32 holds, masks relative
// to ascending deck order.
func AppendAgnostic(dst []byte, tallies *[cards.NumMasks]handeval.Tally) []byte {
	for m := range tallies {
		for _, n := range tallies[m].Wins() {
			dst = binary.LittleEndian.AppendUint32(dst, n)
		}
	}
	return dst
}

func decodeLegacy(b []byte) Record {
	return Record{
		Mask: cards.HoldMask(b[0]) & cards.HoldAll,
		EV:   math.Float32frombits(binary.LittleEndian.Uint32(b[1:])),
	}
}

func decodeStrategy(b []byte) Record {
	r := Record{
		HandIndex: binary.LittleEndian.Uint32(b),
		Mask:      cards.HoldMask(b[4]) & cards.HoldAll,
		EV:        math.Float32frombits(binary.LittleEndian.Uint32(b[5:])),
	}
	for i := range r.Wins {
		r.Wins[i] = binary.LittleEndian.Uint32(b[9+i*4:])
	}
	return r
}

func decodeAgnostic(b []byte, m cards.HoldMask) handeval.Tally {
	var wins [handeval.NumWinning]int64
	off := int(m) * handeval.NumWinning * 4
	for i := range wins {
		wins[i] = int64(binary.LittleEndian.Uint32(b[off+i*4:]))
	}
	return handeval.FromWins(wins, handeval.Draws(cards.HandSize-m.Count()))
}
