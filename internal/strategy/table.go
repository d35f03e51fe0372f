package strategy

import (
	"fmt"

	"holdwise/internal/cards"
	"holdwise/internal/combin"
	"holdwise/internal/handeval"
	"holdwise/internal/tablefile"
)

// Table is a read-only per-hand table, safe for concurrent use.
type Table struct {
	format  Format
	data    []byte
	records int
	file    *tablefile.File
}

// Entry is a looked-up record with its mask in dealt order.
type Entry struct {
	Mask    cards.HoldMask
	EV      float64
	Wins    [handeval.NumWinning]uint32
	HasWins bool
}

// Open maps a complete table file. A file that does not hold exactly one
// record per hand is rejected.
func Open(path string, format Format) (*Table, error) {
	size := int64(format.RecordSize()) * NumHands
	if size == 0 {
		return nil, ErrUnknownFormat
	}
	f, err := tablefile.Open(path, size)
	if err != nil {
		return nil, err
	}
	if int64(len(f.Data)) != size {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %q is %d bytes, want %d for %s", ErrBadSize, path, len(f.Data), size, format)
	}
	t := &Table{format: format, data: f.Data, records: NumHands, file: f}
	if format == FormatStrategy {
		// A legacy or agnostic file opened as strategy fails this cheaply.
		if r, _ := t.Record(NumHands - 1); r.HandIndex != NumHands-1 {
			_ = f.Close()
			return nil, fmt.Errorf("%w: %q last record has hand index %d", ErrWrongFormat, path, r.HandIndex)
		}
	}
	return t, nil
}

// FromBytes wraps in-memory records; a prefix of the full table is allowed.
func FromBytes(data []byte, format Format) (*Table, error) {
	size := format.RecordSize()
	if size == 0 {
		return nil, ErrUnknownFormat
	}
	if len(data)%size != 0 || len(data)/size > NumHands {
		return nil, fmt.Errorf("%w: %d bytes of %s records", ErrBadSize, len(data), format)
	}
	return &Table{format: format, data: data, records: len(data) / size}, nil
}

func (t *Table) Close() error {
	if t.file == nil {
		return nil
	}
	return t.file.Close()
}

func (t *Table) Format() Format { return t.format }

func (t *Table) Len() int { return t.records }

func (t *Table) raw(rank int) ([]byte, bool) {
	if rank < 0 || rank >= t.records {
		return nil, false
	}
	size := t.format.RecordSize()
	return t.data[rank*size : (rank+1)*size], true
}

// Record returns the raw record at a hand rank. Agnostic tables carry no
// Record and always report false.
func (t *Table) Record(rank int) (Record, bool) {
	b, ok := t.raw(rank)
	if !ok {
		return Record{}, false
	}
	switch t.format {
	case FormatLegacy:
		r := decodeLegacy(b)
		r.HandIndex = uint32(rank)
		return r, true
	case FormatStrategy:
		r := decodeStrategy(b)
		return r, r.HandIndex == uint32(rank)
	}
	return Record{}, false
}

// Lookup finds the stored optimum for a dealt hand.
func (t *Table) Lookup(h cards.Hand) (Entry, bool) {
	idx, pos := h.Sorted()
	r, ok := t.Record(combin.Rank(idx[:], cards.DeckSize))
	if !ok {
		return Entry{}, false
	}
	return Entry{
		Mask:    r.Mask.Remap(pos),
		EV:      float64(r.EV),
		Wins:    r.Wins,
		HasWins: t.format == FormatStrategy,
	}, true
}

// Tally reads the stored distribution of any hold from an agnostic table.
func (t *Table) Tally(h cards.Hand, m cards.HoldMask) (handeval.Tally, bool) {
	if t.format != FormatAgnostic {
		return handeval.Tally{}, false
	}
	idx, pos := h.Sorted()
	b, ok := t.raw(combin.Rank(idx[:], cards.DeckSize))
	if !ok {
		return handeval.Tally{}, false
	}
	return decodeAgnostic(b, m.Remap(cards.Invert(pos))), true
}

// WinsTally expands an entry's winning counts into a distribution for a hold
// of the given size.
func (e Entry) WinsTally() handeval.Tally {
	var wins [handeval.NumWinning]int64
	for i, n := range e.Wins {
		wins[i] = int64(n)
	}
	return handeval.FromWins(wins, handeval.Draws(cards.HandSize-e.Mask.Count()))
}
