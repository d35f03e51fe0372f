// Package aggregate builds and reads the subset aggregate table: for every
// subset of the deck of size 0..5, how many five-card hands containing it land
// in each winning category. Any hold's exact draw distribution follows from
// at most 32 lookups by inclusion–exclusion.
package aggregate

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"holdwise/internal/cards"
	"holdwise/internal/combin"
	"holdwise/internal/handeval"
	"holdwise/internal/tablefile"
)

const (
	Magic      = "JOBAGGR"
	Version    = 1
	MaxSubset  = cards.HandSize
	headerSize = len(Magic) + 4 + 4
	recordSize = handeval.NumWinning * 4
)

// Table is read-only once built or loaded and safe for concurrent use.
type Table struct {
	data    []byte
	offsets [MaxSubset + 1]int
	file    *tablefile.File
}

// layout returns, per subset size, the byte offset of its first record and
// the total file size.
func layout() (offsets [MaxSubset + 1]int, size int) {
	off := headerSize
	for k := 0; k <= MaxSubset; k++ {
		off += 4
		offsets[k] = off
		off += combin.Binomial(cards.DeckSize, k) * recordSize
	}
	return offsets, off
}

// Size is the exact byte length of a serialized table.
func Size() int {
	_, size := layout()
	return size
}

func newTable() *Table {
	offsets, size := layout()
	data := make([]byte, size)
	copy(data, Magic)
	binary.LittleEndian.PutUint32(data[len(Magic):], Version)
	binary.LittleEndian.PutUint32(data[len(Magic)+4:], MaxSubset)
	for k := 0; k <= MaxSubset; k++ {
		binary.LittleEndian.PutUint32(data[offsets[k]-4:], uint32(combin.Binomial(cards.DeckSize, k)))
	}
	return &Table{data: data, offsets: offsets}
}

// Build classifies every five-card hand once and credits its category to all
// 32 of its subsets. progress, when set, is called after each first card.
func Build(progress func(done, total int)) *Table {
	t, _ := BuildContext(context.Background(), progress)
	return t
}

// BuildContext is Build that gives up between first cards once ctx is done.
func BuildContext(ctx context.Context, progress func(done, total int)) (*Table, error) {
	t := newTable()
	var h [cards.HandSize]uint8
	var sub [cards.HandSize]uint8
	for a := 0; a < cards.DeckSize; a++ {
		for b := a + 1; b < cards.DeckSize; b++ {
			for c := b + 1; c < cards.DeckSize; c++ {
				for d := c + 1; d < cards.DeckSize; d++ {
					for e := d + 1; e < cards.DeckSize; e++ {
						h[0], h[1], h[2], h[3], h[4] = uint8(a), uint8(b), uint8(c), uint8(d), uint8(e)
						cat := handeval.ClassifyIndices(&h)
						if !cat.Winning() {
							continue
						}
						for m := 0; m < cards.NumMasks; m++ {
							k := 0
							for j := 0; j < cards.HandSize; j++ {
								if m&(1<<j) != 0 {
									sub[k] = h[j]
									k++
								}
							}
							t.increment(k, combin.Rank(sub[:k], cards.DeckSize), int(cat))
						}
					}
				}
			}
		}
		if progress != nil {
			progress(a+1, cards.DeckSize)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) increment(k, rank, slot int) {
	off := t.offsets[k] + rank*recordSize + slot*4
	binary.LittleEndian.PutUint32(t.data[off:], binary.LittleEndian.Uint32(t.data[off:])+1)
}

// Lookup returns the winning counts for an ascending subset of deck indices.
func (t *Table) Lookup(sorted []uint8) [handeval.NumWinning]uint32 {
	k := len(sorted)
	off := t.offsets[k] + combin.Rank(sorted, cards.DeckSize)*recordSize
	var out [handeval.NumWinning]uint32
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(t.data[off+i*4:])
	}
	return out
}

// Parse validates a serialized table and reads it in place; data is retained.
func Parse(data []byte) (*Table, error) {
	offsets, size := layout()
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	if string(data[:len(Magic)]) != Magic {
		return nil, ErrBadMagic
	}
	if v := binary.LittleEndian.Uint32(data[len(Magic):]); v != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	if k := binary.LittleEndian.Uint32(data[len(Magic)+4:]); k != MaxSubset {
		return nil, fmt.Errorf("%w: max subset size %d", ErrCorrupt, k)
	}
	if len(data) != size {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrTruncated, len(data), size)
	}
	for k := 0; k <= MaxSubset; k++ {
		got := binary.LittleEndian.Uint32(data[offsets[k]-4:])
		if want := combin.Binomial(cards.DeckSize, k); int(got) != want {
			return nil, fmt.Errorf("%w: size %d has %d subsets, want %d", ErrCorrupt, k, got, want)
		}
	}
	return &Table{data: data, offsets: offsets}, nil
}

// Load maps a table file read-only.
func Load(path string) (*Table, error) {
	f, err := tablefile.Open(path, int64(headerSize))
	if err != nil {
		return nil, err
	}
	t, err := Parse(f.Data)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("load aggregate table %q: %w", path, err)
	}
	t.file = f
	return t, nil
}

func (t *Table) Close() error {
	if t.file == nil {
		return nil
	}
	return t.file.Close()
}

func (t *Table) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(t.data)
	return int64(n), err
}

// Save writes the table next to path and renames it into place.
func (t *Table) Save(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create aggregate table: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := t.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write aggregate table: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync aggregate table: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close aggregate table: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename aggregate table: %w", err)
	}
	return nil
}
