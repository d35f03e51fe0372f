// Package tablefile opens generated lookup tables read-only. On unix the file
// is memory-mapped and shared by every reader; elsewhere it is read into memory.
package tablefile

import (
	"errors"
	"fmt"
	"os"
)

var (
	ErrTooSmall = errors.New("table_file_too_small")
	ErrEmpty    = errors.New("table_file_empty")
)

// File is an immutable view of a table file. Data must not be written to.
type File struct {
	Path string
	Data []byte

	unmap func() error
}

// Open maps path and checks it holds at least minSize bytes.
func Open(path string, minSize int64) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table %q: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat table %q: %w", path, err)
	}
	size := info.Size()
	if size == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmpty, path)
	}
	if size < minSize {
		return nil, fmt.Errorf("%w: %q is %d bytes, need %d", ErrTooSmall, path, size, minSize)
	}
	data, unmap, err := mapFile(f, size)
	if err != nil {
		return nil, fmt.Errorf("map table %q: %w", path, err)
	}
	return &File{Path: path, Data: data, unmap: unmap}, nil
}

func (f *File) Close() error {
	if f == nil || f.unmap == nil {
		return nil
	}
	err := f.unmap()
	f.unmap = nil
	f.Data = nil
	return err
}
