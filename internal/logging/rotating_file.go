package logging

import (
	"errors"
	"os"
	"sync"
)

const defaultMaxMB = 10

// rotatingFile appends to path until the next write would cross maxBytes,
// then starts the file over. With keepBackup the full file is first moved to
// path+".1", replacing any older backup.
type rotatingFile struct {
	mu         sync.Mutex
	path       string
	maxBytes   int64
	keepBackup bool
	f          *os.File
	n          int64
}

func openRotatingFile(path string, maxMB int, keepBackup bool) (*rotatingFile, error) {
	if maxMB <= 0 {
		maxMB = defaultMaxMB
	}
	r := &rotatingFile{path: path, maxBytes: int64(maxMB) << 20, keepBackup: keepBackup}
	if err := r.open(os.O_APPEND); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *rotatingFile) open(mode int) error {
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|mode, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	r.f, r.n = f, info.Size()
	return nil
}

func (r *rotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		if err := r.open(os.O_APPEND); err != nil {
			return 0, err
		}
	}
	if r.n > 0 && r.n+int64(len(p)) > r.maxBytes {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := r.f.Write(p)
	r.n += int64(n)
	return n, err
}

func (r *rotatingFile) rotate() error {
	closeErr := r.f.Close()
	r.f = nil
	if r.keepBackup {
		if err := os.Rename(r.path, r.path+".1"); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if err := r.open(os.O_TRUNC); err != nil {
		return err
	}
	return closeErr
}

func (r *rotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}
