// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/gatepass/internal/ports/secondary"
)

// CodeStore implements secondary.CodeStore over plain UTF-8 text files.
type CodeStore struct {
	dirPerm  os.FileMode
	filePerm os.FileMode
}

// NewCodeStore creates a new filesystem code store.
func NewCodeStore() *CodeStore {
	return &CodeStore{dirPerm: 0755, filePerm: 0644}
}

// ReadLines reads the store at path, creating it empty if it does not exist.
func (s *CodeStore) ReadLines(ctx context.Context, path string) (*secondary.StoreContents, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.create(path); err != nil {
			return nil, err
		}
		return &secondary.StoreContents{Lines: []string{}, Created: true}, nil
	}
	if err != nil {
		return nil, storeError("open", path, err)
	}
	defer f.Close()

	lines, err := readAllLines(bufio.NewReader(f))
	if err != nil {
		return nil, storeError("read", path, err)
	}

	return &secondary.StoreContents{Lines: lines}, nil
}

// readAllLines splits r into lines with no limit on line length, dropping
// "\n" or "\r\n" terminators. A final line without a terminator is kept.
func readAllLines(r *bufio.Reader) ([]string, error) {
	lines := []string{}
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// WriteLines replaces the store at path. The content is written to a
// temporary file in the same directory and renamed over the target, so a
// failed write never leaves a truncated store behind.
func (s *CodeStore) WriteLines(ctx context.Context, path string, lines []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, s.dirPerm); err != nil {
		return storeError("create directory for", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return storeError("write", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(strings.TrimRight(line, "\r\n") + "\n"); err != nil {
			tmp.Close()
			return storeError("write", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return storeError("write", path, err)
	}
	if err := tmp.Chmod(s.filePerm); err != nil {
		tmp.Close()
		return storeError("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		return storeError("write", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return storeError("replace", path, err)
	}
	return nil
}

// create makes an empty store at path, including missing parent directories.
func (s *CodeStore) create(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, s.dirPerm); err != nil {
			return storeError("create directory for", path, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, s.filePerm)
	if err != nil {
		return storeError("create", path, err)
	}
	if err := f.Close(); err != nil {
		return storeError("create", path, err)
	}
	return nil
}

func storeError(op, path string, err error) error {
	return fmt.Errorf("%w: failed to %s %s: %w", secondary.ErrStoreIO, op, path, err)
}

var _ secondary.CodeStore = (*CodeStore)(nil)
