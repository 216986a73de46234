package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// stagedFile is a fully written temp file waiting to be renamed over path.
type stagedFile struct {
	path string
	tmp  string
}

// stage writes to a temp file next to path. Nothing visible changes until commit.
func stage(path string, write func(w io.Writer) error) (_ *stagedFile, err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return nil, err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return nil, fmt.Errorf("chmod temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	return &stagedFile{path: path, tmp: tmp.Name()}, nil
}

func (s *stagedFile) commit() error {
	if err := os.Rename(s.tmp, s.path); err != nil {
		os.Remove(s.tmp)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func (s *stagedFile) discard() {
	os.Remove(s.tmp)
}

// writeAtomic writes to a temp file next to path and renames it into place, so
// readers see either the previous file or the complete new one.
func writeAtomic(path string, write func(w io.Writer) error) error {
	s, err := stage(path, write)
	if err != nil {
		return err
	}
	return s.commit()
}
