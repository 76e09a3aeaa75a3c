// Package fileutil writes files that readers never observe half-written.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFileVerified streams the output of write into a temporary file next to
// dst, checks the bytes on disk against what was written (size and SHA256)
// and renames the file into place. On any failure dst is left untouched and
// the temporary file is removed.
func WriteFileVerified(dst string, mode os.FileMode, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	hasher := sha256.New()
	counter := &countingWriter{}
	if err = write(io.MultiWriter(tmp, hasher, counter)); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err = verify(tmpPath, counter.n, hasher.Sum(nil)); err != nil {
		return err
	}
	if err = os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

func verify(path string, size int64, sum []byte) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	hasher := sha256.New()
	read, err := io.Copy(hasher, in)
	if err != nil {
		return err
	}
	if read != size {
		return fmt.Errorf("write size mismatch: wrote %d bytes, found %d bytes", size, read)
	}
	if !bytes.Equal(hasher.Sum(nil), sum) {
		return fmt.Errorf("write hash mismatch: file corrupted during write")
	}
	return nil
}

type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}
