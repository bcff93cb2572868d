package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// WriteBytesAtomic writes bs to file using atomic write (temp file + rename).
// The temp file lives next to file and is removed on error, so readers
// never observe a partially written file.
func WriteBytesAtomic(file string, bs []byte, perm os.FileMode) error {
	dir, name := filepath.Split(file)
	if dir == "" {
		dir = "."
	}

	tempFile, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tempFileName := tempFile.Name()

	defer func() {
		if _, err := os.Stat(tempFileName); err == nil {
			if err := os.Remove(tempFileName); err != nil {
				log.Warnf("failed to remove temp file %s: %v", tempFileName, err)
			}
		}
	}()

	// a single write keeps the content all-or-nothing
	if _, err := tempFile.Write(bs); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tempFileName, err)
	}

	if err := os.Chmod(tempFileName, perm); err != nil {
		return fmt.Errorf("set temp file permissions: %w", err)
	}

	if err := os.Rename(tempFileName, file); err != nil {
		return fmt.Errorf("move %s to %s: %w", tempFileName, file, err)
	}
	return nil
}

// CopyFileContents copies contents of the given src file to the dst file
func CopyFileContents(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() {
		if cErr := in.Close(); cErr != nil {
			log.Warnf("failed to close source file: %v", cErr)
		}
	}()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer func() {
		cErr := out.Close()
		if err == nil && cErr != nil {
			err = fmt.Errorf("close destination: %w", cErr)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return out.Sync()
}
