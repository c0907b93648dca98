package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// RemoveIfExists deletes path, treating an absent file as success. It reports
// whether something was removed.
func RemoveIfExists(path string) (bool, error) {
	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ReplaceFile removes any existing file at path and writes data with mode.
// The mode is applied explicitly so the process umask cannot strip bits.
func ReplaceFile(path string, data []byte, mode os.FileMode) error {
	if _, err := RemoveIfExists(path); err != nil {
		return fmt.Errorf("remove existing %s: %w", path, err)
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if err := out.Chmod(mode); err != nil {
		return err
	}
	return out.Close()
}
