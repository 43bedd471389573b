package pipeline

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/logle/pkg/errors"
)

// writeFile replaces path with data. The data goes to a temporary file in
// the same directory first, so a failed write leaves any existing file
// untouched and no partial file behind.
func writeFile(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeExternal, err, "Error opening output file: %s", path)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInternal, err, "Error writing output file: %s", path)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeExternal, err, "Error closing output file: %s", path)
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeExternal, err, "Error opening output file: %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeExternal, err, "Error renaming output file: %s", path)
	}
	return nil
}
