package render

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/treedot/pkg/errors"
)

// WriteFile replaces the file at path with data. The data goes to a
// temporary file in the same directory which is renamed over path once it is
// complete, so path never holds a partial graph. The temporary file is
// removed on every failure.
func WriteFile(path string, data []byte) (err error) {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err = tmp.Chmod(0644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "chmod %s", path)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "replace %s", path)
	}
	return nil
}
