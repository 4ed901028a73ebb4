package codec

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/couchcryptid/disaster-report-registry/internal/domain"
)

// LoadFile decodes the report file at path.
//
// A missing file is the normal first-run state and yields no reports and no
// error. A malformed line yields the reports before it and a *LineError.
// Any other open or read failure is a *domain.PersistenceError.
func LoadFile(path string) ([]domain.Report, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load", Path: path, Err: err}
	}
	defer f.Close()

	reports, err := Decode(f)
	if err != nil {
		var lineErr *LineError
		if errors.As(err, &lineErr) {
			return reports, err
		}
		return reports, &domain.PersistenceError{Op: "load", Path: path, Err: err}
	}
	return reports, nil
}

// SaveFile replaces the file at path with the encoded reports. The data is
// written to a temporary file in the same directory and renamed into place,
// so a failed save leaves the previous file intact.
func SaveFile(path string, reports []domain.Report) (err error) {
	fail := func(err error) error {
		return &domain.PersistenceError{Op: "save", Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fail(err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name()) //nolint:errcheck // best-effort cleanup
		}
	}()

	if err := Encode(tmp, reports); err != nil {
		tmp.Close() //nolint:errcheck // write error takes precedence
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fail(err)
	}
	return nil
}
