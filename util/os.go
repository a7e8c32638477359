package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// OpenExclFile creates a file in parent that did not exist prior to this call.
//
// The file is named stem+ext if possible, otherwise stem-1+ext, stem-2+ext, and so on. It is opened with flag
// `os.O_WRONLY|os.O_CREATE|os.O_EXCL`, and the caller is responsible for closing it upon a successful return.
func OpenExclFile(parent, stem, ext string, perm os.FileMode) (file *os.File, err error) {
	name := filepath.Join(parent, stem+ext)
	for i := 0; ; {
		switch file, err = os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm); {
		case err == nil:
			return
		case errors.Is(err, os.ErrExist):
			i++
			name = filepath.Join(parent, fmt.Sprintf("%s-%d%s", stem, i, ext))
		default:
			return nil, fmt.Errorf("create file error: %w", err)
		}
	}
}

// DirBase returns the base name of name prefixed with the base name of its parent directory.
//
// Useful for logging where a file is without printing its full path.
func DirBase(name string) string {
	dir := filepath.Dir(name)
	base := filepath.Base(name)
	if dir != "" && dir != "." {
		return filepath.Join(filepath.Base(dir), base)
	}

	abs, err := filepath.Abs(name)
	if err == nil {
		return filepath.Join(filepath.Base(filepath.Dir(abs)), base)
	}

	return base
}
