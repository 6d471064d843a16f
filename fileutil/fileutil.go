package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// FileExists returns true if a file or directory with the given path exists.
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// IsDir returns true if a directory with the given path exists.
func IsDir(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && info.IsDir()
}

// SplitExt splits a filename into base and extension. The extension
// includes the leading dot. Leading dots do not start an extension, so
// ".hidden" has no extension.
func SplitExt(filename string) (string, string) {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	if strings.Trim(base, ".") == "" {
		return filename, ""
	}
	return base, ext
}

// UniqueName returns a filename that does not name an existing file in dir.
// If filename is free it is returned unchanged. Otherwise a counter is
// inserted between base and extension: "name (1).ext", "name (2).ext", and
// so on, until a free name is found. It returns the full path and the
// chosen filename.
func UniqueName(dir string, filename string) (string, string) {
	base, ext := SplitExt(filename)

	name := filename
	for i := 1; FileExists(filepath.Join(dir, name)); i++ {
		name = fmt.Sprintf("%s (%d)%s", base, i, ext)
	}

	if name != filename {
		log.Debugf("renamed to avoid collision: %s --> %s", filename, name)
	}

	return filepath.Join(dir, name), name
}

// WriteNew creates a file at the given path and writes b to it. It fails if
// the file already exists. On a failed write it removes the partial file.
func WriteNew(path string, b []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	_, err = f.Write(b)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}

	return nil
}
