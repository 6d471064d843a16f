// Package settings persists the user's pixora preferences as a small JSON
// file. A missing or malformed file yields the defaults; it is never fatal.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	log "github.com/sirupsen/logrus"
)

const relPath = "pixora/config.json"

// Settings are the preferences remembered between runs.
type Settings struct {
	FolderPath     string `json:"folder_path"`     // Last used download folder.
	AutoDownload   bool   `json:"auto_download"`   // Download URLs as soon as they are pasted.
	CustomFilename string `json:"custom_filename"` // Last custom filename; cleared after a successful download.
}

// Defaults returns the settings used when nothing has been saved.
func Defaults() *Settings {
	return &Settings{
		FolderPath: xdg.UserDirs.Download,
	}
}

// DefaultPath returns the location of the settings file under the user's
// XDG config directory.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, relPath)
}

// Load reads settings from the given path. Fields absent from the file keep
// their default values. It returns the defaults if the file is missing or
// cannot be parsed.
func Load(path string) *Settings {
	s := Defaults()

	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.WithError(err).Warnf("failed to read settings: path=%s", path)
		}
		return s
	}

	err = json.Unmarshal(b, s)
	if err != nil {
		log.WithError(err).Warnf("ignoring malformed settings: path=%s", path)
		return Defaults()
	}

	if s.FolderPath == "" {
		s.FolderPath = xdg.UserDirs.Download
	}

	return s
}

// Save writes the settings to the given path, creating its parent directory
// if necessary.
func (s *Settings) Save(path string) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	err = os.WriteFile(path, b, 0644)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Debugf("saved settings: path=%s", path)
	return nil
}
