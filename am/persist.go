package am

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/tlgen/errors"
	"github.com/teranos/tlgen/logger"
)

// Save writes cfg as TOML to path, keeping the previous versions as
// path.back1 (newest) to path.back3. The global watcher, if any, is told
// to ignore the write.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}

	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if cw := GetGlobalWatcher(); cw != nil {
		cw.MarkOwnWrite()
	}

	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// Defaults returns the configuration built from the defaults alone.
func Defaults() (*Config, error) {
	return LoadWithViper(newViperWithoutEnv())
}

// maxBackups is the number of rotated copies kept next to a saved file
const maxBackups = 3

func backupName(path string, n int) string {
	return fmt.Sprintf("%s.back%d", path, n)
}

// createBackup shifts path.back1..back2 one slot up, dropping the oldest,
// and copies the current file to path.back1.
func createBackup(path string) error {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "failed to read %s for backup", path)
	}

	oldest := backupName(path, maxBackups)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old backup", logger.FieldFile, oldest, logger.FieldError, err)
	}
	for n := maxBackups - 1; n >= 1; n-- {
		from, to := backupName(path, n), backupName(path, n+1)
		if _, err := os.Stat(from); err != nil {
			continue
		}
		if err := os.Rename(from, to); err != nil {
			return errors.Wrapf(err, "failed to rotate %s", from)
		}
	}

	if err := os.WriteFile(backupName(path, 1), content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to write backup")
	}
	return nil
}
