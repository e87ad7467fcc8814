package env

import (
	"os"
	"path/filepath"
)

const (
	defaultXDGConfigDirname = ".config"
	defaultXDGDataDirname   = ".local/share"
)

var (
	TRASH_CONFIG_PATH string

	TRASH_LOG_PATH string
)

func init() {
	// Follow https://specifications.freedesktop.org/basedir-spec/latest/
	if TRASH_CONFIG_PATH = os.Getenv("TRASH_CONFIG_PATH"); TRASH_CONFIG_PATH == "" {
		configDir := os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				panic(err)
			}
			configDir = filepath.Join(homeDir, defaultXDGConfigDirname)
		}
		TRASH_CONFIG_PATH = filepath.Join(configDir, "trash", "config.yaml")
	}

	if TRASH_LOG_PATH = os.Getenv("TRASH_LOG_PATH"); TRASH_LOG_PATH == "" {
		dataDir := os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				panic(err)
			}
			dataDir = filepath.Join(homeDir, defaultXDGDataDirname)
		}
		TRASH_LOG_PATH = filepath.Join(dataDir, "trash", "debug.log")
	}
}

// DataHome returns the XDG data directory, falling back to ~/.local/share.
func DataHome() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, defaultXDGDataDirname), nil
}
