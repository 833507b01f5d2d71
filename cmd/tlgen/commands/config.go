package commands

import (
	"sync"

	"github.com/teranos/tlgen/am"
)

var (
	configMu     sync.RWMutex
	activeConfig *am.Config
	// activePath is the explicit --config file, empty for the layered sources
	activePath string
)

// LoadConfig loads the configuration every command works from: path when
// given, otherwise the layered am sources.
func LoadConfig(path string) (*am.Config, error) {
	var (
		cfg *am.Config
		err error
	)
	if path != "" {
		cfg, err = am.LoadFromFile(path)
	} else {
		cfg, err = am.Load()
	}
	if err != nil {
		return nil, err
	}

	setConfig(cfg)
	configMu.Lock()
	activePath = path
	configMu.Unlock()
	return cfg, nil
}

// currentConfig returns a copy of the active configuration so commands
// can apply flag overrides without touching the shared value.
func currentConfig() am.Config {
	configMu.RLock()
	defer configMu.RUnlock()
	if activeConfig == nil {
		cfg, err := am.Defaults()
		if err != nil {
			return am.Config{}
		}
		return *cfg
	}
	return *activeConfig
}

func setConfig(cfg *am.Config) {
	configMu.Lock()
	defer configMu.Unlock()
	activeConfig = cfg
}

// configFile returns the file that watch should follow for reloads
func configFile() string {
	configMu.RLock()
	path := activePath
	configMu.RUnlock()
	if path != "" {
		return path
	}
	return am.FindProjectConfig()
}
