// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"sync"
)

var (
	globalMu sync.Mutex
	// globalConfig caches the result of the first successful Load.
	globalConfig *Config
	// configFilePathOverride forces Load to read a specific file,
	// set from the --config flag.
	configFilePathOverride string
)

// Load returns the global configuration, loading and caching it on first
// use. On failure it returns the built-in defaults alongside the error so
// callers always get a usable config.
func Load() (*Config, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: configFilePathOverride,
	})
	if err != nil {
		return DefaultConfig(), err
	}

	globalConfig = cfg
	return cfg, nil
}

// SetConfigFilePathOverride forces the global Load to read a specific
// config file and clears any cached configuration.
func SetConfigFilePathOverride(path string) {
	globalMu.Lock()
	defer globalMu.Unlock()
	configFilePathOverride = path
	globalConfig = nil
}

// ResetGlobal clears the cached configuration and the file override.
// Call from test cleanup to restore defaults.
func ResetGlobal() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
	configFilePathOverride = ""
}
