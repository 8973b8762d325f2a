package config

import (
	"fmt"
	"regexp"
	"slices"
)

var lmfVersionPattern = regexp.MustCompile(`^\d+\.\d+$`)

var validLogLevels = []string{"debug", "info", "warn", "error"}
var validLogFormats = []string{"json", "text"}

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if c.Store.BusyTimeout < 0 {
		return fmt.Errorf("store.busy_timeout must be >= 0 (got %d)", c.Store.BusyTimeout)
	}

	if !lmfVersionPattern.MatchString(c.LMF.DefaultExportVersion) {
		return fmt.Errorf("lmf.default_export_version must look like \"major.minor\" (got %q)", c.LMF.DefaultExportVersion)
	}

	if !slices.Contains(validLogLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of %v (got %q)", validLogLevels, c.Log.Level)
	}
	if !slices.Contains(validLogFormats, c.Log.Format) {
		return fmt.Errorf("log.format must be one of %v (got %q)", validLogFormats, c.Log.Format)
	}

	return nil
}
