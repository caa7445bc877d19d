package journal

import (
	"errors"
	"fmt"
)

const defaultRecentCallsLimit = 50

// Config is the configuration of the call journal
type Config struct {
	// Enabled turns the journal on
	Enabled bool `mapstructure:"Enabled"`
	// DBPath is the path of the sqlite database
	DBPath string `mapstructure:"DBPath"`
	// RecentCallsLimit is the number of calls returned when no limit is requested
	RecentCallsLimit int `mapstructure:"RecentCallsLimit"`
	// RequireStorageContentCompatibility refuses to start when the database was
	// written with a different descriptor topology. Otherwise only a warning is logged.
	RequireStorageContentCompatibility bool `mapstructure:"RequireStorageContentCompatibility"`
}

func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.DBPath == "" {
		return errors.New("journal DBPath is required when the journal is enabled")
	}
	if c.RecentCallsLimit < 0 {
		return fmt.Errorf("journal RecentCallsLimit must not be negative, got %d", c.RecentCallsLimit)
	}
	return nil
}
