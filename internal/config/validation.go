package config

import "fmt"

// Validate checks every section of the configuration, following the
// teacher's per-section validateX() composition.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if c.Server.QueryBudget <= 0 {
		return fmt.Errorf("query budget must be positive")
	}
	return nil
}

func (c *Config) validateStore() error {
	if c.Store.DataDir == "" {
		return fmt.Errorf("data directory must not be empty (set CEA_DATA_DIR)")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.APICapacity <= 0 || c.Cache.StatsCapacity <= 0 {
		return fmt.Errorf("cache capacities must be positive")
	}
	if c.Cache.APITTL <= 0 || c.Cache.StatsTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	return nil
}
