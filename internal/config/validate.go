package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMusicBrainz(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	return c.validateTrim()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.Catalog) == "" {
		return fmt.Errorf("paths.catalog is required")
	}
	return nil
}

func (c *Config) validateMusicBrainz() error {
	if c.MusicBrainz.UserAgent == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/recut/config.toml"
		}
		return fmt.Errorf("musicbrainz.user_agent is required (MusicBrainz rejects anonymous clients); edit %s", defaultPath)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if len(c.Catalog.Sources) == 0 {
		return fmt.Errorf("catalog.sources must not be empty")
	}
	seen := make(map[string]struct{}, len(c.Catalog.Sources))
	for _, source := range c.Catalog.Sources {
		name := strings.TrimSpace(source)
		if name == "" {
			return fmt.Errorf("catalog.sources contains an empty name")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("catalog.sources contains duplicate %q", name)
		}
		seen[name] = struct{}{}
	}
	if _, ok := seen[c.Catalog.DefaultSource]; !ok {
		return fmt.Errorf("catalog.default_source %q is not in catalog.sources", c.Catalog.DefaultSource)
	}
	return nil
}

func (c *Config) validateTrim() error {
	if c.Trim.Workers < 0 {
		return fmt.Errorf("trim.workers must not be negative")
	}
	if strings.TrimSpace(c.Trim.UncheckedPrefix) == "" {
		return fmt.Errorf("trim.unchecked_prefix must not be blank")
	}
	return nil
}
