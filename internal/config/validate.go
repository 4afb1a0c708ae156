package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Catalog.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("catalog: %w", err))
	}
	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	if err := c.Studio.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("studio: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks CatalogConfig for errors.
func (c *CatalogConfig) Validate() error {
	if err := validateURL(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if c.Limit < 0 || c.Limit > 200 {
		return errors.New("limit must be between 1 and 200")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}
	return nil
}

// Validate checks ServerConfig for errors.
func (c *ServerConfig) Validate() error {
	if c.ReadHeaderTimeout < 0 {
		return errors.New("read_header_timeout must be non-negative")
	}
	if c.CacheSize < 0 {
		return errors.New("cache_size must be non-negative")
	}
	return nil
}

// Validate checks StudioConfig for errors.
func (c *StudioConfig) Validate() error {
	if c.Volume < 0 || c.Volume > 100 {
		return errors.New("volume must be between 0 and 100")
	}
	if c.FrameRate < 0 || c.FrameRate > 240 {
		return errors.New("frame_rate must be between 1 and 240")
	}
	if c.PixelRatio < 0 {
		return errors.New("pixel_ratio must be non-negative")
	}
	if c.SettleDelay < 0 {
		return errors.New("settle_delay must be non-negative")
	}
	switch c.ExportMode {
	case "", "auto", "download", "view":
		// valid
	default:
		return fmt.Errorf("invalid export_mode: %s (must be auto, download, or view)", c.ExportMode)
	}
	if err := validateURL(c.APIURL); err != nil {
		return fmt.Errorf("invalid api_url: %w", err)
	}
	if err := validateURL(c.ShareURL); err != nil {
		return fmt.Errorf("invalid share_url: %w", err)
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, dark, or light)", c.Theme)
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return nil
}
