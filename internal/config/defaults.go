package config

// DefaultUserAgent is sent to the catalog; it rejects requests without a browser-like agent.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:   "https://itunes.apple.com",
			Country:   "KR",
			Limit:     200,
			UserAgent: DefaultUserAgent,
			Timeout:   15,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 15,
			CacheTTL:          300,
			CacheSize:         256,
		},
		Studio: StudioConfig{
			APIURL:       "http://localhost:8080",
			Volume:       50,
			FrameRate:    60,
			PixelRatio:   2,
			SettleDelay:  100,
			ExportPrefix: "chorus",
			ExportDir:    ".",
			ExportMode:   "auto",
			ShareURL:     "http://localhost:8080",
			ShareTitle:   "CHORUS",
		},
		TUI: TUIConfig{
			Theme: "auto",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Catalog
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = d.Catalog.BaseURL
	}
	if c.Catalog.Country == "" {
		c.Catalog.Country = d.Catalog.Country
	}
	if c.Catalog.Limit == 0 {
		c.Catalog.Limit = d.Catalog.Limit
	}
	if c.Catalog.UserAgent == "" {
		c.Catalog.UserAgent = d.Catalog.UserAgent
	}
	if c.Catalog.Timeout == 0 {
		c.Catalog.Timeout = d.Catalog.Timeout
	}

	// Server
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = d.Server.ReadHeaderTimeout
	}
	if c.Server.CacheTTL == 0 {
		c.Server.CacheTTL = d.Server.CacheTTL
	}
	if c.Server.CacheSize == 0 {
		c.Server.CacheSize = d.Server.CacheSize
	}

	// Studio
	if c.Studio.APIURL == "" {
		c.Studio.APIURL = d.Studio.APIURL
	}
	if c.Studio.Volume == 0 {
		c.Studio.Volume = d.Studio.Volume
	}
	if c.Studio.FrameRate == 0 {
		c.Studio.FrameRate = d.Studio.FrameRate
	}
	if c.Studio.PixelRatio == 0 {
		c.Studio.PixelRatio = d.Studio.PixelRatio
	}
	if c.Studio.SettleDelay == 0 {
		c.Studio.SettleDelay = d.Studio.SettleDelay
	}
	if c.Studio.ExportPrefix == "" {
		c.Studio.ExportPrefix = d.Studio.ExportPrefix
	}
	if c.Studio.ExportDir == "" {
		c.Studio.ExportDir = d.Studio.ExportDir
	}
	if c.Studio.ExportMode == "" {
		c.Studio.ExportMode = d.Studio.ExportMode
	}
	if c.Studio.ShareURL == "" {
		c.Studio.ShareURL = d.Studio.ShareURL
	}
	if c.Studio.ShareTitle == "" {
		c.Studio.ShareTitle = d.Studio.ShareTitle
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
