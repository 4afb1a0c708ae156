package config

// Config is the root configuration structure.
type Config struct {
	Catalog CatalogConfig `toml:"catalog"`
	Server  ServerConfig  `toml:"server"`
	Studio  StudioConfig  `toml:"studio"`
	TUI     TUIConfig     `toml:"tui"`
	Log     LogConfig     `toml:"log"`
}

// CatalogConfig holds settings for the upstream track catalog.
type CatalogConfig struct {
	BaseURL   string `toml:"base_url"`
	Country   string `toml:"country"`
	Limit     int    `toml:"limit"`
	UserAgent string `toml:"user_agent"`
	Timeout   int    `toml:"timeout"` // seconds
}

// ServerConfig holds settings for the HTTP proxy.
type ServerConfig struct {
	Addr              string `toml:"addr"`
	ReadHeaderTimeout int    `toml:"read_header_timeout"` // seconds
	CacheTTL          int    `toml:"cache_ttl"`           // seconds, negative disables
	CacheSize         int    `toml:"cache_size"`
}

// StudioConfig holds playback and export settings.
type StudioConfig struct {
	APIURL       string  `toml:"api_url"`
	Volume       int     `toml:"volume"`
	FrameRate    int     `toml:"frame_rate"`
	PixelRatio   float64 `toml:"pixel_ratio"`
	SettleDelay  int     `toml:"settle_delay"` // milliseconds
	ExportPrefix string  `toml:"export_prefix"`
	ExportDir    string  `toml:"export_dir"`
	ExportMode   string  `toml:"export_mode"` // auto, download, view
	ShareURL     string  `toml:"share_url"`
	ShareTitle   string  `toml:"share_title"`
	Message      string  `toml:"message"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
