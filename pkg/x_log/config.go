package x_log

//
// ---------- Config ----------

// Config controls where and how the root logger writes.
type Config struct {
	Level      string `json:"level" mapstructure:"level"`             // debug, info, warn, error
	Format     string `json:"format" mapstructure:"format"`           // auto, console, json
	Style      string `json:"style" mapstructure:"style"`             // dark, light
	ToConsole  bool   `json:"to_console" mapstructure:"to_console"`   // write to stderr
	ToFile     bool   `json:"to_file" mapstructure:"to_file"`         // write to LogFile
	LogFile    string `json:"log_file" mapstructure:"log_file"`       // rotated file path
	MaxSize    int    `json:"max_size" mapstructure:"max_size"`       // MB
	MaxBackups int    `json:"max_backups" mapstructure:"max_backups"` // rotated files
	MaxAge     int    `json:"max_age" mapstructure:"max_age"`         // days
	Compress   bool   `json:"compress" mapstructure:"compress"`
}

//
// ---------- Defaults ----------

var defaultConfig = Config{
	Level:      "info",
	Format:     "auto",
	Style:      "dark",
	ToConsole:  true,
	ToFile:     false,
	LogFile:    "logs/htree.log",
	MaxSize:    10,
	MaxBackups: 5,
	MaxAge:     7,
	Compress:   true,
}

// DefaultConfig returns a copy of the default logger configuration.
func DefaultConfig() Config {
	return defaultConfig
}

// applyDefaults fills missing config values from defaultConfig
func applyDefaults(cfg *Config) {
	if cfg.Level == "" {
		cfg.Level = defaultConfig.Level
	}
	if cfg.Format == "" {
		cfg.Format = defaultConfig.Format
	}
	if cfg.Style == "" {
		cfg.Style = defaultConfig.Style
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultConfig.LogFile
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = defaultConfig.MaxSize
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = defaultConfig.MaxBackups
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = defaultConfig.MaxAge
	}
}
