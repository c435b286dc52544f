// Package config handles tool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Tool     ToolConfig     `yaml:"tool"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// ToolConfig holds socket picking and rendering settings.
type ToolConfig struct {
	PickRadius      float32    `yaml:"pick_radius"`
	SocketRadius    float32    `yaml:"socket_radius"`
	HighlightRadius float32    `yaml:"highlight_radius"`
	SocketColor     [4]float32 `yaml:"socket_color"`
	HighlightColor  [4]float32 `yaml:"highlight_color"`
	Seed            int64      `yaml:"seed"` // 0 = time-seeded
}

// CatalogConfig holds the module catalog location.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Tool: ToolConfig{
			PickRadius:      0.15,
			SocketRadius:    0.15,
			HighlightRadius: 0.2,
			SocketColor:     [4]float32{0.0, 0.6, 1.0, 0.1},
			HighlightColor:  [4]float32{0.5, 0.8, 1.0, 0.3},
			Seed:            0,
		},
		Catalog: CatalogConfig{
			Path: "catalog.yaml",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
