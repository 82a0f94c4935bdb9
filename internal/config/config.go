// Package config handles editor configuration loading and management.
package config

// Config holds all editor settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Viewport ViewportConfig `yaml:"viewport"`
	Flow     FlowConfig     `yaml:"flow"`
	Projects ProjectsConfig `yaml:"projects"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// ViewportConfig holds 3D viewport settings.
type ViewportConfig struct {
	ShowGrid    bool    `yaml:"show_grid"`
	ShowAxes    bool    `yaml:"show_axes"`
	GridSize    int     `yaml:"grid_size"`
	GridSpacing float32 `yaml:"grid_spacing"`
	MinZoom     float32 `yaml:"min_zoom"`
	MaxZoom     float32 `yaml:"max_zoom"`
	ZoomSpeed   float32 `yaml:"zoom_speed"`
}

// FlowConfig holds the default free-stream flow conditions used by the
// force calculator.
type FlowConfig struct {
	AirDensity      float32 `yaml:"air_density"`      // kg/m^3
	Temperature     float32 `yaml:"temperature"`      // Celsius
	Velocity        float32 `yaml:"velocity"`         // m/s
	AngleOfAttack   float32 `yaml:"angle_of_attack"`  // degrees
	TurbulenceModel string  `yaml:"turbulence_model"` // informational only
}

// ProjectsConfig holds project shell settings.
type ProjectsConfig struct {
	Dir string `yaml:"dir"` // Root directory scanned for projects
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
			Height:     800,
			Fullscreen: false,
			VSync:      true,
		},
		Viewport: ViewportConfig{
			ShowGrid:    true,
			ShowAxes:    true,
			GridSize:    10,
			GridSpacing: 1.0,
			MinZoom:     0.1,
			MaxZoom:     100.0,
			ZoomSpeed:   0.1,
		},
		Flow: FlowConfig{
			AirDensity:      1.225,
			Temperature:     20,
			Velocity:        0,
			AngleOfAttack:   0,
			TurbulenceModel: "None",
		},
		Projects: ProjectsConfig{
			Dir: "", // Resolved to <home>/AeroProjects when empty
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
