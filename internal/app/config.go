// Package app wires the emulator core (internal/system) to a host
// presentation layer: window, audio, input and persistent configuration.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the host application's configuration. Only TVSystem and
// TestMode bind to the emulation core itself (spec.md §6's
// "Configuration options"); everything else is a host-layer concern
// the core never inspects.
type Config struct {
	Window    WindowConfig    `json:"window"`
	Video     VideoConfig     `json:"video"`
	Audio     AudioConfig     `json:"audio"`
	Input     InputConfig     `json:"input"`
	Emulation EmulationConfig `json:"emulation"`
	Debug     DebugConfig     `json:"debug"`
	Paths     PathsConfig     `json:"paths"`

	configPath string
	loaded     bool
}

// WindowConfig contains window-related configuration.
type WindowConfig struct {
	Width      int  `json:"width"`
	Height     int  `json:"height"`
	Fullscreen bool `json:"fullscreen"`
	Resizable  bool `json:"resizable"`
	Scale      int  `json:"scale"` // NES resolution multiplier
}

// VideoConfig contains video rendering configuration.
type VideoConfig struct {
	VSync       bool    `json:"vsync"`
	AspectRatio string  `json:"aspect_ratio"` // "4:3", "16:9", "original"
	Filter      string  `json:"filter"`       // "nearest", "linear"
	Backend     string  `json:"backend"`      // "ebitengine", "headless", "terminal"
	Brightness  float32 `json:"brightness"`
	Contrast    float32 `json:"contrast"`
	Saturation  float32 `json:"saturation"`
}

// AudioConfig contains audio configuration.
type AudioConfig struct {
	Enabled    bool    `json:"enabled"`
	SampleRate int     `json:"sample_rate"`
	BufferSize int     `json:"buffer_size"`
	Volume     float32 `json:"volume"`
}

// InputConfig contains keyboard binding configuration.
type InputConfig struct {
	Player1Keys KeyMapping `json:"player1_keys"`
	Player2Keys KeyMapping `json:"player2_keys"`
}

// KeyMapping names the keyboard keys bound to each NES controller button.
type KeyMapping struct {
	Up     string `json:"up"`
	Down   string `json:"down"`
	Left   string `json:"left"`
	Right  string `json:"right"`
	A      string `json:"a"`
	B      string `json:"b"`
	Start  string `json:"start"`
	Select string `json:"select"`
}

// EmulationConfig contains emulation-core configuration.
type EmulationConfig struct {
	// TVSystem selects the console timing model: "NTSC" or "PAL"
	// (spec.md §6's tv_system option). "Dendy" is accepted and paced
	// like NTSC.
	TVSystem string `json:"tv_system"`
	// TestMode enables the blargg test-mode harness ($6000/$6004
	// polling) instead of presenting a window (spec.md §6's test_mode
	// option).
	TestMode bool `json:"test_mode"`
}

// DebugConfig contains debugging and development options.
type DebugConfig struct {
	ShowFPS       bool   `json:"show_fps"`
	EnableLogging bool   `json:"enable_logging"`
	LogLevel      string `json:"log_level"` // "debug", "info", "warn", "error"
	CPUTracing    bool   `json:"cpu_tracing"`
}

// PathsConfig contains file and directory paths.
type PathsConfig struct {
	ROMs     string `json:"roms"`
	SaveData string `json:"save_data"`
	Config   string `json:"config"`
}

// NewConfig returns a Config populated with the teacher's defaults.
func NewConfig() *Config {
	return &Config{
		Window: WindowConfig{Width: 512, Height: 480, Resizable: true, Scale: 2},
		Video: VideoConfig{
			VSync: true, AspectRatio: "4:3", Filter: "nearest", Backend: "ebitengine",
			Brightness: 1.0, Contrast: 1.0, Saturation: 1.0,
		},
		Audio: AudioConfig{Enabled: true, SampleRate: 44100, BufferSize: 1024, Volume: 0.8},
		Input: InputConfig{
			Player1Keys: KeyMapping{Up: "W", Down: "S", Left: "A", Right: "D", A: "J", B: "K", Start: "Enter", Select: "Space"},
			Player2Keys: KeyMapping{Up: "Key1", Down: "Key2", Left: "Key3", Right: "Key4", A: "Key5", B: "Key6", Start: "Key7", Select: "Key8"},
		},
		Emulation: EmulationConfig{TVSystem: "NTSC", TestMode: false},
		Debug:     DebugConfig{LogLevel: "info"},
		Paths:     PathsConfig{ROMs: "./roms", SaveData: "./saves", Config: "./config"},
	}
}

// LoadFromFile reads path as JSON into c, writing out the defaults if
// the file doesn't yet exist.
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c.SaveToFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.validate()
	c.loaded = true
	return nil
}

// SaveToFile writes c as indented JSON to path, creating its parent
// directory if necessary.
func (c *Config) SaveToFile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	c.configPath = path
	return nil
}

// validate resets out-of-range values rather than failing, matching the
// teacher's permissive load behavior: each goes back to its default,
// except Window.Scale, which is reset to 1.
func (c *Config) validate() {
	if c.Window.Scale <= 0 {
		c.Window.Scale = 1
	}
	if c.Video.Brightness < 0.1 || c.Video.Brightness > 3.0 {
		c.Video.Brightness = 1.0
	}
	if c.Video.Contrast < 0.1 || c.Video.Contrast > 3.0 {
		c.Video.Contrast = 1.0
	}
	if c.Video.Saturation < 0.0 || c.Video.Saturation > 3.0 {
		c.Video.Saturation = 1.0
	}
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = 44100
	}
	if c.Audio.BufferSize <= 0 {
		c.Audio.BufferSize = 1024
	}
	if c.Audio.Volume < 0.0 || c.Audio.Volume > 1.0 {
		c.Audio.Volume = 0.8
	}
	switch c.Emulation.TVSystem {
	case "NTSC", "PAL", "Dendy":
	default:
		c.Emulation.TVSystem = "NTSC"
	}
}

// GetWindowResolution returns the window size implied by Window.Scale
// against the fixed 256x240 NES resolution.
func (c *Config) GetWindowResolution() (width, height int) {
	return 256 * c.Window.Scale, 240 * c.Window.Scale
}

// IsLoaded reports whether the config was populated from a file.
func (c *Config) IsLoaded() bool { return c.loaded }
