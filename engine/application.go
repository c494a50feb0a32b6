package engine

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/jbryan2ufl/go-graphics-sandbox/engine/core"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	// The application name used in windowing, if applicable.
	Name     string        `toml:"name"`
	LogLevel core.LogLevel `toml:"log_level"`
	// Directory holding models and other assets.
	AssetPath string `toml:"asset_path"`
	// Path to the compiled model shader.
	ShaderPath string `toml:"shader_path"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:   100,
		StartPosY:   100,
		StartWidth:  1280,
		StartHeight: 720,
		Name:        "Sandbox",
		LogLevel:    core.InfoLevel,
		AssetPath:   "assets",
		ShaderPath:  "assets/shaders/model.wgsl",
	}
}

// LoadApplicationConfig reads a TOML config file, falling back to the
// defaults when the file does not exist. A file that exists but cannot
// be parsed is an error.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	config := DefaultApplicationConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			core.LogDebug("config file %s not found, using defaults", path)
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if config.StartWidth == 0 || config.StartHeight == 0 {
		return nil, fmt.Errorf("config %s: window dimensions must be non-zero", path)
	}
	return config, nil
}
