package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// validator is implemented by every config document.
type validator interface {
	Validate() error
}

// Load loads the configuration of a game variant.
// Search order: customPath -> ~/.digger/configs/<variant>.yaml -> ./configs/<variant>.yaml -> embedded default
// Files are decoded over the hard-coded defaults, so a file may override only a few keys.
// A file whose variant key names another variant is rejected with ErrWrongVariant.
func Load(variant, customPath string) (DiggerConfig, error) {
	if _, ok := DefaultConfig(variant); !ok {
		return DiggerConfig{}, fmt.Errorf("config: unknown variant %q", variant)
	}
	cfg, err := load(variant+".yaml", customPath, GetDefaultYAML(variant), func() DiggerConfig {
		cfg, _ := DefaultConfig(variant)
		return cfg
	})
	if err == nil && cfg.Variant != variant {
		named := cfg.Variant
		cfg, _ = DefaultConfig(variant)
		return cfg, fmt.Errorf("%w: %q cannot configure %s", ErrWrongVariant, named, variant)
	}
	return cfg, err
}

// LoadTileset loads the terminal tileset.
// Search order: customPath -> ~/.digger/configs/tileset.yaml -> ./configs/tileset.yaml -> embedded default
func LoadTileset(customPath string) (Tileset, error) {
	return load("tileset.yaml", customPath, defaultTilesetYAML, DefaultTileset)
}

func load[T validator](filename, customPath string, embedded []byte, fresh func() T) (T, error) {
	// Try custom path first
	if customPath != "" {
		cfg := fresh()
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if cfg, ok := decode(userCfgPath, fresh()); ok {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, ok := decode(filepath.Join("configs", filename), fresh()); ok {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg := fresh()
	if err := yaml.Unmarshal(embedded, &cfg); err != nil || cfg.Validate() != nil {
		return fresh(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// decode reads and validates a file, reporting false on any failure.
func decode[T validator](path string, cfg T) (T, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".digger", "configs", filename)
}
