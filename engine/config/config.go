package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/anima-hengine/engine/content"
	"github.com/spaghettifunk/anima-hengine/engine/core"
)

// Config is the on-disk configuration of the bridge.
type Config struct {
	Log        Log        `toml:"log"`
	Package    Package    `toml:"package"`
	Translator Translator `toml:"translator"`
}

type Log struct {
	Level string `toml:"level"`
}

// Package controls where cooked and baked assets are written.
type Package struct {
	TempCookFolder string `toml:"temp_cook_folder"`
	BakeFolder     string `toml:"bake_folder"`
	// Mode is "cook" or "bake".
	Mode string `toml:"mode"`
	// ReplaceMode is "replace" or "create_new".
	ReplaceMode string `toml:"replace_mode"`
}

// Translator holds the defaults of the skeletal mesh build settings. Part
// attributes override them per bundle.
type Translator struct {
	ImportScale       float32 `toml:"import_scale"`
	MaxInfluences     int     `toml:"max_influences"`
	ImportNormals     bool    `toml:"import_normals"`
	NumTexCoords      int     `toml:"num_texcoords"`
	OverwriteSkeleton bool    `toml:"overwrite_skeleton"`
}

func Default() Config {
	return Config{
		Log: Log{Level: "info"},
		Package: Package{
			TempCookFolder: content.DefaultTempCookFolder,
			BakeFolder:     content.DefaultBakeFolder,
			Mode:           "cook",
			ReplaceMode:    "replace",
		},
		Translator: Translator{
			ImportScale:   1,
			MaxInfluences: 4,
			ImportNormals: true,
			NumTexCoords:  1,
		},
	}
}

// Load reads the file at path on top of the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML on top of the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level: %w", core.ErrInvalidSettings, err)
	}
	if _, err := c.Package.PackageMode(); err != nil {
		return err
	}
	if _, err := content.ParseReplaceMode(c.Package.ReplaceMode); err != nil {
		return fmt.Errorf("%w: %w", core.ErrInvalidSettings, err)
	}
	t := c.Translator
	if t.ImportScale <= 0 {
		return fmt.Errorf("%w: import_scale must be positive, got %g", core.ErrInvalidSettings, t.ImportScale)
	}
	if t.MaxInfluences < 1 || t.MaxInfluences > 12 {
		return fmt.Errorf("%w: max_influences must be within [1, 12], got %d", core.ErrInvalidSettings, t.MaxInfluences)
	}
	if t.NumTexCoords < 0 || t.NumTexCoords > 8 {
		return fmt.Errorf("%w: num_texcoords must be within [0, 8], got %d", core.ErrInvalidSettings, t.NumTexCoords)
	}
	return nil
}

func (p Package) PackageMode() (content.PackageMode, error) {
	switch p.Mode {
	case "", "cook":
		return content.PackageModeCookToTemp, nil
	case "bake":
		return content.PackageModeBake, nil
	}
	return content.PackageModeCookToTemp, fmt.Errorf("%w: unknown package mode '%s'", core.ErrInvalidSettings, p.Mode)
}

// PackageParams returns the package parameters of a cook of the named asset.
// Part identity is filled in per bundle.
func (c Config) PackageParams(assetName string) content.PackageParams {
	mode, _ := c.Package.PackageMode()
	replace, _ := content.ParseReplaceMode(c.Package.ReplaceMode)
	return content.PackageParams{
		PackageMode:      mode,
		ReplaceMode:      replace,
		TempCookFolder:   c.Package.TempCookFolder,
		BakeFolder:       c.Package.BakeFolder,
		HoudiniAssetName: assetName,
	}
}

// Marshal encodes the configuration as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
