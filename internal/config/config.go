// Package config loads settings from defaults, an optional config file,
// LSEXO_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/litescript/ls-exoplanets/internal/camera"
	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/scene"
)

// EnvPrefix prefixes environment overrides, e.g. LSEXO_API_BASEURL.
const EnvPrefix = "LSEXO"

// Config is the full application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Log     LogConfig     `mapstructure:"log"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Scene   SceneConfig   `mapstructure:"scene"`
	Camera  camera.Config `mapstructure:"camera"`
}

type APIConfig struct {
	BaseURL    string        `mapstructure:"baseUrl"`
	Timeout    time.Duration `mapstructure:"timeout"`
	FilterRate float64       `mapstructure:"filterRate"` // requests per second, 0 disables
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type CacheConfig struct {
	Path string `mapstructure:"path"` // empty disables the cache
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // empty disables the endpoint
}

// SceneConfig mirrors scene.Params.
type SceneConfig struct {
	StarScale       float64 `mapstructure:"starScale"`
	SunScale        float64 `mapstructure:"sunScale"`
	MinPlanetRadius float64 `mapstructure:"minPlanetRadius"`
	OrbitSpeed      float64 `mapstructure:"orbitSpeed"`
	DepthOffset     float64 `mapstructure:"depthOffset"`
}

// Params converts the scene section to scene.Params.
func (s SceneConfig) Params() scene.Params {
	return scene.Params{
		StarScale:       s.StarScale,
		SunScale:        s.SunScale,
		MinPlanetRadius: s.MinPlanetRadius,
		OrbitSpeed:      s.OrbitSpeed,
		DepthOffset:     s.DepthOffset,
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"api-url":      "api.baseUrl",
	"timeout":      "api.timeout",
	"log-level":    "log.level",
	"log-file":     "log.file",
	"cache":        "cache.path",
	"metrics-addr": "metrics.addr",
}

// New returns a viper instance carrying every default.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("api.baseUrl", catalog.DefaultBaseURL)
	v.SetDefault("api.timeout", catalog.DefaultTimeout)
	v.SetDefault("api.filterRate", catalog.DefaultFilterRate)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("cache.path", "")
	v.SetDefault("metrics.addr", "")

	p := scene.DefaultParams()
	v.SetDefault("scene.starScale", p.StarScale)
	v.SetDefault("scene.sunScale", p.SunScale)
	v.SetDefault("scene.minPlanetRadius", p.MinPlanetRadius)
	v.SetDefault("scene.orbitSpeed", p.OrbitSpeed)
	v.SetDefault("scene.depthOffset", p.DepthOffset)

	c := camera.DefaultConfig()
	v.SetDefault("camera.minZoom", c.MinZoom)
	v.SetDefault("camera.maxZoom", c.MaxZoom)
	v.SetDefault("camera.defaultZoom", c.DefaultZoom)
	v.SetDefault("camera.zoomOutPreset", c.ZoomOutPreset)
	v.SetDefault("camera.sensitivity", c.Sensitivity)
	v.SetDefault("camera.fov", c.FOV)
	v.SetDefault("camera.near", c.Near)
	v.SetDefault("camera.far", c.Far)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration. path may be empty; flags may be nil. Only
// flags the user actually set override lower layers.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Validate checks the values a running program depends on.
func (c *Config) Validate() error {
	switch {
	case c.API.BaseURL == "":
		return fmt.Errorf("%w: api.baseUrl is empty", ErrInvalid)
	case c.API.Timeout <= 0:
		return fmt.Errorf("%w: api.timeout must be positive", ErrInvalid)
	case c.Camera.MaxZoom <= c.Camera.MinZoom:
		return fmt.Errorf("%w: camera.maxZoom must exceed camera.minZoom", ErrInvalid)
	case c.Camera.DefaultZoom < c.Camera.MinZoom || c.Camera.DefaultZoom > c.Camera.MaxZoom:
		return fmt.Errorf("%w: camera.defaultZoom outside [minZoom, maxZoom]", ErrInvalid)
	case c.Camera.ZoomOutPreset < c.Camera.MinZoom || c.Camera.ZoomOutPreset > c.Camera.MaxZoom:
		return fmt.Errorf("%w: camera.zoomOutPreset outside [minZoom, maxZoom]", ErrInvalid)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return fmt.Errorf("%w: camera.fov must be in (0, 180)", ErrInvalid)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: camera near/far planes", ErrInvalid)
	case c.Scene.StarScale <= 0 || c.Scene.SunScale <= 0 || c.Scene.MinPlanetRadius <= 0:
		return fmt.Errorf("%w: scene scales must be positive", ErrInvalid)
	}
	return nil
}
