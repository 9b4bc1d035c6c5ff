// Package config loads plantcare settings from an optional YAML file and
// PLANTCARE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/spf13/viper"

	"github.com/sadopc/plantcare/internal/store"
)

const envPrefix = "PLANTCARE"

type Storage struct {
	DBPath    string `mapstructure:"dbPath" validate:"required"`
	PlantsKey string `mapstructure:"plantsKey" validate:"required"`
}

type Log struct {
	Level string `mapstructure:"level" validate:"required|in:trace,debug,info,warn,error"`
	File  string `mapstructure:"file" validate:"required"`
}

type Web struct {
	Host            string        `mapstructure:"host" validate:"required"`
	Port            int           `mapstructure:"port" validate:"required|min:1|max:65535"`
	Metrics         bool          `mapstructure:"metrics"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout" validate:"required|min:1"`
}

type Photo struct {
	MaxBytes int64 `mapstructure:"maxBytes" validate:"required|min:1"`
}

type Config struct {
	Path    string  `mapstructure:"-"`
	Storage Storage `mapstructure:"storage"`
	Log     Log     `mapstructure:"log"`
	Web     Web     `mapstructure:"web"`
	Photo   Photo   `mapstructure:"photo"`
}

// Addr is the web listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Web.Host, c.Web.Port)
}

// Dir returns ~/.config/plantcare.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "plantcare")
}

func setDefaults(v *viper.Viper) {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		dbPath = filepath.Join(Dir(), "plantcare.db")
	}
	v.SetDefault("storage.dbPath", dbPath)
	v.SetDefault("storage.plantsKey", "plantCareAssistant_plants")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(Dir(), "plantcare.log"))
	v.SetDefault("web.host", "127.0.0.1")
	v.SetDefault("web.port", 8080)
	v.SetDefault("web.metrics", true)
	v.SetDefault("web.shutdownTimeout", 10*time.Second)
	v.SetDefault("photo.maxBytes", int64(5<<20))
}

// Load reads path (or ~/.config/plantcare/config.yaml when path is empty),
// applies environment overrides and validates the result. A missing default
// file is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("storage.dbPath", "PLANTCARE_DB_PATH")
	v.BindEnv("storage.plantsKey", "PLANTCARE_PLANTS_KEY")
	v.BindEnv("log.level", "PLANTCARE_LOG_LEVEL")
	v.BindEnv("log.file", "PLANTCARE_LOG_FILE")
	v.BindEnv("web.host", "PLANTCARE_WEB_HOST")
	v.BindEnv("web.port", "PLANTCARE_WEB_PORT")
	v.BindEnv("web.metrics", "PLANTCARE_WEB_METRICS")
	v.BindEnv("photo.maxBytes", "PLANTCARE_PHOTO_MAX_BYTES")

	explicit := path != ""
	if !explicit {
		path = filepath.Join(Dir(), "config.yaml")
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		path = ""
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	conf.Path = path
	conf.Storage.DBPath = expandHome(conf.Storage.DBPath)
	conf.Log.File = expandHome(conf.Log.File)
	conf.Log.Level = strings.ToLower(conf.Log.Level)

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate checks every section and reports the first failing one.
func (c *Config) Validate() error {
	sections := []struct {
		name string
		data any
	}{
		{"storage", &c.Storage},
		{"log", &c.Log},
		{"web", &c.Web},
		{"photo", &c.Photo},
	}
	for _, s := range sections {
		v := validate.Struct(s.data)
		if !v.Validate() {
			return fmt.Errorf("invalid %s config: %s", s.name, v.Errors.One())
		}
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
