package config

import (
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	configFileENV     = "CONFIG_FILE"
	defaultConfigFile = "/config/diary.yaml"
)

type Config struct {
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path" validate:"required"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries" default:"5"`

	ServerHost string `koanf:"server_host" default:"0.0.0.0"`
	ServerPort int    `koanf:"server_port" default:"3690"`

	CatalogBaseURL           string        `koanf:"catalog_base_url" default:"https://openlibrary.org" validate:"required,url"`
	CatalogTimeout           time.Duration `koanf:"catalog_timeout" default:"20s"`
	CatalogPageSize          int           `koanf:"catalog_page_size" default:"20" validate:"min=1,max=100"`
	CatalogPopularQuery      string        `koanf:"catalog_popular_query" default:"bestseller" validate:"required"`
	CatalogRequestsPerSecond float64       `koanf:"catalog_requests_per_second" validate:"min=0"`

	ImageCacheMaxEntries   int `koanf:"image_cache_max_entries" default:"300" validate:"min=1"`
	ImageCacheMaxCostBytes int `koanf:"image_cache_max_cost_bytes" default:"67108864" validate:"min=1"`

	DisplayName      string `koanf:"display_name" default:"Reader"`
	RecentNotesLimit int    `koanf:"recent_notes_limit" default:"5" validate:"min=1"`
}

// New loads the config from its defaults, then the YAML file pointed to by
// CONFIG_FILE, then the environment. Later sources win.
func New() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	k := koanf.New(".")

	path := os.Getenv(configFileENV)
	if path == "" {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", path)
		}
	}

	known := knownKeys()
	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(key)
		if _, ok := known[key]; !ok {
			return "", nil
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config backed by an in-memory database.
func NewForTest() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	cfg.DatabaseFilePath = ":memory:"
	cfg.DatabaseConnectRetryCount = 1
	cfg.DatabaseConnectRetryDelay = 0
	cfg.ServerHost = "127.0.0.1"
	return cfg
}

func validate(cfg *Config) error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("koanf")
	})

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.WithStack(err)
	}

	fe := verrs[0]
	if fe.Tag() == "required" {
		return errors.Errorf("missing required config: %s (%s)", strings.ToUpper(fe.Field()), fe.Field())
	}
	return errors.Errorf("invalid config: %s (%s) failed %q", strings.ToUpper(fe.Field()), fe.Field(), fe.Tag())
}

func knownKeys() map[string]struct{} {
	keys := map[string]struct{}{}
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("koanf")
		if name == "" {
			name = toSnakeCase(t.Field(i).Name)
		}
		keys[name] = struct{}{}
	}
	return keys
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
