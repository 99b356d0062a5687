package cmd

import (
	"errors"
	"os"
	"salamyar/lib/configutil"
	configlibsql "salamyar/lib/configutil/libsql"
	"salamyar/lib/platforms/authapi"
	"salamyar/lib/statedir"
	"time"

	"dario.cat/mergo"
)

const configName = "salamyar.json5"

const (
	envApiUrl  = "SALAMYAR_API_URL"
	envAuthUrl = "SALAMYAR_AUTH_URL"
)

type Config struct {
	// catalog-search service, required for everything but auth
	ApiUrl         string              `json:"api_url"`
	AuthUrl        string              `json:"auth_url"`
	TimeoutSeconds int                 `json:"timeout_seconds"`
	Database       configlibsql.Struct `json:"database"`
	// http exchanges are dumped under here with --verbose
	DumpDir string `json:"dump_dir"`
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func defaultConfig() Config {
	return Config{
		AuthUrl:        authapi.DefaultBaseUrl,
		TimeoutSeconds: 30,
		Database:       configlibsql.Struct{File: "<state>/salamyar.db"},
		DumpDir:        "<state>/resty",
	}
}

// LoadConfig layers, from lowest to highest priority: the defaults,
// salamyar.json5 (searched upwards from the cwd, then in the state
// directory), salamyar.local.json5 and the environment.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()

	fallback, _ := statedir.Dir()
	file, err := configutil.ReadRecursively[Config](configName, fallback)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err == nil {
		err = mergo.Merge(&cfg, file, mergo.WithOverride)
		if err != nil {
			return cfg, err
		}
	}

	if value, ok := os.LookupEnv(envApiUrl); ok && value != "" {
		cfg.ApiUrl = value
	}
	if value, ok := os.LookupEnv(envAuthUrl); ok && value != "" {
		cfg.AuthUrl = value
	}
	return cfg, nil
}
