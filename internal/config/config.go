// Package config resolves runtime configuration from an optional YAML file
// and LAPSO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"lapso/internal/store"
)

const (
	keyDBPath          = "db_path"
	keyTimezone        = "timezone"
	keyLogFile         = "log_file"
	keyHeatmapExclude  = "heatmap.exclude"
	keyRefreshInterval = "refresh.interval"
)

type Config struct {
	DBPath          string
	Timezone        string
	LogFile         string
	HeatmapExclude  []string
	RefreshInterval time.Duration // 0 means manual refresh only
}

// DefaultPath returns ~/.config/lapso/lapso.yaml
func DefaultPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "lapso", "lapso.yaml"), nil
}

// Load reads configuration from the given file path. A missing file is not
// an error; defaults and environment variables still apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve default db path: %w", err)
	}

	v.SetDefault(keyDBPath, dbPath)
	v.SetDefault(keyTimezone, "America/Santiago")
	v.SetDefault(keyLogFile, filepath.Join(filepath.Dir(dbPath), "lapso.log"))
	v.SetDefault(keyHeatmapExclude, []string{"sleep"})
	v.SetDefault(keyRefreshInterval, time.Duration(0))

	v.SetEnvPrefix("lapso")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return &Config{
		DBPath:          v.GetString(keyDBPath),
		Timezone:        v.GetString(keyTimezone),
		LogFile:         v.GetString(keyLogFile),
		HeatmapExclude:  v.GetStringSlice(keyHeatmapExclude),
		RefreshInterval: v.GetDuration(keyRefreshInterval),
	}, nil
}
