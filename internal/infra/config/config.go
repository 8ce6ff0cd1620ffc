// Package config resolves the PocketBase base URL from, in priority order, a
// JSON config file in the working directory, an environment variable, and a
// hardcoded default.
package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"pbmcp/internal/domain"
)

// Resolve returns the backend base URL. It is called once per process.
func Resolve(logger *zap.Logger) string {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return ResolveFrom(wd, os.Getenv, logger)
}

// ResolveFrom resolves against an explicit directory and environment lookup.
// A malformed or empty config file is logged and skipped, never fatal.
func ResolveFrom(dir string, getenv func(string) string, logger *zap.Logger) string {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("config")

	path := filepath.Join(dir, domain.ConfigFileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if url := urlFromFile(data, path, logger); url != "" {
			logger.Info("base url resolved from config file", zap.String("path", path), zap.String("url", url))
			return url
		}
	case !errors.Is(err, os.ErrNotExist):
		logger.Warn("config file unreadable", zap.String("path", path), zap.Error(err))
	}

	if url := strings.TrimSpace(getenv(domain.BaseURLEnvVar)); url != "" {
		logger.Info("base url resolved from environment", zap.String("var", domain.BaseURLEnvVar), zap.String("url", url))
		return url
	}

	logger.Info("base url defaulted", zap.String("url", domain.DefaultBaseURL))
	return domain.DefaultBaseURL
}

func urlFromFile(data []byte, path string, logger *zap.Logger) string {
	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		logger.Warn("config file parse failed, falling through", zap.String("path", path), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(v.GetString("url"))
}
