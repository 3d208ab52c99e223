// Package config содержит логику чтения конфигурации сервера и витрины astrostore.
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервера astrostore.
type Config struct {
	RunAddress  string   `env:"RUN_ADDRESS"`
	DatabaseURI string   `env:"DATABASE_URI"`
	AuthSecret  string   `env:"AUTH_SECRET"`
	CatalogFile string   `env:"CATALOG_FILE"`
	AdminLogins []string `env:"ADMIN_LOGINS" envSeparator:","`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Значения из окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envAuthSecret := cfg.AuthSecret
	envCatalogFile := cfg.CatalogFile
	envAdminLogins := cfg.AdminLogins

	var admins string

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.AuthSecret, "s", "", "secret for signing session tokens")
	flag.StringVar(&cfg.CatalogFile, "c", "", "YAML file with the service catalog (embedded catalog if empty)")
	flag.StringVar(&admins, "admins", "", "comma-separated logins registered as administrators")

	flag.Parse()

	cfg.AdminLogins = splitList(admins)

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envAuthSecret != "" {
		cfg.AuthSecret = envAuthSecret
	}
	if envCatalogFile != "" {
		cfg.CatalogFile = envCatalogFile
	}
	if len(envAdminLogins) > 0 {
		cfg.AdminLogins = splitList(strings.Join(envAdminLogins, ","))
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	return cfg, nil
}

func splitList(s string) []string {
	var res []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}
	return res
}
