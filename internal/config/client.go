package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Значения витрины по умолчанию.
const (
	DefaultAPIAddress       = "localhost:8080"
	DefaultStateFile        = "astroshop.db"
	DefaultTaxRate          = 0.18
	DefaultCarouselInterval = 5 * time.Second
)

// ClientConfig содержит параметры витрины. Поля заполняются флагами, затем переопределяются окружением.
type ClientConfig struct {
	APIAddress       string        `env:"API_ADDRESS"`
	StateFile        string        `env:"STATE_FILE"`
	RedisURL         string        `env:"REDIS_URL"`
	TaxRate          float64       `env:"TAX_RATE"`
	CarouselInterval time.Duration `env:"CAROUSEL_INTERVAL"`
	Verbose          bool          `env:"VERBOSE"`
}

// DefaultClient возвращает конфигурацию витрины по умолчанию.
func DefaultClient() ClientConfig {
	return ClientConfig{
		APIAddress:       DefaultAPIAddress,
		StateFile:        DefaultStateFile,
		TaxRate:          DefaultTaxRate,
		CarouselInterval: DefaultCarouselInterval,
	}
}

// ApplyEnv переопределяет поля значениями из переменных окружения и проверяет результат.
func (c *ClientConfig) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if c.TaxRate < 0 {
		return fmt.Errorf("tax rate must not be negative: %v", c.TaxRate)
	}
	if c.CarouselInterval <= 0 {
		return fmt.Errorf("carousel interval must be positive: %v", c.CarouselInterval)
	}
	return nil
}
