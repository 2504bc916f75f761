// Package config содержит логику чтения конфигурации сервиса учёта потребления воды.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultRunAddress       = "localhost:8080"
	defaultReminderInterval = time.Hour
)

// Config содержит параметры конфигурации сервиса.
type Config struct {
	RunAddress        string        `env:"RUN_ADDRESS"`
	DatabaseURI       string        `env:"DATABASE_URI"`
	WeatherAPIAddress string        `env:"WEATHER_API_ADDRESS"`
	WeatherAPIKey     string        `env:"WEATHER_API_KEY"`
	WeatherCity       string        `env:"WEATHER_CITY"`
	AuthSecret        string        `env:"AUTH_SECRET"`
	ReminderInterval  time.Duration `env:"REMINDER_INTERVAL"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения, в том числе загруженные из файла .env, имеют приоритет над флагами.
func Parse() (*Config, error) {
	// Файл .env необязателен.
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envCfg := *cfg

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.WeatherAPIAddress, "w", "", "weather service address")
	flag.StringVar(&cfg.WeatherCity, "c", "", "city for weather-aware reminders")
	flag.DurationVar(&cfg.ReminderInterval, "i", defaultReminderInterval, "reminder sweep interval")

	flag.Parse()

	if envCfg.RunAddress != "" {
		cfg.RunAddress = envCfg.RunAddress
	}
	if envCfg.DatabaseURI != "" {
		cfg.DatabaseURI = envCfg.DatabaseURI
	}
	if envCfg.WeatherAPIAddress != "" {
		cfg.WeatherAPIAddress = envCfg.WeatherAPIAddress
	}
	if envCfg.WeatherCity != "" {
		cfg.WeatherCity = envCfg.WeatherCity
	}
	if envCfg.ReminderInterval != 0 {
		cfg.ReminderInterval = envCfg.ReminderInterval
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.ReminderInterval < 0 {
		return nil, fmt.Errorf("reminder interval must not be negative: %s", cfg.ReminderInterval)
	}

	return cfg, nil
}
