package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Simplex struct {
		// MaxIterations is the pivot budget per solve; exceeding it
		// reports a suspected cycle instead of looping forever on a
		// degenerate problem. Zero disables the guard.
		MaxIterations int           `env:"SIMPLEX_MAX_ITERATIONS" envDefault:"10000"`
		SolveTimeout  time.Duration `env:"SIMPLEX_SOLVE_TIMEOUT" envDefault:"60s"`
	}
}

func Load() (*Config, error) {
	cfg := &Config{}

	// Parse environment variables
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Development gets readable console logs at debug level unless
	// overridden explicitly.
	if cfg.Environment == "development" {
		if cfg.Logging.Level == "info" {
			cfg.Logging.Level = "debug"
		}
		if cfg.Logging.Format == "json" {
			cfg.Logging.Format = "console"
		}
	}

	return cfg, nil
}
