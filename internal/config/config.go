package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Discord struct {
		Token          string   `env:"DISCORD_TOKEN,required"`
		CommandPrefix  string   `env:"COMMAND_PREFIX" envDefault:"&"`
		SupportGuildID string   `env:"SUPPORT_GUILD_ID"`
		OwnerIDs       []string `env:"OWNER_IDS" envSeparator:","`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Giveaway struct {
		// Sweep interval for the periodic expiry check.
		SweepIntervalSec int `env:"GIVEAWAY_SWEEP_INTERVAL_SEC" envDefault:"30"`
		// One-shot timers are only armed for delays under this horizon;
		// longer giveaways are closed by the sweep.
		TimerHorizonMin int `env:"GIVEAWAY_TIMER_HORIZON_MIN" envDefault:"60"`
	}

	HTTP struct {
		Port int `env:"HTTP_PORT" envDefault:"8080"`
	}
}

func Load() *Config {
	// Ignore a missing .env file; production sets variables directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
