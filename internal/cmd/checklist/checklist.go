// Package checklist parses configuration and runs the checklist service.
package checklist

import (
	"context"
	"flag"
	"log"
	"path/filepath"

	server "github.com/examops/checkbot/internal/app"
	"github.com/examops/checkbot/internal/platform/config"
	"github.com/examops/checkbot/internal/platform/otel"
)

// Config holds checklist command configuration.
type Config struct {
	Port   int    `env:"CHECKBOT_PORT"`
	DBPath string `env:"CHECKBOT_DB_PATH"`
	Locale string `env:"CHECKBOT_LOCALE"`

	EvolutionBaseURL  string `env:"CHECKBOT_EVOLUTION_BASE_URL"`
	EvolutionAPIKey   string `env:"CHECKBOT_EVOLUTION_API_KEY"`
	EvolutionInstance string `env:"CHECKBOT_EVOLUTION_INSTANCE"`

	OpenAIAPIKey       string `env:"CHECKBOT_OPENAI_API_KEY"`
	OpenAIModel        string `env:"CHECKBOT_OPENAI_MODEL"`
	OpenAIResponsesURL string `env:"CHECKBOT_OPENAI_URL"`
}

// ParseConfig loads configuration from the environment, then lets flags
// override it.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{
		Port:   8080,
		DBPath: filepath.Join("data", "checklist.db"),
		Locale: "pt-BR",
	}
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.IntVar(&cfg.Port, "port", cfg.Port, "The checklist webhook server port")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Path to the checklist sqlite database")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Reply locale (BCP 47 tag)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the checklist server.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "checklist")
	if err != nil {
		log.Printf("otel setup failed: %v", err)
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("otel shutdown failed: %v", err)
			}
		}()
	}

	return server.Run(ctx, server.Config{
		Port:               cfg.Port,
		DBPath:             cfg.DBPath,
		Locale:             cfg.Locale,
		EvolutionBaseURL:   cfg.EvolutionBaseURL,
		EvolutionAPIKey:    cfg.EvolutionAPIKey,
		EvolutionInstance:  cfg.EvolutionInstance,
		OpenAIAPIKey:       cfg.OpenAIAPIKey,
		OpenAIModel:        cfg.OpenAIModel,
		OpenAIResponsesURL: cfg.OpenAIResponsesURL,
	})
}
