package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"github.com/dskvich/vision-webchat/pkg/api"
	"github.com/dskvich/vision-webchat/pkg/groq"
	"github.com/dskvich/vision-webchat/pkg/logger"
	"github.com/dskvich/vision-webchat/pkg/repository"
	"github.com/dskvich/vision-webchat/pkg/services"
	"github.com/dskvich/vision-webchat/pkg/workers"
)

type Config struct {
	GroqAPIKey              string  `env:"GROQ_API_KEY,required,notEmpty"`
	GroqAPIURL              string  `env:"GROQ_API_URL" envDefault:"https://api.groq.com/openai/v1/chat/completions"`
	GroqModel               string  `env:"GROQ_MODEL" envDefault:"meta-llama/llama-4-scout-17b-16e-instruct"`
	GroqMaxCompletionTokens int     `env:"GROQ_MAX_COMPLETION_TOKENS" envDefault:"1024"`
	GroqTemperature         float64 `env:"GROQ_TEMPERATURE" envDefault:"0.7"`
	GroqTopP                float64 `env:"GROQ_TOP_P" envDefault:"1"`
	HTTPAddr                string  `env:"HTTP_ADDR" envDefault:":5000"`
	HistoryDir              string  `env:"HISTORY_DIR" envDefault:"history"`
	UploadDir               string  `env:"UPLOAD_DIR" envDefault:"uploads"`
	LogNoColor              bool    `env:"LOG_NO_COLOR" envDefault:"false"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.LogNoColor {
		slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions.WithoutColor())))
	}

	workerGroup, err := setupWorkers(cfg)
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return workerGroup.Start(ctx)
}

func loadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}
	return &cfg, nil
}

func setupWorkers(cfg *Config) (workers.Group, error) {
	var workerGroup workers.Group

	historyRepository, err := repository.NewHistoryRepository(cfg.HistoryDir, cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("creating history repository: %w", err)
	}

	groqClient, err := groq.NewClient(groq.Config{
		APIKey:              cfg.GroqAPIKey,
		URL:                 cfg.GroqAPIURL,
		Model:               cfg.GroqModel,
		MaxCompletionTokens: cfg.GroqMaxCompletionTokens,
		Temperature:         &cfg.GroqTemperature,
		TopP:                &cfg.GroqTopP,
	})
	if err != nil {
		return nil, fmt.Errorf("creating groq client: %w", err)
	}

	chatService := services.NewChatService(
		historyRepository,
		historyRepository,
		groqClient,
		cfg.GroqModel,
	)

	server, err := api.NewServer(cfg.HTTPAddr, chatService)
	if err != nil {
		return nil, fmt.Errorf("creating http server: %w", err)
	}

	workerGroup = append(workerGroup, workers.NewHTTPServer(server, cfg.HTTPAddr))

	return workerGroup, nil
}
