package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/oh-hell-club/kachuful-bot/app"
	"github.com/oh-hell-club/kachuful-bot/config"
)

func main() {
	configFile := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	application, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		logger.Info("Shutdown signal received")
		cancel()
	}()

	if err := application.Run(ctx); err != nil {
		logger.Error("Application stopped with error", slog.String("error", err.Error()))
	}

	if err := application.Close(); err != nil {
		logger.Error("Error during shutdown", slog.String("error", err.Error()))
	}

	logger.Info("Application shut down gracefully")
}
