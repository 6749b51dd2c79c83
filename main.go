package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"signrank/app"
	"signrank/internal"
	"signrank/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load(os.Getenv(config.EnvPrefix + "CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()
	defer logger.Sync()

	pipeline, err := app.NewPipeline(appConfig, os.Stdout, logger)
	if err != nil {
		log.Fatalf("Failed to set up analysis: %v", err)
	}
	defer pipeline.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := pipeline.Service.Run(ctx, pipeline.Request)
	if err != nil {
		logger.Error("analysis run failed: %v", err)
		os.Exit(1)
	}

	log.Printf("Results for %d samples written to %s", len(report.Results), appConfig.Output.Results)
}
