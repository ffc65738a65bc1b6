package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/warelay/autoreply-bridge/internal/biz"
	"github.com/warelay/autoreply-bridge/internal/biz/usecase"
	"github.com/warelay/autoreply-bridge/internal/conf"
	"github.com/warelay/autoreply-bridge/internal/data"
	"github.com/warelay/autoreply-bridge/internal/infra/openai"
	"github.com/warelay/autoreply-bridge/internal/infra/wabridge"
	"github.com/warelay/autoreply-bridge/internal/server"
	"github.com/warelay/autoreply-bridge/internal/service"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize bridge client
	bridgeClient := wabridge.NewClient(wabridge.Config{
		APIURL:       cfg.Bridge.APIURL,
		DBPath:       cfg.Bridge.DBPath,
		UseWebsocket: cfg.Bridge.UseWebsocket,
		PollInterval: cfg.Bridge.PollInterval,
	})

	var composerClient *openai.Client
	if cfg.Composer.APIKey != "" {
		composerClient = openai.NewClient(cfg.Composer.APIKey, cfg.Composer.BaseURL, cfg.Composer.Model)
		fmt.Println("[Autoreply] Reply composer enabled")
	}

	// Initialize repository layer
	repos, err := data.NewRepositories(bridgeClient, composerClient, cfg.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to create repositories: %v", err)
	}

	fmt.Printf("[Autoreply] Settings file: %s\n", cfg.ConfigPath)
	fmt.Printf("[Autoreply] Bridge API: %s\n", cfg.Bridge.APIURL)

	// Load reply texts
	replies, err := conf.LoadRepliesConfig("")
	if err != nil {
		log.Fatalf("Failed to load replies config: %v", err)
	}

	// Initialize usecase layer
	ucs := &biz.Usecases{
		Settings: usecase.NewSettingsUsecase(repos.Settings),
		Composer: usecase.NewComposerUsecase(repos.Composer, replies.Composer.SystemPrompt),
	}

	// Initialize service layer
	scheduler := service.NewReplyScheduler(ucs.Settings, ucs.Composer, repos.Message, cfg.ExcludedChats, cfg.Debug)
	cmdSvc := service.NewCommandService(ucs.Settings, repos.Message, cfg.ExcludedChats, replies.ToCommandReplies())

	// Initialize server
	srv := server.NewBridgeServer(bridgeClient, cmdSvc, scheduler, cfg.Debug)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		srv.Stop()
		if err := ucs.Settings.Save(context.Background()); err != nil {
			fmt.Printf("[Autoreply] Failed to save settings: %v\n", err)
		}
		os.Exit(0)
	}()

	fmt.Printf("[Autoreply] Watching messages as %s...\n", ucs.Settings.Owner())
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
