package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-chatmod/internal/bot"
	"go-chatmod/internal/commands"
	"go-chatmod/internal/config"
	"go-chatmod/internal/extension"
	"go-chatmod/internal/ingest"
	"go-chatmod/internal/logging"
	"go-chatmod/internal/metrics"
	"go-chatmod/internal/watchdog"

	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("Starting chat moderation engine")

	// A missing .env is fine; the environment may carry the token already.
	_ = godotenv.Load()

	cfg := loadConfig()

	if err := initializeLogging(cfg); err != nil {
		panic(err)
	}
	defer logging.CloseGlobalLogger()

	metrics.InitGlobalRegistry()

	if cfg.Bot.Token == "" {
		logging.Error("No bot token configured (set DISCORD_TOKEN or bot.token)")
		os.Exit(1)
	}

	if err := bot.Initialize(cfg.Bot.Token); err != nil {
		panic(err)
	}
	session := bot.GetSession()

	components, err := startComponents(cfg, session)
	if err != nil {
		panic(err)
	}

	// Handlers must exist before the gateway opens.
	session.SetupEventHandlers(components.queue, components.registry)

	if err := session.Connect(); err != nil {
		panic(err)
	}

	if err := commands.Initialize(session, components.registry); err != nil {
		panic(err)
	}

	logging.Info("All components started successfully")

	waitForShutdown()

	// Close the gateway first so nothing enqueues into a closing queue.
	session.Close()
	stopComponents(components)

	logging.Info("Shutdown complete")
}

func loadConfig() *config.Config {
	path := os.Getenv("CHATMOD_CONFIG")
	if path == "" {
		path = "config.json"
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Printf("Config load failed, using defaults: %v\n", err)
		cfg = config.DefaultConfig()
	}
	return cfg
}

func initializeLogging(cfg *config.Config) error {
	return logging.InitGlobalLogger(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Path)
}

type Components struct {
	queue      *ingest.Queue
	dispatcher *ingest.Dispatcher
	registry   *extension.Registry
	snapshots  *extension.SnapshotStore
	watchdog   *watchdog.Watchdog
}

func startComponents(cfg *config.Config, session *bot.Session) (*Components, error) {
	client := session.Client()

	var snapshots *extension.SnapshotStore
	if cfg.Snapshot.Path != "" {
		store, err := extension.OpenSnapshotStore(cfg.Snapshot.Path)
		if err != nil {
			logging.Warn("Snapshot store unavailable, remote configs lose their fallback: %v", err)
		} else {
			snapshots = store
		}
	}

	fetcher := extension.NewFetcher(time.Duration(cfg.Extensions.FetchTimeoutSeconds) * time.Second)
	resolver := extension.NewResolver(fetcher, snapshots)

	registry := extension.NewRegistry(client)
	registry.Register(extension.New(
		extension.RulesExtensionName,
		client,
		extension.NewRulesFactory(),
		cfg.Extensions.Rules,
		resolver,
	))
	registry.Register(extension.New(
		extension.HelpChannelExtensionName,
		client,
		extension.NewHelpChannelFactory(),
		cfg.Extensions.HelpChannels,
		resolver,
	))

	queue := ingest.NewQueue(cfg.Ingest.QueueSize)
	dispatcher := ingest.NewDispatcher(queue, registry)
	dispatcher.Start()

	components := &Components{
		queue:      queue,
		dispatcher: dispatcher,
		registry:   registry,
		snapshots:  snapshots,
	}

	if cfg.Watchdog.Enabled {
		components.watchdog = watchdog.NewWatchdog(
			queue,
			time.Duration(cfg.Watchdog.IntervalSeconds)*time.Second,
			cfg.Watchdog.MaxQueueDepth,
			cfg.Watchdog.MaxRSSMegabytes,
		)
		components.watchdog.Start()
	}

	return components, nil
}

func waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	fmt.Println("\nShutdown signal received")
}

func stopComponents(components *Components) {
	if components.watchdog != nil {
		components.watchdog.Stop()
	}

	// Stop intake, drain what is buffered, then tear down extensions so
	// pollers and per-guild state shut down cleanly.
	components.queue.Close()
	components.dispatcher.Wait()
	components.registry.TeardownAll(context.Background())

	if components.snapshots != nil {
		components.snapshots.Close()
	}
}
