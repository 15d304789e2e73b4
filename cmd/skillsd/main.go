package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/minekent/skillsengine/internal/command"
	"github.com/minekent/skillsengine/internal/config"
	"github.com/minekent/skillsengine/internal/console"
	"github.com/minekent/skillsengine/internal/content"
	"github.com/minekent/skillsengine/internal/engine"
	"github.com/minekent/skillsengine/internal/journal"
	"github.com/minekent/skillsengine/internal/logger"
	"github.com/minekent/skillsengine/internal/playerdata"
	"github.com/minekent/skillsengine/internal/registry"
	"github.com/minekent/skillsengine/internal/sandbox"
	"github.com/minekent/skillsengine/internal/text"
	"github.com/minekent/skillsengine/internal/vocab"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "data/config.yaml", "Path to daemon config YAML file")
	stdin := flag.Bool("stdin", false, "Run an operator session on this terminal")
	noSeed := flag.Bool("no-seed", false, "Do not write the bundled skills into an empty skills directory")
	flag.Parse()

	// .env is optional; its values only feed the env overrides below.
	envErr := godotenv.Load()

	// Initialize logger first (before any logging)
	logConfig, _ := logger.LoadConfig(*configPath)
	if err := logger.Initialize(logConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	if envErr == nil {
		logger.Info("Loaded .env file")
	}

	if err := run(*configPath, *stdin, !*noSeed); err != nil {
		logger.Error("SkillsEngine stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, stdin, seed bool) error {
	logger.Info("Starting SkillsEngine")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Warning("Failed to load config, using defaults", "path", configPath, "error", err)
	}
	cfg.ApplyEnv()
	logger.SetDebug(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v, err := vocab.LoadFromYAML(cfg.Vocabulary)
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}

	var messages *text.Messages
	if err := text.Initialize(cfg.Messages); err != nil {
		logger.Warning("Failed to load messages, using built-in templates", "path", cfg.Messages, "error", err)
		messages = text.Defaults()
	} else {
		messages = text.GetInstance()
		logger.Info("Messages loaded", "path", cfg.Messages)
	}

	world, err := loadSandbox(cfg.Sandbox)
	if err != nil {
		return err
	}

	if seed {
		written, err := content.SeedDefaults(cfg.SkillsDir)
		if err != nil {
			logger.Warning("Failed to seed default skills", "dir", cfg.SkillsDir, "error", err)
		} else if len(written) > 0 {
			logger.Info("Seeded default skills", "dir", cfg.SkillsDir, "files", written)
		}
	}

	catalog := registry.NewCatalog()
	loader := content.NewLoader(catalog, v)
	report := loader.Reload(cfg.SkillsDir)
	logger.Always("Skills loaded",
		"dir", cfg.SkillsDir,
		"loaded", report.Loaded,
		"skipped", report.Skipped,
		"took", report.Took)
	for _, msg := range report.Errors {
		logger.Warning("Skipped skill file", "error", msg)
	}

	opts := []engine.Option{engine.WithMessages(messages)}
	var jrnl command.Journal
	if cfg.Journal.Enabled {
		j, err := journal.Open(ctx, cfg.Journal.Config)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer j.Close()
		logger.Info("Journal opened", "driver", cfg.Journal.Driver)
		opts = append(opts, engine.WithRecorder(j))
		jrnl = j
	}

	players := playerdata.NewStore()
	svc := engine.NewService(catalog, players, world, v, opts...)

	handler := command.NewHandler(command.Deps{
		SkillsDir:     cfg.SkillsDir,
		Loader:        loader,
		Catalog:       catalog,
		Engine:        svc,
		Vocab:         v,
		World:         world,
		Messages:      messages,
		Journal:       jrnl,
		Players:       players,
		DefaultPlayer: cfg.Console.DefaultPlayer,
	})

	srv := console.NewServer(&cfg.Console, handler)
	if len(cfg.Console.Operators) == 0 {
		logger.Warning("No console operators configured, remote logins are disabled")
	}
	if len(cfg.Console.WebSocket.AllowedOrigins) == 1 && cfg.Console.WebSocket.AllowedOrigins[0] == "*" {
		logger.Warning("Console WebSocket allows all origins (not recommended for production)")
	}

	if stdin {
		go func() {
			srv.ServeLocal(console.NewStdioClient(os.Stdin, os.Stdout))
			logger.Info("Local session ended")
			stop()
		}()
	}

	g, gctx := errgroup.WithContext(ctx)

	if addr := cfg.Console.TelnetAddress; addr != "" {
		g.Go(func() error {
			return srv.StartTelnet(addr)
		})
	}
	if addr := cfg.Console.WebSocket.Address; addr != "" {
		g.Go(func() error {
			return srv.StartWebSocket(addr)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down console")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	logger.Info("SkillsEngine running",
		"telnet", cfg.Console.TelnetAddress,
		"websocket", cfg.Console.WebSocket.Address,
		"skills", catalog.Current().Registry.Len())

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("SkillsEngine stopped")
	return nil
}

// loadSandbox builds the in-memory host world. A missing file yields an
// empty default world.
func loadSandbox(path string) (*sandbox.World, error) {
	if path == "" {
		return sandbox.NewWorld("world"), nil
	}
	world, err := sandbox.LoadFromYAML(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warning("Sandbox file not found, starting with an empty world", "path", path)
			return sandbox.NewWorld("world"), nil
		}
		return nil, fmt.Errorf("failed to load sandbox: %w", err)
	}
	logger.Info("Sandbox loaded", "path", path, "players", len(world.Players()), "entities", len(world.Entities()))
	return world, nil
}
