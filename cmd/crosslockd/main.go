// Package main provides the crosslockd daemon - a cross-chain HTLC swap
// engine with a JSON-RPC API.
package main

import (
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmossdk.io/math"

	"github.com/crosslock-exchange/crosslock/internal/config"
	"github.com/crosslock-exchange/crosslock/internal/engine"
	"github.com/crosslock-exchange/crosslock/internal/identity"
	"github.com/crosslock-exchange/crosslock/internal/rpc"
	"github.com/crosslock-exchange/crosslock/internal/storage"
	"github.com/crosslock-exchange/crosslock/pkg/logging"
)

var (
	version = "0.1.0-dev"
	commit  = "unknown"
)

var (
	errMissingAdmin = errors.New("engine.admin must be set in config or via --admin")
	errBadDeposit   = errors.New("engine.minimum_safety_deposit must be a non-negative integer")
)

func main() {
	var (
		dataDir     = flag.String("data-dir", "~/.crosslock", "Data directory")
		apiAddr     = flag.String("api", "", "JSON-RPC API address, overrides config")
		admin       = flag.String("admin", "", "Admin address, overrides config (first boot only)")
		logLevel    = flag.String("log-level", "", "Log level (debug, info, warn, error)")
		showVersion = flag.Bool("version", false, "Show version and exit")
	)
	flag.Parse()

	// Set up logging (initial, may be overridden by config)
	log := logging.New(&logging.Config{
		Level:      *logLevel,
		TimeFormat: time.TimeOnly,
	})
	logging.SetDefault(log)

	if *showVersion {
		log.Infof("crosslockd %s (commit: %s)", version, commit)
		os.Exit(0)
	}

	// Load or create config file
	cfg, err := config.Load(*dataDir)
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// CLI flags take precedence over config file
	if *apiAddr != "" {
		cfg.API.ListenAddr = *apiAddr
	}
	if *admin != "" {
		cfg.Engine.Admin = *admin
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	cfg.Storage.DataDir = *dataDir

	log = logging.New(&logging.Config{
		Level:      cfg.Logging.Level,
		TimeFormat: time.TimeOnly,
	})
	logging.SetDefault(log)

	log.Info("Config loaded", "path", config.ConfigPath(*dataDir))

	// Initialize storage
	store, err := storage.New(&storage.Config{DataDir: cfg.Storage.DataDir})
	if err != nil {
		log.Fatal("Failed to initialize storage", "error", err)
	}
	defer store.Close()
	log.Info("Storage initialized", "dir", cfg.Storage.DataDir)

	// Identity validation for the configured address scheme
	validator := identity.New(cfg.Engine.AddressPrefix)

	// Seed the engine policy on first boot. The persisted row wins on
	// every later start; config_update is the only way to change it.
	defaults, err := policyDefaults(cfg, validator)
	if err != nil {
		log.Fatal("Invalid engine defaults", "error", err)
	}
	if err := store.EnsurePolicy(defaults); err != nil {
		log.Fatal("Failed to seed policy", "error", err)
	}

	eng := engine.New(store, validator)

	policy, err := eng.Policy()
	if err != nil {
		log.Fatal("Failed to load policy", "error", err)
	}
	log.Info("Engine ready",
		"admin", policy.Admin,
		"min_timelock", policy.MinTimelockDuration,
		"max_timelock", policy.MaxTimelockDuration,
		"paused", policy.Paused)

	// Start the RPC server
	rpc.Version = version
	server := rpc.NewServer(eng, store)
	if err := server.Start(cfg.API.ListenAddr); err != nil {
		log.Fatal("Failed to start RPC server", "error", err)
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("Shutting down", "signal", sig.String())

	if err := server.Stop(); err != nil {
		log.Error("RPC server shutdown error", "error", err)
	}
}

// policyDefaults builds the first-boot policy from the daemon config.
func policyDefaults(cfg *config.Config, validator *identity.Validator) (storage.Policy, error) {
	if cfg.Engine.Admin == "" {
		return storage.Policy{}, errMissingAdmin
	}
	if err := validator.Validate(cfg.Engine.Admin); err != nil {
		return storage.Policy{}, err
	}

	defaults := storage.DefaultPolicy(cfg.Engine.Admin)

	if cfg.Engine.MinimumSafetyDeposit != "" {
		deposit, ok := math.NewIntFromString(cfg.Engine.MinimumSafetyDeposit)
		if !ok || deposit.IsNegative() {
			return storage.Policy{}, errBadDeposit
		}
		defaults.MinimumSafetyDeposit = deposit
	}
	if cfg.Engine.MinTimelockDuration > 0 {
		defaults.MinTimelockDuration = cfg.Engine.MinTimelockDuration
	}
	if cfg.Engine.MaxTimelockDuration > 0 {
		defaults.MaxTimelockDuration = cfg.Engine.MaxTimelockDuration
	}

	return defaults, nil
}
