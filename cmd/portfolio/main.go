// ABOUTME: Entry point for the portfolio server
// ABOUTME: Subcommands to serve the site, write a config and manage the admin account

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/2389/portfolio/internal/config"
	"github.com/2389/portfolio/internal/server"
)

// Version is set at build time.
var version = "dev"

const banner = `
                  _    __       _ _
 _ __   ___  _ __| |_ / _| ___ | (_) ___
| '_ \ / _ \| '__| __| |_ / _ \| | |/ _ \
| |_) | (_) | |  | |_|  _| (_) | | | (_) |
| .__/ \___/|_|   \__|_|  \___/|_|_|\___/
|_|
`

// getConfigPath returns the path to the config file.
// Priority: PORTFOLIO_CONFIG env var > XDG_CONFIG_HOME/portfolio/config.yaml > ~/.config/portfolio/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("PORTFOLIO_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml"
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "portfolio", "config.yaml")
}

// getDataPath returns the data directory.
// Priority: XDG_DATA_HOME/portfolio > ~/.local/share/portfolio
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data"
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "portfolio")
}

func usage() {
	fmt.Println("Usage: portfolio <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve                                 Start the web server")
	fmt.Println("  init                                  Create a new config file interactively")
	fmt.Println("  bootstrap --email E [--password P]    Create or reset the admin account")
	fmt.Println("  hash-password                         Print a bcrypt hash of a password read from stdin")
	fmt.Println("  health                                Check server health")
	fmt.Println("  version                               Print the version")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "bootstrap":
		err = runBootstrap(ctx, os.Args[2:])
	case "hash-password":
		err = runHashPassword()
	case "health":
		err = runHealth(ctx)
	case "version":
		fmt.Println(version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging, os.Stdout)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Env:       %s\n", cfg.Env)
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s\n", describeDatabase(cfg.Database))

	if cfg.Tailscale.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("Tailscale: ")
		cyan.Print(cfg.Tailscale.Hostname)
		switch {
		case cfg.Tailscale.Funnel:
			yellow.Print(" [funnel]")
		case cfg.Tailscale.HTTPS:
			yellow.Print(" [https]")
		}
		if cfg.Tailscale.Ephemeral {
			gray.Print(" (ephemeral)")
		}
		fmt.Println()
	} else {
		green.Print("    ▶ ")
		fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	}

	fmt.Println()

	logger.Info("starting portfolio",
		"config", configPath,
		"env", cfg.Env,
		"http_addr", cfg.Server.HTTPAddr,
	)

	srv, err := server.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return srv.Run(ctx)
}

// describeDatabase prints the database location without credentials.
func describeDatabase(db config.DatabaseConfig) string {
	if db.Driver == config.DriverPostgres {
		return "postgres"
	}
	return db.Driver + " " + db.Path
}

// healthURL is the readiness endpoint of a locally listening server.
// Tailscale listeners are not reachable through server.http_addr.
func healthURL(cfg *config.Config) (string, error) {
	if cfg.Tailscale.Enabled {
		return "", errors.New("health check is not supported with tailscale enabled; query https://<tailnet host>/health/ready instead")
	}
	if cfg.Server.HTTPAddr == "" {
		return "", errors.New("server.http_addr is not set")
	}
	return fmt.Sprintf("http://%s/health/ready", cfg.Server.HTTPAddr), nil
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url, err := healthURL(cfg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}
