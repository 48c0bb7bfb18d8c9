// ABOUTME: Interactive init subcommand
// ABOUTME: Prompts for settings and writes a YAML config with a fresh session secret

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("portfolio configuration setup")
	fmt.Println("=============================")
	fmt.Println()

	defaultDBPath := filepath.Join(getDataPath(), "portfolio.db")

	outputFile := prompt(reader, "Config file path", getConfigPath())

	if _, err := os.Stat(outputFile); err == nil {
		if !yes(prompt(reader, "File exists. Overwrite?", "no")) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println("\n--- Site ---")
	siteTitle := prompt(reader, "Site title", "Portfolio")
	siteOwner := prompt(reader, "Owner name", "")
	siteTagline := prompt(reader, "Tagline", "")
	env := prompt(reader, "Environment (development/production)", "development")

	fmt.Println("\n--- Server ---")
	httpAddr := prompt(reader, "HTTP address", "localhost:8080")

	fmt.Println("\n--- Database ---")
	driver := prompt(reader, "Driver (sqlite/sqlite3/postgres)", "sqlite")
	var dbPath, dbURL string
	if driver == "postgres" {
		dbURL = prompt(reader, "Postgres URL (or ${DATABASE_URL})", "${DATABASE_URL}")
	} else {
		dbPath = prompt(reader, "SQLite database path", defaultDBPath)
	}

	fmt.Println("\n--- Tailscale ---")
	tailscaleEnabled := yes(prompt(reader, "Enable Tailscale?", "no"))
	var tsHostname, tsAuthKey string
	var tsEphemeral, tsHTTPS, tsFunnel bool
	if tailscaleEnabled {
		tsHostname = prompt(reader, "Tailscale hostname", "portfolio")
		tsAuthKey = prompt(reader, "Tailscale auth key (leave empty to use TS_AUTHKEY)", "")
		tsEphemeral = yes(prompt(reader, "Ephemeral node?", "no"))
		tsFunnel = yes(prompt(reader, "Enable Funnel (public HTTPS)?", "no"))
		if !tsFunnel {
			tsHTTPS = yes(prompt(reader, "Serve tailnet HTTPS with Tailscale certs?", "no"))
		}
	}

	fmt.Println("\n--- Contact notifications ---")
	slackURL := prompt(reader, "Slack webhook URL (optional)", "")

	fmt.Println("\n--- Logging ---")
	logLevel := prompt(reader, "Log level (debug/info/warn/error)", "info")
	logFormat := prompt(reader, "Log format (text/json)", "text")

	secret, err := randomSecret()
	if err != nil {
		return err
	}

	var cfg strings.Builder
	cfg.WriteString("# portfolio configuration\n")
	cfg.WriteString("# Generated by portfolio init\n\n")
	fmt.Fprintf(&cfg, "env: %q\n\n", env)

	cfg.WriteString("site:\n")
	fmt.Fprintf(&cfg, "  title: %q\n", siteTitle)
	fmt.Fprintf(&cfg, "  owner: %q\n", siteOwner)
	fmt.Fprintf(&cfg, "  tagline: %q\n\n", siteTagline)

	cfg.WriteString("server:\n")
	fmt.Fprintf(&cfg, "  http_addr: %q\n", httpAddr)
	cfg.WriteString("  shutdown_timeout: \"10s\"\n\n")

	cfg.WriteString("database:\n")
	fmt.Fprintf(&cfg, "  driver: %q\n", driver)
	if dbURL != "" {
		fmt.Fprintf(&cfg, "  url: %q\n\n", dbURL)
	} else {
		fmt.Fprintf(&cfg, "  path: %q\n\n", dbPath)
	}

	cfg.WriteString("auth:\n")
	fmt.Fprintf(&cfg, "  jwt_secret: %q\n", secret)
	cfg.WriteString("  token_ttl: \"168h\"\n\n")

	cfg.WriteString("tailscale:\n")
	fmt.Fprintf(&cfg, "  enabled: %t\n", tailscaleEnabled)
	if tailscaleEnabled {
		fmt.Fprintf(&cfg, "  hostname: %q\n", tsHostname)
		if tsAuthKey != "" {
			fmt.Fprintf(&cfg, "  auth_key: %q\n", tsAuthKey)
		}
		fmt.Fprintf(&cfg, "  ephemeral: %t\n", tsEphemeral)
		fmt.Fprintf(&cfg, "  https: %t\n", tsHTTPS)
		fmt.Fprintf(&cfg, "  funnel: %t\n", tsFunnel)
	}
	cfg.WriteString("\n")

	if slackURL != "" {
		cfg.WriteString("contact:\n")
		fmt.Fprintf(&cfg, "  slack_webhook_url: %q\n\n", slackURL)
	}

	cfg.WriteString("logging:\n")
	fmt.Fprintf(&cfg, "  level: %q\n", logLevel)
	fmt.Fprintf(&cfg, "  format: %q\n", logFormat)

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	// The file holds the session secret.
	if err := os.WriteFile(outputFile, []byte(cfg.String()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	fmt.Printf("\nConfig written to %s\n", outputFile)
	fmt.Println("\nNext steps:")
	fmt.Println("  portfolio bootstrap --email you@example.com")
	fmt.Println("  portfolio serve")

	return nil
}

func yes(answer string) bool {
	answer = strings.ToLower(answer)
	return answer == "yes" || answer == "y"
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", question, defaultVal)
	} else {
		fmt.Printf("%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		// On EOF or error, return default
		fmt.Println()
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}
