// ABOUTME: bootstrap and hash-password subcommands
// ABOUTME: Creates or resets the single admin account used by the back office

package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/2389/portfolio/internal/auth"
	"github.com/2389/portfolio/internal/config"
	"github.com/2389/portfolio/internal/content"
	"github.com/2389/portfolio/internal/store"
)

// passwordEnv supplies the bootstrap password without putting it in argv.
const passwordEnv = "PORTFOLIO_ADMIN_PASSWORD"

type bootstrapArgs struct {
	email    string
	password string
	name     string
}

// parseBootstrapArgs supports both "--flag value" and "--flag=value".
func parseBootstrapArgs(args []string) (bootstrapArgs, error) {
	var out bootstrapArgs
	targets := map[string]*string{
		"--email":    &out.email,
		"--password": &out.password,
		"--name":     &out.name,
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return out, fmt.Errorf("unexpected argument: %s", arg)
		}
		flag, value, hasValue := strings.Cut(arg, "=")
		target, ok := targets[flag]
		if !ok {
			return out, fmt.Errorf("unknown flag: %s", flag)
		}
		if !hasValue {
			if i+1 >= len(args) {
				return out, fmt.Errorf("%s requires a value", flag)
			}
			value = args[i+1]
			i++
		}
		*target = value
	}

	if out.email == "" {
		return out, errors.New("--email flag is required")
	}
	return out, nil
}

// readPassword takes the password from the environment, or the first line of r.
func readPassword(r io.Reader) (string, error) {
	if pw := os.Getenv(passwordEnv); pw != "" {
		return pw, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// runBootstrap creates the admin account, or resets its password if the
// email already exists. A config file with a random session secret is
// written first when none exists.
func runBootstrap(ctx context.Context, argv []string) error {
	args, err := parseBootstrapArgs(argv)
	if err != nil {
		return err
	}
	if args.password == "" {
		if args.password, err = readPassword(os.Stdin); err != nil {
			return err
		}
	}

	in := content.LoginInput{Email: args.email, Password: args.password}
	if err := content.Validate(&in); err != nil {
		var ve *content.ValidationError
		if errors.As(err, &ve) {
			var problems []string
			for _, field := range slices.Sorted(maps.Keys(ve.Fields)) {
				problems = append(problems, field+": "+ve.Fields[field])
			}
			return fmt.Errorf("invalid credentials: %s", strings.Join(problems, ", "))
		}
		return err
	}

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	configPath := getConfigPath()
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeDefaultConfig(configPath); err != nil {
			return err
		}
		green.Printf("  ✓ Created config: %s\n", configPath)
	} else {
		cyan.Printf("  Using existing config: %s\n", configPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := store.Open(ctx, cfg.Database, quiet)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	green.Printf("  ✓ Database: %s\n", describeDatabase(cfg.Database))

	user, err := s.UpsertAdminUser(ctx, in.Email, hash, strings.TrimSpace(args.name))
	if err != nil {
		return fmt.Errorf("saving admin user: %w", err)
	}

	fmt.Println()
	green.Println("  Bootstrap complete!")
	fmt.Println()
	cyan.Println("  Admin account")
	cyan.Println("  -------------")
	fmt.Printf("  ID:    %s\n", user.ID)
	fmt.Printf("  Email: %s\n", user.Email)
	if user.DisplayName != "" {
		fmt.Printf("  Name:  %s\n", user.DisplayName)
	}
	fmt.Println()

	yellow.Println("  Ready to go:")
	fmt.Println("    portfolio serve    # start the server")
	fmt.Printf("    open http://%s/login\n", cfg.Server.HTTPAddr)
	fmt.Println()

	return nil
}

// writeDefaultConfig writes a development config with a fresh session secret.
func writeDefaultConfig(configPath string) error {
	secret, err := randomSecret()
	if err != nil {
		return err
	}

	dataPath := getDataPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	contents := fmt.Sprintf(`# portfolio configuration
# Generated by portfolio bootstrap

env: "development"

server:
  http_addr: "localhost:8080"

database:
  driver: "sqlite"
  path: "%s"

auth:
  jwt_secret: "%s"

logging:
  level: "info"
  format: "text"
`, filepath.Join(dataPath, "portfolio.db"), secret)

	if err := os.WriteFile(configPath, []byte(contents), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// randomSecret returns 48 random bytes, base64 encoded.
func randomSecret() (string, error) {
	b := make([]byte, 48)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// runHashPassword prints a bcrypt hash for a password read from stdin, for
// seeding admin_users by hand.
func runHashPassword() error {
	pw, err := readPassword(os.Stdin)
	if err != nil {
		return err
	}
	if len(pw) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	hash, err := auth.HashPassword(pw)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
