// Package config handles configuration loading for the portfolio server.
//
// # Overview
//
// Configuration comes from a YAML or TOML file (chosen by extension), with
// environment variables layered on top. Load validates the result and fails
// on anything that would make the server unsafe to start, most importantly a
// missing JWT secret. There is no built-in secret.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from PORTFOLIO_CONFIG environment variable
//  2. ~/.config/portfolio/config.yaml
//
// # Environment Variables
//
// A .env file in the working directory, or next to the config file, is loaded
// first. It never overrides variables already set in the process.
//
// File values can reference variables:
//
//	auth:
//	  jwt_secret: "${PORTFOLIO_JWT_SECRET}"
//
// Unset variables expand to the empty string.
//
// Selected variables also override file values directly, so a container can
// run with no config file at all:
//
//	PORTFOLIO_ENV=production
//	PORTFOLIO_HTTP_ADDR=:8080
//	PORTFOLIO_JWT_SECRET=...
//	DATABASE_URL=postgres://...
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	server:
//	  shutdown_timeout: "10s"
//	auth:
//	  token_ttl: "168h"
//
// # Environments
//
// env is "development" (default) or "production". Production marks the
// session cookie Secure.
package config
