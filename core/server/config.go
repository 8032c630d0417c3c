package server

import (
	"errors"
	"strconv"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey protects the admin and integrity routes. Empty disables the check.
	ApiKey string `mapstructure:"api_key" default:""`
	// AllowOrigin is sent as Access-Control-Allow-Origin.
	AllowOrigin string `mapstructure:"allow_origin" default:"*"`
	// ShutdownSeconds bounds graceful shutdown.
	ShutdownSeconds int `mapstructure:"shutdown_seconds" default:"10"`
}

// Validate checks the server settings.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return errors.New("server port must be a number between 1 and 65535")
	}
	if c.AllowOrigin == "" {
		return errors.New("server allow_origin must not be empty")
	}
	return nil
}

// AdminProtected reports whether protected routes require the API key.
func (c Config) AdminProtected() bool {
	return c.ApiKey != ""
}
