// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads client settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/luxfi/kanboard"
)

const (
	defaultUsername = "jsonrpc"
	defaultWorkers  = 4
)

// Config holds the client settings and the size of the async worker pool.
type Config struct {
	Client  kanboard.Config
	Workers int
}

// Load reads the KANBOARD_* variables. Files named in envFiles are loaded
// first without overriding variables already set; with none given, ./.env is
// loaded if present.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			envFiles = []string{".env"}
		}
	}
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return Config{}, fmt.Errorf("load env: %w", err)
		}
	}

	password := envOr("KANBOARD_PASSWORD", "")
	if password == "" {
		password = envOr("KANBOARD_TOKEN", "")
	}

	cfg := Config{
		Client: kanboard.Config{
			URL:                        envOr("KANBOARD_URL", ""),
			Username:                   envOr("KANBOARD_USERNAME", defaultUsername),
			Password:                   password,
			AuthHeader:                 envOr("KANBOARD_AUTH_HEADER", kanboard.DefaultAuthHeader),
			CAFile:                     envOr("KANBOARD_CAFILE", ""),
			Insecure:                   boolEnv("KANBOARD_INSECURE", false),
			IgnoreHostnameVerification: boolEnv("KANBOARD_IGNORE_HOSTNAME_VERIFICATION", false),
			UserAgent:                  envOr("KANBOARD_USER_AGENT", kanboard.DefaultUserAgent),
		},
		Workers: defaultWorkers,
	}

	if raw := envOr("KANBOARD_TIMEOUT", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return cfg, fmt.Errorf("KANBOARD_TIMEOUT: %w", err)
		}
		cfg.Client.Timeout = d
	}
	if raw := envOr("KANBOARD_WORKERS", ""); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return cfg, fmt.Errorf("KANBOARD_WORKERS: invalid value %q", raw)
		}
		cfg.Workers = v
	}
	return cfg, nil
}

// Validate reports the first missing required setting.
func (c Config) Validate() error {
	switch {
	case c.Client.URL == "":
		return errors.New("KANBOARD_URL is required")
	case c.Client.Password == "":
		return errors.New("KANBOARD_PASSWORD or KANBOARD_TOKEN is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		switch strings.ToLower(raw) {
		case "1", "true", "yes", "y":
			return true
		case "0", "false", "no", "n":
			return false
		}
	}
	return fallback
}
