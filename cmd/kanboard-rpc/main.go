// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command kanboard-rpc calls one Kanboard API method and prints the result.
//
//	kanboard-rpc [-env file] [-v] [-raw] <method_name> [key=value ...]
//
// Values that parse as JSON are sent as such; anything else is a string.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/luxfi/kanboard"
	"github.com/luxfi/kanboard/internal/config"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("kanboard-rpc: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("kanboard-rpc", flag.ContinueOnError)
	envFile := fs.String("env", "", "load variables from this file instead of ./.env")
	verbose := fs.Bool("v", false, "log the resolved method and timing")
	raw := fs.Bool("raw", false, "print the result exactly as received")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: kanboard-rpc [-env file] [-v] [-raw] <method_name> [key=value ...]")
	}

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	pool := kanboard.NewWorkerPool(cfg.Workers)
	// Returning on ctx does not wait for a call still in flight.
	defer pool.Stop()

	client, err := kanboard.NewFromConfig(cfg.Client, kanboard.WithExecutor(pool))
	if err != nil {
		return err
	}

	name := fs.Arg(0)
	params, err := parseParams(fs.Args()[1:])
	if err != nil {
		return err
	}

	if *verbose {
		method, async := kanboard.ResolveName(name)
		log.Printf("calling %s (async=%v) on %s", method, async, cfg.Client.URL)
	}
	start := time.Now()
	result, err := client.Invoke(ctx, name, params).Wait(ctx)
	if err != nil {
		return err
	}
	if *verbose {
		log.Printf("done in %s", time.Since(start).Round(time.Millisecond))
	}

	return printResult(stdout, result, *raw)
}

// parseParams turns key=value arguments into call parameters.
func parseParams(args []string) (kanboard.Params, error) {
	params := kanboard.Params{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, want key=value", arg)
		}
		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			params[key] = decoded
		} else {
			params[key] = value
		}
	}
	return params, nil
}

func printResult(w io.Writer, result json.RawMessage, raw bool) error {
	if raw {
		_, err := fmt.Fprintf(w, "%s\n", result)
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, result, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}
