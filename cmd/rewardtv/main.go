// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command rewardtv plays ads and content from a local library and earns
// ledger rewards for watching them.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ManuGH/rewardtv/internal/config"
	xglog "github.com/ManuGH/rewardtv/internal/log"
	"github.com/ManuGH/rewardtv/internal/version"
)

const defaultConfigPath = "/etc/rewardtv/config.yaml"

// command is one CLI subcommand. run receives the loaded configuration.
type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *cliEnv, args []string) int
}

// cliEnv carries the process-wide state of one invocation.
type cliEnv struct {
	cfg    config.AppConfig
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

var commands = []command{
	{"watch", "run the interactive player (default)", runWatch},
	{"library", "list playable content", runLibrary},
	{"benefits", "show the active benefit", runBenefits},
	{"redemptions", "list benefits that can be redeemed", runRedemptions},
	{"redeem", "redeem a benefit: redeem <type>", runRedeem},
	{"badges", "list owned and available badges", runBadges},
	{"balance", "show the token balance", runBalance},
	{"journal", "inspect or reconcile the local reward journal", runJournal},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "version", "--version", "-version":
			fmt.Fprintln(stdout, version.String())
			return 0
		case "config":
			return runConfigCLI(args[1:], stdout, stderr)
		case "help", "-h", "--help":
			printUsage(stdout)
			return 0
		}
	}

	fs := flag.NewFlagSet("rewardtv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config file (YAML)")
	fs.Usage = func() { printUsage(stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rest := fs.Args()
	name := "watch"
	if len(rest) > 0 {
		name, rest = rest[0], rest[1:]
	}
	cmd, ok := lookupCommand(name)
	if !ok {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", name)
		printUsage(stderr)
		return 2
	}

	xglog.Configure(xglog.Config{Level: "info", Service: "rewardtv", Version: version.Version})
	logger := xglog.WithComponent("cli")

	path := resolveConfigPath(*configPath)
	cfg, err := config.NewLoader(path, version.Version).Load()
	if err != nil {
		logger.Error().Err(err).
			Str(xglog.FieldEvent, "config.load_failed").
			Str(xglog.FieldPath, path).
			Msg("failed to load configuration")
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		if path == "" {
			fmt.Fprintln(stderr, "Hint: create one with `rewardtv config init --account <id>`")
		}
		return 1
	}
	xglog.Configure(xglog.Config{Level: cfg.Logging.Level, Service: "rewardtv", Version: cfg.Version})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	return cmd.run(ctx, &cliEnv{cfg: cfg, stdin: stdin, stdout: stdout, stderr: stderr}, rest)
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// resolveConfigPath prefers the flag, then REWARDTV_CONFIG, then the system
// default if it exists. Empty means defaults plus environment only.
func resolveConfigPath(flagValue string) string {
	if p := strings.TrimSpace(flagValue); p != "" {
		return p
	}
	if p := strings.TrimSpace(config.ParseString(config.EnvPrefix+"CONFIG", "")); p != "" {
		return p
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rewardtv [--config file] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-12s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(w, "  %-12s %s\n", "config", "init | validate | dump")
	fmt.Fprintf(w, "  %-12s %s\n", "version", "print version and exit")
}
