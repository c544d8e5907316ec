// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ManuGH/rewardtv/internal/config"
	"github.com/ManuGH/rewardtv/internal/version"
)

func runConfigCLI(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage(stdout)
		return 0
	}

	switch args[0] {
	case "init":
		return runConfigInit(args[1:], stdout, stderr)
	case "validate":
		return runConfigValidate(args[1:], stdout, stderr)
	case "dump":
		return runConfigDump(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown subcommand: %s\n\n", args[0])
		printConfigUsage(stderr)
		return 2
	}
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  rewardtv config init --account <id> [--file|-f config.yaml] [--force]")
	fmt.Fprintln(w, "  rewardtv config validate [--file|-f config.yaml]")
	fmt.Fprintln(w, "  rewardtv config dump [--file|-f config.yaml]")
}

func runConfigInit(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rewardtv config init", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var file, account string
	var force bool
	fs.StringVar(&file, "file", defaultConfigPath, "path to write")
	fs.StringVar(&file, "f", defaultConfigPath, "path to write (shorthand)")
	fs.StringVar(&account, "account", "", "ledger account id, e.g. 0.0.12345")
	fs.BoolVar(&force, "force", false, "overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if strings.TrimSpace(account) == "" {
		fmt.Fprintln(stderr, "Error: --account is required")
		return 2
	}

	if err := config.WriteDefault(file, strings.TrimSpace(account), force); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			fmt.Fprintf(stderr, "%v (use --force to overwrite)\n", err)
			return 1
		}
		fmt.Fprintf(stderr, "Failed to write config: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Wrote %s\n", file)
	return 0
}

func configFileFlag(name string, args []string, stderr io.Writer) (string, bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var file string
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return "", false
	}
	return resolveConfigPath(file), true
}

func runConfigValidate(args []string, stdout, stderr io.Writer) int {
	path, ok := configFileFlag("rewardtv config validate", args, stderr)
	if !ok {
		return 2
	}
	if path == "" {
		fmt.Fprintln(stderr, "Error: --file is required (no default config found)")
		return 2
	}
	if _, err := config.NewLoader(path, version.Version).Load(); err != nil {
		fmt.Fprintf(stderr, "Configuration error in %s:\n  %v\n", path, err)
		return 1
	}
	fmt.Fprintf(stdout, "%s is valid\n", path)
	return 0
}

// runConfigDump prints the effective configuration: defaults, file and
// environment merged.
func runConfigDump(args []string, stdout, stderr io.Writer) int {
	path, ok := configFileFlag("rewardtv config dump", args, stderr)
	if !ok {
		return 2
	}
	cfg, err := config.NewLoader(path, version.Version).Load()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to encode YAML: %v\n", err)
		return 1
	}
	_, _ = stdout.Write(data)
	return 0
}
