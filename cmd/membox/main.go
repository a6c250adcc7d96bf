package main

import (
	"fmt"
	"os"

	"github.com/entl/membox/internal/cli"
	"github.com/entl/membox/internal/client"
	"github.com/entl/membox/internal/config"
	"github.com/entl/membox/internal/logging"
)

// Version is set at build time
var Version = "dev"

func main() {
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Pretty: true,
	})

	c := client.New(cfg.ServerURL)
	rootCmd := cli.NewRootCommand(Version, cfg, c)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
