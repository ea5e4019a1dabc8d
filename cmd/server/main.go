// Package main - Entry point for the cloud-quote API server
package main

import (
	"context"
	"flag"
	"log"

	"cloud-quote/cmd/cli/cmd"
	"cloud-quote/internal/config"
	"cloud-quote/internal/logging"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Configuration file")
	addr := flag.String("addr", "", "Server address, overrides the configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		log.Fatal(err)
	}
	defer logging.Sync()

	if err := cmd.Serve(context.Background(), cfg); err != nil {
		log.Fatal(err)
	}
}
