package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ImageTranslator/internal/cli/bootstrap"
	"ImageTranslator/internal/cli/commands"
	"ImageTranslator/internal/config"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfg := config.NewConfig()

	if cfg.Version {
		printVersion()
		return
	}
	bootstrap.Version = version

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	exitCode := commands.Dispatch(ctx, cfg, flag.Args())
	if exitCode == 0 {
		return
	}
	os.Exit(exitCode)
}

func printVersion() {
	fmt.Printf("Image Translator CLI\nVersion: %s\nBuild date: %s\n", version, buildDate)
}
