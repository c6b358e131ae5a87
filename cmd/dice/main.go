// Package main reports the exact and sampled distribution of a die.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	dicecmd "github.com/louisbranch/fairdice/internal/cmd/dice"
	"github.com/louisbranch/fairdice/internal/platform/config"
)

func main() {
	cfg, err := dicecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	log.SetPrefix("[DICE] ")
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dicecmd.RunWithTelemetry(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(dicecmd.Fail(os.Stderr, cfg, err))
	}
}
