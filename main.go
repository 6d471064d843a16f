package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/ccollins476ad/pixora/settings"
	log "github.com/sirupsen/logrus"
)

func printFatalError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

func main() {
	cfg, err := parseArgs(os.Args[0], os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		printFatalError(err)
		os.Exit(1)
	}

	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sh := NewShell(cfg, settings.Load(cfg.ConfigPath))
	sh.applyConfig()

	if cfg.URL != "" {
		sh.Submit(ctx, cfg.URL)
	} else {
		if sh.settings.AutoDownload {
			log.Infof("auto-download enabled: paste image URLs, one per line")
		}
		err = sh.ReadPasted(ctx, os.Stdin)
		if err != nil && !errors.Is(err, context.Canceled) {
			printFatalError(err)
		}
	}

	fmt.Println(sh.History())

	if sh.Failures() > 0 {
		os.Exit(2)
	}
}
