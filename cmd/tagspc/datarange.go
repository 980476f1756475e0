package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/tagspc/tagspc/internal/datarange"
	"github.com/tagspc/tagspc/internal/historian"
)

func cmdRange(args []string) {
	fs := pflag.NewFlagSet("range", pflag.ExitOnError)
	site := fs.String("site", "", `site tag path, e.g. "Enterprise B/Site1" (required)`)
	cc := addCommonFlags(fs)
	fs.Parse(args) //nolint:errcheck

	initLogger(os.Stderr)
	if *site == "" {
		fail("--site is required")
	}

	cfg := cc.load(fs)
	layout := siteLayout(cfg, *site)
	if len(layout.FillingLines) == 0 {
		fail("Site %s has no filling lines configured", siteKey(*site))
	}

	client := historian.New(cfg.Historian)
	rep, err := datarange.Discover(context.Background(), client, *site, layout, time.Now())
	if err != nil {
		fail("Historian query failed: %v", err)
	}
	writeJSON(rep)
}
