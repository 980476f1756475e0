package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/tagspc/tagspc/internal/historian"
	"github.com/tagspc/tagspc/internal/states"
)

func cmdStates(args []string) {
	fs := pflag.NewFlagSet("states", pflag.ExitOnError)
	site := fs.String("site", "", `site tag path, e.g. "Enterprise B/Site1" (required)`)
	win := addWindowFlags(fs)
	cc := addCommonFlags(fs)
	fs.Parse(args) //nolint:errcheck

	initLogger(os.Stderr)
	if *site == "" {
		fail("--site is required")
	}

	// Snapshots default to the in-progress shift, not the last one.
	if !fs.Changed("shift") {
		*win.shift = "current"
	}

	cfg := cc.load(fs)
	layout := siteLayout(cfg, *site)
	start, end, _ := win.resolve(time.Now())

	client := historian.New(cfg.Historian)
	rep, err := states.Snapshot(context.Background(), client, *site, layout, start, end)
	if err != nil {
		fail("Historian query failed: %v", err)
	}
	writeJSON(rep)
}
