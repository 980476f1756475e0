package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/tagspc/tagspc/internal/historian"
	"github.com/tagspc/tagspc/internal/oee"
)

func cmdOEE(args []string) {
	fs := pflag.NewFlagSet("oee", pflag.ExitOnError)
	line := fs.String("line", "", "filling line tag path, e.g. Site1/fillerproduction/fillingline01 (required)")
	win := addWindowFlags(fs)
	cc := addCommonFlags(fs)
	fs.Parse(args) //nolint:errcheck

	initLogger(os.Stderr)
	if *line == "" {
		fail("--line is required")
	}

	cfg := cc.load(fs)
	start, end, label := win.resolve(time.Now())

	client := historian.New(cfg.Historian)
	rep, err := oee.NewAnalyzer(client).Analyze(context.Background(), *line, start, end, label)
	if err != nil {
		fail("%v", err)
	}
	writeJSON(rep)
}
