package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/tagspc/tagspc/internal/historian"
	"github.com/tagspc/tagspc/internal/spc"
)

func cmdSPC(args []string) {
	fs := pflag.NewFlagSet("spc", pflag.ExitOnError)
	tag := fs.String("tag", "", "historian tag path to analyze (required)")
	win := addWindowFlags(fs)
	ucl := fs.Float64("ucl", 0, "provided upper control limit (requires --lcl)")
	lcl := fs.Float64("lcl", 0, "provided lower control limit (requires --ucl)")
	target := fs.Float64("target", 0, "target value used as the center line")
	cc := addCommonFlags(fs)
	fs.Parse(args) //nolint:errcheck

	initLogger(os.Stderr)
	if *tag == "" {
		fail("--tag is required")
	}

	cfg := cc.load(fs)
	start, end, _ := win.resolve(time.Now())

	client := historian.New(cfg.Historian)
	points, err := client.QueryTag(context.Background(), *tag, start, end)
	if err != nil {
		fail("Historian query failed: %v", err)
	}

	var ov spc.Overrides
	if fs.Changed("ucl") {
		v := *ucl
		ov.UCL = &v
	}
	if fs.Changed("lcl") {
		v := *lcl
		ov.LCL = &v
	}
	if fs.Changed("target") {
		v := *target
		ov.Target = &v
	}

	rep := spc.Evaluate(*tag, spc.Period{Start: start, End: end}, historian.Numeric(points), ov)
	writeJSON(rep)
}
