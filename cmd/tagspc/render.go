package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/tagspc/tagspc/internal/render"
)

func cmdRender(args []string) {
	fs := pflag.NewFlagSet("render", pflag.ExitOnError)
	input := fs.String("input", "", "path to the markdown shift report (required)")
	output := fs.String("output", "", "path for the HTML output (required)")
	fs.Parse(args) //nolint:errcheck

	initLogger(os.Stderr)
	if *input == "" || *output == "" {
		fail("--input and --output are required")
	}

	md, err := os.ReadFile(*input)
	if err != nil {
		fail("Input file not found: %s", *input)
	}

	rep := render.Parse(string(md))
	page, err := render.HTML(rep, time.Now())
	if err != nil {
		fail("%v", err)
	}

	if dir := filepath.Dir(*output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fail("create output directory: %v", err)
		}
	}
	if err := os.WriteFile(*output, []byte(page), 0o644); err != nil {
		fail("write output: %v", err)
	}

	writeJSON(map[string]string{
		"status": "ok",
		"output": *output,
		"title":  rep.Metadata.Title,
		"site":   rep.Metadata.Site,
	})
}
