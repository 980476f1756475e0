package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/tagspc/tagspc/internal/config"
	"github.com/tagspc/tagspc/internal/shift"
)

// initLogger installs the default JSON logger. One-shot commands log to
// stderr so stdout carries only the JSON result; serve logs to stdout.
func initLogger(w io.Writer) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

// fail prints an error result to stdout and exits non-zero.
func fail(format string, args ...any) {
	out, _ := json.MarshalIndent(map[string]string{
		"status":  "error",
		"message": fmt.Sprintf(format, args...),
	}, "", "  ")
	fmt.Println(string(out))
	os.Exit(1)
}

// writeJSON prints v indented to stdout.
func writeJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fail("encode output: %v", err)
	}
	fmt.Println(string(out))
}

// commonFlags are the connection flags every subcommand shares. Flag
// values override the config file when explicitly set.
type commonFlags struct {
	configPath *string
	historian  *string
	dataset    *string
}

func addCommonFlags(fs *pflag.FlagSet) commonFlags {
	return commonFlags{
		configPath: fs.String("config", "", "path to config file (optional)"),
		historian:  fs.String("historian", config.DefaultHistorianURL, "historian base URL"),
		dataset:    fs.String("dataset", config.DefaultDataset, "historian dataset name"),
	}
}

// load resolves the effective config: file (or defaults) with explicit
// flag overrides applied on top.
func (c commonFlags) load(fs *pflag.FlagSet) *config.Config {
	cfg := config.Default()
	if *c.configPath != "" {
		loaded, err := config.Load(*c.configPath)
		if err != nil {
			fail("%v", err)
		}
		cfg = loaded
	}
	if fs.Changed("historian") {
		cfg.Historian.BaseURL = *c.historian
	}
	if fs.Changed("dataset") {
		cfg.Historian.Dataset = *c.dataset
	}
	return cfg
}

// windowFlags are the time-range flags of the analysis subcommands.
type windowFlags struct {
	shift *string
	start *string
	end   *string
}

func addWindowFlags(fs *pflag.FlagSet) windowFlags {
	return windowFlags{
		shift: fs.String("shift", "last", "shift window: last, current, day or night"),
		start: fs.String("start", "", "window start, RFC 3339 (requires --end, overrides --shift)"),
		end:   fs.String("end", "", "window end, RFC 3339"),
	}
}

// resolve returns the absolute window plus a shift label. An explicit
// start and end pair wins over the named shift and is labeled "custom".
func (w windowFlags) resolve(now time.Time) (start, end, label string) {
	if *w.start != "" && *w.end != "" {
		return *w.start, *w.end, "custom"
	}
	s, e, err := shift.Resolve(*w.shift, now)
	if err != nil {
		fail("%v", err)
	}
	return s.Format(time.RFC3339), e.Format(time.RFC3339), shift.Label(s)
}

// siteKey extracts the site name from a path like "Enterprise B/Site1".
func siteKey(sitePath string) string {
	parts := strings.Split(strings.TrimRight(sitePath, "/"), "/")
	return parts[len(parts)-1]
}

// siteLayout looks up the equipment layout for a site path.
func siteLayout(cfg *config.Config, sitePath string) config.Site {
	layout, ok := cfg.Sites[siteKey(sitePath)]
	if !ok {
		known := make([]string, 0, len(cfg.Sites))
		for name := range cfg.Sites {
			known = append(known, name)
		}
		fail("Unknown site: %s. Expected one of: %s", siteKey(sitePath), strings.Join(known, ", "))
	}
	return layout
}
