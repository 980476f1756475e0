// tagspc analyzes process historian data for the bottling plant: SPC rule
// evaluation, production and OEE analysis, equipment state snapshots and
// shift report rendering. One-shot subcommands print a JSON result to
// stdout; serve runs a continuous monitor with an HTTP API.
package main

import (
	"fmt"
	"os"
)

const usage = `tagspc - SPC and production analysis for historian process data

Usage:
  tagspc <command> [flags]

Commands:
  spc      Evaluate Western Electric Rules for one tag over a time window
  oee      Production and OEE analysis for a filling line
  states   Snapshot equipment states and line metrics for a site
  range    Discover the available data range for a site
  render   Convert a shift report markdown file to styled HTML
  serve    Run the continuous SPC monitor with HTTP API and websocket stream

Run "tagspc <command> --help" for command flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "spc":
		cmdSPC(args)
	case "oee":
		cmdOEE(args)
	case "states":
		cmdStates(args)
	case "range":
		cmdRange(args)
	case "render":
		cmdRender(args)
	case "serve":
		cmdServe(args)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "tagspc: unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
}
