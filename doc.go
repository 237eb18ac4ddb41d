/*
Package extup drives the install workflow for an editor extension built from
source: verify the toolchain, install dependencies, package the extension
artifact, and install that artifact into the editor.

It replaces the historical installer shell script with an explicit pipeline:
each step is a stage with a declared command, the required tools are declared
rather than assumed, and the first failing stage aborts the run with its exit
code (the script's lax behavior remains available as legacy-exit mode).

# Usage

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/hsp3-utils/extup"
	)

	func main() {
		eng, err := extup.New(extup.WithWorkDir("./vscode-ext"))
		if err != nil {
			log.Fatal(err)
		}

		report, err := eng.Run(context.Background())
		if err != nil {
			log.Println(err)
		}
		os.Exit(report.ExitCode())
	}

The core is decoupled from its adapters: command execution goes through the
ports.CommandRunner interface, so tests (and dry runs) script outcomes with
the in-memory adapter instead of spawning processes.
*/
package extup
