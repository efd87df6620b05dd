// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// ofh-tool builds, inspects and monitors Open Fronthaul messages.
package main

import (
	"fmt"
	"os"
)

// printUsage of ofh-tool and exit with an error code afterwards.
func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, "Usage of %s build-cplane|build-uplane|show|monitor:\n\n", os.Args[0])

	_, _ = fmt.Fprintf(os.Stderr, "%s build-cplane config.toml message.toml -|filename\n", os.Args[0])
	_, _ = fmt.Fprintf(os.Stderr, "  Builds a C-Plane message of section type 0, 1 or 3 as described in the\n")
	_, _ = fmt.Fprintf(os.Stderr, "  message file and writes it to stdout (-) or the given file.\n\n")

	_, _ = fmt.Fprintf(os.Stderr, "%s build-uplane config.toml message.toml -|filename\n", os.Args[0])
	_, _ = fmt.Fprintf(os.Stderr, "  Builds a U-Plane message carrying a synthesized tone as described in the\n")
	_, _ = fmt.Fprintf(os.Stderr, "  message file and writes it to stdout (-) or the given file.\n\n")

	_, _ = fmt.Fprintf(os.Stderr, "%s show config.toml -|filename\n", os.Args[0])
	_, _ = fmt.Fprintf(os.Stderr, "  Decodes a U-Plane message and prints it as JSON.\n\n")

	_, _ = fmt.Fprintf(os.Stderr, "%s monitor config.toml\n", os.Args[0])
	_, _ = fmt.Fprintf(os.Stderr, "  Watches the spool directory for captured U-Plane messages, decodes and\n")
	_, _ = fmt.Fprintf(os.Stderr, "  stores them and serves the captures over HTTP.\n\n")

	os.Exit(1)
}

// printFatal of an error with a short context description and exits afterwards.
func printFatal(err error, msg string) {
	_, _ = fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
	}

	switch os.Args[1] {
	case "build-cplane":
		buildMessage(os.Args[2:], buildCplaneMessage)

	case "build-uplane":
		buildMessage(os.Args[2:], buildUplaneMessage)

	case "show":
		showMessage(os.Args[2:])

	case "monitor":
		startMonitor(os.Args[2:])

	default:
		printUsage()
	}
}
