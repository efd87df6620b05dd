// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// buildMessage for the "build-cplane" and "build-uplane" CLI options.
func buildMessage(args []string, build func(tomlConfig, messageConf) ([]byte, error)) {
	if len(args) != 3 {
		printUsage()
	}

	var (
		confFile = args[0]
		msgFile  = args[1]
		output   = args[2]
	)

	conf, err := parseConfig(confFile)
	if err != nil {
		printFatal(err, "Parsing configuration errored")
	}

	msg, err := parseMessage(msgFile)
	if err != nil {
		printFatal(err, "Parsing message description errored")
	}

	data, err := build(conf, msg)
	if err != nil {
		printFatal(err, "Building message errored")
	}

	if output == "-" {
		_, err = os.Stdout.Write(data)
	} else {
		err = os.WriteFile(output, data, 0644)
	}
	if err != nil {
		printFatal(err, "Writing message errored")
	}

	log.WithFields(log.Fields{
		"message": msgFile,
		"size":    len(data),
	}).Debug("Built message")
}
