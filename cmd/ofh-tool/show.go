// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/openfronthaul/ofh-go/pkg/ofh"
	"github.com/openfronthaul/ofh-go/pkg/ofh/uplane"
)

// decodedMessage is the JSON output of the "show" CLI option.
type decodedMessage struct {
	Accepted bool                   `json:"accepted"`
	Peeked   *ofh.SlotSymbolPoint   `json:"peeked,omitempty"`
	Results  *uplane.DecoderResults `json:"results,omitempty"`
}

// decodeMessage decodes data with a Decoder of this configuration.
func decodeMessage(conf tomlConfig, data []byte) (decodedMessage, error) {
	dec, err := uplane.NewDecoder(conf.decoderConfig())
	if err != nil {
		return decodedMessage{}, err
	}

	out := decodedMessage{Results: new(uplane.DecoderResults)}
	out.Accepted = dec.Decode(out.Results, data)

	if ssp, ok := dec.PeekSlotSymbolPoint(data); ok {
		out.Peeked = &ssp
	}
	if !out.Accepted {
		out.Results = nil
	}
	return out, nil
}

// showMessage for the "show" CLI option.
func showMessage(args []string) {
	if len(args) != 2 {
		printUsage()
	}

	var (
		confFile = args[0]
		input    = args[1]

		data []byte
	)

	conf, err := parseConfig(confFile)
	if err != nil {
		printFatal(err, "Parsing configuration errored")
	}

	if input == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		printFatal(err, "Reading input errored")
	}

	out, err := decodeMessage(conf, data)
	if err != nil {
		printFatal(err, "Creating decoder errored")
	}

	msg, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		printFatal(err, "Marshaling JSON errored")
	}
	fmt.Println(string(msg))
}
