// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"math"

	"github.com/BurntSushi/toml"

	"github.com/openfronthaul/ofh-go/pkg/ofh"
	"github.com/openfronthaul/ofh-go/pkg/ofh/cplane"
	"github.com/openfronthaul/ofh-go/pkg/ofh/iqcomp"
	"github.com/openfronthaul/ofh-go/pkg/ofh/uplane"
)

// messageConf describes a message to be built.
type messageConf struct {
	// Section is one of "radio-channel", "idle-guard" or "prach" for C-Plane
	// messages and ignored for U-Plane messages.
	Section string

	Direction ofh.DataDirection
	SFN       uint16
	Slot      uint16
	Filter    uint8
	Symbol    uint8

	Fields      sectionConf `toml:"fields"`
	Compression ofh.CompressionParams

	TimeOffset      uint16 `toml:"time-offset"`
	FFTSize         uint16 `toml:"fft-size"`
	FrequencyOffset int32  `toml:"frequency-offset"`

	Tone toneConf
}

// sectionConf describes the common section fields.
type sectionConf struct {
	Id         uint16
	PRBStart   uint16 `toml:"prb-start"`
	NofPRB     uint16 `toml:"nof-prb"`
	REMask     uint16 `toml:"re-mask"`
	NofSymbols uint8  `toml:"nof-symbols"`
}

// toneConf describes the IQ samples of a U-Plane message, a single complex
// tone of the given amplitude and period in subcarriers.
type toneConf struct {
	Amplitude float64
	Period    float64
}

func parseMessage(filename string) (msg messageConf, err error) {
	_, err = toml.DecodeFile(filename, &msg)
	return
}

func (msg messageConf) header(conf tomlConfig) cplane.RadioApplicationHeader {
	return cplane.RadioApplicationHeader{
		Direction:   msg.Direction,
		Slot:        ofh.NewSlotPoint(conf.RU.SCS.Numerology(), msg.SFN, msg.Slot),
		FilterIndex: ofh.FilterIndex(msg.Filter),
		StartSymbol: msg.Symbol,
	}
}

func (msg messageConf) commonFields() cplane.CommonSectionFields {
	return cplane.CommonSectionFields{
		SectionID:  msg.Fields.Id,
		PRBStart:   msg.Fields.PRBStart,
		NofPRB:     uint8(msg.Fields.NofPRB),
		REMask:     msg.Fields.REMask,
		NofSymbols: msg.Fields.NofSymbols,
	}
}

func (msg messageConf) idleGuardParams(conf tomlConfig) cplane.IdleGuardParams {
	return cplane.IdleGuardParams{
		Header:       msg.header(conf),
		Section:      msg.commonFields(),
		TimeOffset:   msg.TimeOffset,
		FFTSize:      msg.FFTSize,
		SCS:          conf.RU.SCS,
		CyclicPrefix: conf.RU.CyclicPrefix,
	}
}

// buildCplaneMessage validates and encodes a C-Plane message.
func buildCplaneMessage(conf tomlConfig, msg messageConf) ([]byte, error) {
	b := cplane.NewBuilder(conf.Compression.header())
	buf := make([]byte, cplane.PRACHMessageSize)

	if msg.Fields.NofPRB > math.MaxUint8 {
		return nil, fmt.Errorf("fields.nof-prb: %d exceeds 8 bit", msg.Fields.NofPRB)
	}

	switch msg.Section {
	case "radio-channel":
		params := cplane.RadioChannelParams{
			Header:      msg.header(conf),
			Section:     msg.commonFields(),
			Compression: msg.Compression,
		}
		if err := params.CheckValid(); err != nil {
			return nil, err
		}
		return buf[:b.BuildRadioChannelMessage(buf, params)], nil

	case "idle-guard":
		params := msg.idleGuardParams(conf)
		if err := params.CheckValid(); err != nil {
			return nil, err
		}
		return buf[:b.BuildIdleGuardMessage(buf, params)], nil

	case "prach":
		params := cplane.PRACHParams{
			IdleGuardParams: msg.idleGuardParams(conf),
			FrequencyOffset: msg.FrequencyOffset,
			Compression:     msg.Compression,
		}
		if err := params.CheckValid(); err != nil {
			return nil, err
		}
		return buf[:b.BuildPRACHMessage(buf, params)], nil

	default:
		return nil, fmt.Errorf("unknown section %q", msg.Section)
	}
}

// tone synthesizes nofPRB PRBs of IQ samples.
func (t toneConf) tone(nofPRB uint16) []complex64 {
	period := t.Period
	if period == 0 {
		period = ofh.NofSubcarriersPerRB
	}

	iq := make([]complex64, int(nofPRB)*ofh.NofSubcarriersPerRB)
	for i := range iq {
		phase := 2 * math.Pi * float64(i) / period
		iq[i] = complex(float32(t.Amplitude*math.Cos(phase)), float32(t.Amplitude*math.Sin(phase)))
	}
	return iq
}

// buildUplaneMessage validates and encodes a U-Plane message carrying a tone.
func buildUplaneMessage(conf tomlConfig, msg messageConf) ([]byte, error) {
	params := uplane.MessageParams{
		Direction:   msg.Direction,
		Slot:        ofh.NewSlotPoint(conf.RU.SCS.Numerology(), msg.SFN, msg.Slot),
		FilterIndex: ofh.FilterIndex(msg.Filter),
		StartPRB:    msg.Fields.PRBStart,
		NofPRB:      msg.Fields.NofPRB,
		SymbolID:    msg.Symbol,
		SectionType: ofh.SectionType1,
		Compression: conf.Compression.header().Resolve(msg.Compression),
	}
	if err := params.CheckValid(); err != nil {
		return nil, err
	}

	selector := iqcomp.NewSelector()
	if !selector.Supports(params.Compression.Type) {
		return nil, fmt.Errorf("compression %v is not implemented", params.Compression.Type)
	}
	if msg.Tone.Amplitude < 0 || msg.Tone.Amplitude > 1 {
		return nil, fmt.Errorf("tone.amplitude: %v is outside [0, 1]", msg.Tone.Amplitude)
	}

	b := uplane.NewBuilder(conf.Compression.header(), selector)
	buf := make([]byte, b.MessageSize(params))
	return buf[:b.BuildMessage(buf, msg.Tone.tone(params.NofPRB), params)], nil
}
