// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cplane

import (
	"testing"

	"github.com/openfronthaul/ofh-go/pkg/ofh"
)

func TestParamsCheckValid(t *testing.T) {
	validHeader := RadioApplicationHeader{Slot: ofh.NewSlotPoint(1, 0, 0)}
	validIdle := IdleGuardParams{Header: validHeader, FFTSize: 4096, SCS: ofh.SCS30kHz}

	tests := []struct {
		name  string
		v     ofh.Valid
		valid bool
	}{
		{"channel", RadioChannelParams{Header: validHeader, Compression: noCompression16}, true},
		{"channel width 0", RadioChannelParams{Header: validHeader}, false},
		{"reserved filter", RadioChannelParams{
			Header:      RadioApplicationHeader{Slot: ofh.NewSlotPoint(1, 0, 0), FilterIndex: 9},
			Compression: noCompression16}, false},
		{"start symbol", RadioChannelParams{
			Header:      RadioApplicationHeader{Slot: ofh.NewSlotPoint(1, 0, 0), StartSymbol: 64},
			Compression: noCompression16}, false},
		{"section id", RadioChannelParams{
			Header:      validHeader,
			Section:     CommonSectionFields{SectionID: 0x1000},
			Compression: noCompression16}, false},
		{"prb start", RadioChannelParams{
			Header:      validHeader,
			Section:     CommonSectionFields{PRBStart: 0x400},
			Compression: noCompression16}, false},
		{"idle", validIdle, true},
		{"idle fft", IdleGuardParams{Header: validHeader, FFTSize: 1000, SCS: ofh.SCS30kHz}, false},
		{"idle scs", IdleGuardParams{Header: validHeader, FFTSize: 4096, SCS: 7}, false},
		{"prach", PRACHParams{IdleGuardParams: validIdle, FrequencyOffset: -(1 << 23), Compression: noCompression16}, true},
		{"prach offset", PRACHParams{IdleGuardParams: validIdle, FrequencyOffset: 1 << 23, Compression: noCompression16}, false},
	}

	for _, test := range tests {
		err := test.v.CheckValid()
		if test.valid && err != nil {
			t.Fatalf("%s: unexpected error %v", test.name, err)
		} else if !test.valid && err == nil {
			t.Fatalf("%s: expected an error", test.name)
		}
	}
}
