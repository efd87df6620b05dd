// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package uplane

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/openfronthaul/ofh-go/pkg/ofh"
)

const (
	// SectionHeaderSize is the size of a U-Plane section header.
	SectionHeaderSize = 4

	// compressionLengthSize is the size of the udCompLen field.
	compressionLengthSize = 2

	// MaxNofSections is the number of sections a decoded message may contain.
	MaxNofSections = 2

	// maxNofIQ is the number of IQ samples of a section spanning all PRBs.
	maxNofIQ = ofh.MaxNofPRBs * ofh.NofSubcarriersPerRB

	// prbCountSentinel in the numPrbu field addresses all PRBs of the RU.
	prbCountSentinel = 0
)

// MessageParams describe a U-Plane message. The decoder only fills in the
// radio application header fields.
type MessageParams struct {
	Direction   ofh.DataDirection     `json:"direction"`
	Slot        ofh.SlotPoint         `json:"slot"`
	FilterIndex ofh.FilterIndex       `json:"filterIndex"`
	StartPRB    uint16                `json:"startPrb"`
	NofPRB      uint16                `json:"nofPrb"`
	SymbolID    uint8                 `json:"symbolId"`
	SectionType ofh.SectionType       `json:"sectionType"`
	Compression ofh.CompressionParams `json:"compression"`
}

// CheckValid returns an error for parameters the Builder cannot encode.
func (p MessageParams) CheckValid() (errs error) {
	if err := p.Slot.CheckValid(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if p.FilterIndex.IsReserved() {
		errs = multierror.Append(errs,
			fmt.Errorf("MessageParams: filter index %d is reserved", uint8(p.FilterIndex)))
	}
	if p.StartPRB > 0x03ff {
		errs = multierror.Append(errs, fmt.Errorf("MessageParams: start PRB %d exceeds 10 bit", p.StartPRB))
	}
	if p.NofPRB > ofh.MaxNofPRBs {
		errs = multierror.Append(errs,
			fmt.Errorf("MessageParams: %d PRBs exceed %d", p.NofPRB, ofh.MaxNofPRBs))
	}
	if p.SymbolID > 0x3f {
		errs = multierror.Append(errs, fmt.Errorf("MessageParams: symbol id %d exceeds 6 bit", p.SymbolID))
	}
	if p.SectionType != ofh.SectionType1 {
		errs = multierror.Append(errs, fmt.Errorf("MessageParams: unsupported %v", p.SectionType))
	}
	if err := p.Compression.CheckValid(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return
}

// SectionParams is a decoded U-Plane section.
//
// The IQ samples are stored inline; IQ returns the samples of this section.
type SectionParams struct {
	SectionID              uint16
	IsEveryRBUsed          bool
	UseCurrentSymbolNumber bool
	StartPRB               uint16
	NofPRB                 uint16
	Compression            ofh.CompressionParams

	HasCompressionLength bool
	CompressionLength    uint16

	// UdCompParam is the compression parameter of the section's first PRB.
	HasUdCompParam bool
	UdCompParam    uint8

	iq    [maxNofIQ]complex64
	nofIQ int
}

// IQ returns the decompressed samples, NofPRB*12 values.
func (sp *SectionParams) IQ() []complex64 {
	return sp.iq[:sp.nofIQ]
}

// MarshalJSON renders the section, IQ samples as pairs of real and imaginary
// part.
func (sp *SectionParams) MarshalJSON() ([]byte, error) {
	iq := make([][2]float32, sp.nofIQ)
	for i, v := range sp.IQ() {
		iq[i] = [2]float32{real(v), imag(v)}
	}

	obj := struct {
		SectionID              uint16                `json:"sectionId"`
		IsEveryRBUsed          bool                  `json:"isEveryRbUsed"`
		UseCurrentSymbolNumber bool                  `json:"useCurrentSymbolNumber"`
		StartPRB               uint16                `json:"startPrb"`
		NofPRB                 uint16                `json:"nofPrb"`
		Compression            ofh.CompressionParams `json:"compression"`
		CompressionLength      *uint16               `json:"compressionLength,omitempty"`
		UdCompParam            *uint8                `json:"udCompParam,omitempty"`
		IQ                     [][2]float32          `json:"iq"`
	}{
		SectionID:              sp.SectionID,
		IsEveryRBUsed:          sp.IsEveryRBUsed,
		UseCurrentSymbolNumber: sp.UseCurrentSymbolNumber,
		StartPRB:               sp.StartPRB,
		NofPRB:                 sp.NofPRB,
		Compression:            sp.Compression,
		IQ:                     iq,
	}
	if sp.HasCompressionLength {
		obj.CompressionLength = &sp.CompressionLength
	}
	if sp.HasUdCompParam {
		obj.UdCompParam = &sp.UdCompParam
	}

	return json.Marshal(obj)
}

// DecoderResults are the outcome of Decoder.Decode. A DecoderResults holds
// the IQ samples of up to MaxNofSections sections inline and should be reused
// across calls.
type DecoderResults struct {
	Params MessageParams

	sections    [MaxNofSections]SectionParams
	nofSections int
}

// Sections returns the decoded sections.
func (r *DecoderResults) Sections() []SectionParams {
	return r.sections[:r.nofSections]
}

// NofSections is the number of decoded sections.
func (r *DecoderResults) NofSections() int {
	return r.nofSections
}

func (r *DecoderResults) reset() {
	r.Params = MessageParams{}
	r.nofSections = 0
}

// MarshalJSON renders the message parameters and all decoded sections.
func (r *DecoderResults) MarshalJSON() ([]byte, error) {
	sections := make([]*SectionParams, r.nofSections)
	for i := range sections {
		sections[i] = &r.sections[i]
	}

	return json.Marshal(struct {
		Params   MessageParams    `json:"params"`
		Sections []*SectionParams `json:"sections"`
	}{r.Params, sections})
}
