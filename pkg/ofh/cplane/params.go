// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cplane

import (
	"fmt"
	"math/bits"

	"github.com/hashicorp/go-multierror"

	"github.com/openfronthaul/ofh-go/pkg/ofh"
)

const (
	maxSectionID  = 0x0fff
	maxPRBStart   = 0x03ff
	maxREMask     = 0x0fff
	maxNofSymbols = 0x0f
	maxStartSym   = 0x3f

	minFrequencyOffset = -(1 << 23)
	maxFrequencyOffset = 1<<23 - 1

	maxFFTExponent = 0x0f
)

// RadioApplicationHeader are the leading fields of every C-Plane message.
type RadioApplicationHeader struct {
	Direction   ofh.DataDirection
	Slot        ofh.SlotPoint
	FilterIndex ofh.FilterIndex
	StartSymbol uint8
}

// CheckValid returns an error for fields not representable on the wire.
func (h RadioApplicationHeader) CheckValid() (errs error) {
	if err := h.Slot.CheckValid(); err != nil {
		errs = multierror.Append(errs, err)
	}

	if h.FilterIndex.IsReserved() {
		errs = multierror.Append(errs,
			fmt.Errorf("RadioApplicationHeader: filter index %d is reserved", uint8(h.FilterIndex)))
	}

	if h.StartSymbol > maxStartSym {
		errs = multierror.Append(errs,
			fmt.Errorf("RadioApplicationHeader: start symbol %d exceeds %d", h.StartSymbol, maxStartSym))
	}

	return
}

// CommonSectionFields are shared by all section types.
//
// A NofPRB of 0 addresses all PRBs of the radio unit.
type CommonSectionFields struct {
	SectionID  uint16
	PRBStart   uint16
	NofPRB     uint8
	REMask     uint16
	NofSymbols uint8
}

// CheckValid returns an error for fields exceeding their bit width.
func (c CommonSectionFields) CheckValid() (errs error) {
	if c.SectionID > maxSectionID {
		errs = multierror.Append(errs, fmt.Errorf("CommonSectionFields: section id %d exceeds %d", c.SectionID, maxSectionID))
	}
	if c.PRBStart > maxPRBStart {
		errs = multierror.Append(errs, fmt.Errorf("CommonSectionFields: start PRB %d exceeds %d", c.PRBStart, maxPRBStart))
	}
	if c.REMask > maxREMask {
		errs = multierror.Append(errs, fmt.Errorf("CommonSectionFields: RE mask %#x exceeds %#x", c.REMask, maxREMask))
	}
	if c.NofSymbols > maxNofSymbols {
		errs = multierror.Append(errs, fmt.Errorf("CommonSectionFields: %d symbols exceed %d", c.NofSymbols, maxNofSymbols))
	}
	return
}

// RadioChannelParams describe a section type 1 message.
type RadioChannelParams struct {
	Header      RadioApplicationHeader
	Section     CommonSectionFields
	Compression ofh.CompressionParams
}

// CheckValid aggregates the errors of all fields.
func (p RadioChannelParams) CheckValid() (errs error) {
	for _, v := range []ofh.Valid{p.Header, p.Section, p.Compression} {
		if err := v.CheckValid(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return
}

// IdleGuardParams describe a section type 0 message.
//
// FFTSize must be a power of two. The cyclic prefix is not transmitted but
// configured through the management plane; the CP length field is always 0.
type IdleGuardParams struct {
	Header       RadioApplicationHeader
	Section      CommonSectionFields
	TimeOffset   uint16
	FFTSize      uint16
	SCS          ofh.SubcarrierSpacing
	CyclicPrefix ofh.CyclicPrefix
}

// fftExponent returns log2 of the FFT size.
func fftExponent(fftSize uint16) uint8 {
	return uint8(bits.Len16(fftSize) - 1)
}

func checkFrameStructure(fftSize uint16, scs ofh.SubcarrierSpacing) (errs error) {
	if fftSize == 0 || fftSize&(fftSize-1) != 0 {
		errs = multierror.Append(errs, fmt.Errorf("FFT size %d is no power of two", fftSize))
	} else if fftExponent(fftSize) > maxFFTExponent {
		errs = multierror.Append(errs, fmt.Errorf("FFT size %d is too large", fftSize))
	}

	if !scs.IsValid() {
		errs = multierror.Append(errs, fmt.Errorf("subcarrier spacing code %d is unknown", uint8(scs)))
	}
	return
}

// CheckValid aggregates the errors of all fields.
func (p IdleGuardParams) CheckValid() (errs error) {
	for _, v := range []ofh.Valid{p.Header, p.Section} {
		if err := v.CheckValid(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	if err := checkFrameStructure(p.FFTSize, p.SCS); err != nil {
		errs = multierror.Append(errs, err)
	}

	if p.CyclicPrefix > ofh.CyclicPrefixExtended {
		errs = multierror.Append(errs, fmt.Errorf("IdleGuardParams: unknown cyclic prefix %d", p.CyclicPrefix))
	}

	return
}

// PRACHParams describe a section type 3 message, used for PRACH and mixed
// numerology channels. FrequencyOffset is a signed 24 bit value.
type PRACHParams struct {
	IdleGuardParams
	FrequencyOffset int32
	Compression     ofh.CompressionParams
}

// CheckValid aggregates the errors of all fields.
func (p PRACHParams) CheckValid() (errs error) {
	if err := p.IdleGuardParams.CheckValid(); err != nil {
		errs = multierror.Append(errs, err)
	}

	if err := p.Compression.CheckValid(); err != nil {
		errs = multierror.Append(errs, err)
	}

	if p.FrequencyOffset < minFrequencyOffset || p.FrequencyOffset > maxFrequencyOffset {
		errs = multierror.Append(errs,
			fmt.Errorf("PRACHParams: frequency offset %d exceeds 24 bit", p.FrequencyOffset))
	}

	return
}
