// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ofh

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// CompressionType is the udCompMeth field of the compression header.
type CompressionType uint8

const (
	// CompressionNone transmits plain fixed point IQ samples.
	CompressionNone CompressionType = 0

	// CompressionBFP is block floating point compression.
	CompressionBFP CompressionType = 1

	// CompressionBlockScaling scales each PRB by a common factor.
	CompressionBlockScaling CompressionType = 2

	// CompressionMuLaw applies mu-law companding.
	CompressionMuLaw CompressionType = 3

	// CompressionModulation transmits constellation points.
	CompressionModulation CompressionType = 4

	// CompressionBFPSelectiveRE is BFP applied to selected resource elements.
	CompressionBFPSelectiveRE CompressionType = 5

	// CompressionModulationSelectiveRE is modulation compression applied to
	// selected resource elements.
	CompressionModulationSelectiveRE CompressionType = 6

	// CompressionReserved is the first reserved code. All larger codes are
	// reserved as well.
	CompressionReserved CompressionType = 7
)

// MaxDataWidth is the largest IQ sample bit width.
const MaxDataWidth = 16

func (ct CompressionType) String() string {
	switch ct {
	case CompressionNone:
		return "none"
	case CompressionBFP:
		return "bfp"
	case CompressionBlockScaling:
		return "block-scaling"
	case CompressionMuLaw:
		return "mu-law"
	case CompressionModulation:
		return "modulation"
	case CompressionBFPSelectiveRE:
		return "bfp-selective-re"
	case CompressionModulationSelectiveRE:
		return "modulation-selective-re"
	default:
		return "reserved"
	}
}

// IsReserved reports a reserved compression code.
func (ct CompressionType) IsReserved() bool {
	return ct >= CompressionReserved
}

// IsSelectiveRE reports whether a compression length field follows the
// compression header.
func (ct CompressionType) IsSelectiveRE() bool {
	return ct == CompressionBFPSelectiveRE || ct == CompressionModulationSelectiveRE
}

// HasPRBParam reports whether each PRB is preceded by a udCompParam byte.
func (ct CompressionType) HasPRBParam() bool {
	return ct != CompressionNone && ct != CompressionModulation
}

// MarshalText renders the compression type's name.
func (ct CompressionType) MarshalText() ([]byte, error) {
	return []byte(ct.String()), nil
}

// UnmarshalText parses a compression type's name.
func (ct *CompressionType) UnmarshalText(text []byte) error {
	for c := CompressionNone; c < CompressionReserved; c++ {
		if c.String() == string(text) {
			*ct = c
			return nil
		}
	}
	return fmt.Errorf("unknown compression type %q", string(text))
}

// CompressionParams are the IQ compression method and the IQ bit width.
type CompressionParams struct {
	Type      CompressionType `json:"type" toml:"type"`
	DataWidth uint8           `json:"width" toml:"width"`
}

// EncodeDataWidth maps a width of 16 to the on-wire value 0.
func EncodeDataWidth(width uint8) uint8 {
	return width & 0x0f
}

// DecodeDataWidth maps the on-wire value 0 to a width of 16.
func DecodeDataWidth(field uint8) uint8 {
	if field&0x0f == 0 {
		return MaxDataWidth
	}
	return field & 0x0f
}

// PackedPRBSize returns the number of bytes of one PRB's compressed IQ
// samples, rounded up to whole bytes.
func PackedPRBSize(width uint8) int {
	return (NofSubcarriersPerRB*2*int(width) + 7) / 8
}

// PRBSize is the number of bytes of one PRB on the wire, including its
// optional udCompParam byte.
func (cp CompressionParams) PRBSize() int {
	size := PackedPRBSize(cp.DataWidth)
	if cp.Type.HasPRBParam() {
		size++
	}
	return size
}

func (cp CompressionParams) String() string {
	return fmt.Sprintf("%v/%d", cp.Type, cp.DataWidth)
}

// CheckValid returns an error for a reserved type or an out of range width.
func (cp CompressionParams) CheckValid() (errs error) {
	if cp.Type.IsReserved() {
		errs = multierror.Append(errs,
			fmt.Errorf("CompressionParams: reserved compression type %d", uint8(cp.Type)))
	}

	if cp.DataWidth == 0 || cp.DataWidth > MaxDataWidth {
		errs = multierror.Append(errs,
			fmt.Errorf("CompressionParams: data width %d is outside [1, %d]", cp.DataWidth, MaxDataWidth))
	}

	return
}
