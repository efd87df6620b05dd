// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cplane

import (
	"fmt"

	"github.com/openfronthaul/ofh-go/pkg/ofh"
)

const (
	// RadioChannelMessageSize is the size of a section type 1 message.
	RadioChannelMessageSize = 16

	// IdleGuardMessageSize is the size of a section type 0 message.
	IdleGuardMessageSize = 20

	// PRACHMessageSize is the size of a section type 3 message.
	PRACHMessageSize = 24
)

// cpLength is the value of the cyclic prefix length field. The actual CP
// length is configured through the management plane.
const cpLength = 0

// Builder encodes C-Plane messages with a single section.
//
// A Builder is immutable and may be used concurrently. Its methods do not
// validate their parameters, use CheckValid on the parameter bundles for
// untrusted input. A destination buffer smaller than the message results in
// a panic.
type Builder struct {
	compression ofh.CompressionHeader
}

// NewBuilder creates a Builder for the given compression header strategy.
func NewBuilder(compression ofh.CompressionHeader) *Builder {
	return &Builder{compression: compression}
}

// messageBuffer returns buf limited to size bytes. It panics if buf is
// shorter than size, regardless of its capacity.
func messageBuffer(buf []byte, size int) []byte {
	if len(buf) < size {
		panic(fmt.Sprintf("cplane: buffer of %d bytes is smaller than the %d byte message", len(buf), size))
	}
	return buf[:size]
}

// encodePrefix writes the radio application header, the section count and
// the section type.
func encodePrefix(s *ofh.Serializer, h RadioApplicationHeader, st ofh.SectionType) {
	ofh.EncodeRadioHeader(s, h.Direction, h.FilterIndex, h.Slot, h.StartSymbol)
	// numberOfSections.
	s.WriteUint8(1)
	s.WriteUint8(uint8(st))
}

// encodeSectionFields writes the six bytes of common section fields. The
// rb and symInc flags are always 0.
func encodeSectionFields(s *ofh.Serializer, c CommonSectionFields) {
	s.WriteUint8(uint8(c.SectionID >> 4))
	s.WriteUint8(uint8(c.SectionID&0x0f)<<4 | uint8(c.PRBStart>>8)&0x03)
	s.WriteUint8(uint8(c.PRBStart))
	s.WriteUint8(c.NofPRB)
	s.WriteUint8(uint8(c.REMask >> 4))
	s.WriteUint8(uint8(c.REMask&0x0f)<<4 | c.NofSymbols&0x0f)
}

// encodeFrameStructure writes the frameStructure byte, the subcarrier
// spacing in the high and log2 of the FFT size in the low nibble.
//
// O-RAN CUS places fftSize in bits 7-4 and mu in bits 3-0, the reverse of
// this order. Verify the nibble order first when testing against a radio unit.
func encodeFrameStructure(s *ofh.Serializer, fftSize uint16, scs ofh.SubcarrierSpacing) {
	s.WriteUint8(uint8(scs)<<4 | fftExponent(fftSize)&0x0f)
}

// BuildRadioChannelMessage writes a section type 1 message into buf and
// returns the number of bytes written.
func (b *Builder) BuildRadioChannelMessage(buf []byte, params RadioChannelParams) int {
	buf = messageBuffer(buf, RadioChannelMessageSize)
	s := ofh.NewSerializer(buf)

	encodePrefix(&s, params.Header, ofh.SectionType1)
	b.compression.EncodeCplane(&s, params.Compression, params.Header.Direction)
	// Reserved.
	s.WriteUint8(0)

	encodeSectionFields(&s, params.Section)
	// ef and beamId.
	s.WriteUint16(0)

	return s.Offset()
}

// BuildIdleGuardMessage writes a section type 0 message into buf and returns
// the number of bytes written.
func (b *Builder) BuildIdleGuardMessage(buf []byte, params IdleGuardParams) int {
	buf = messageBuffer(buf, IdleGuardMessageSize)
	s := ofh.NewSerializer(buf)

	encodePrefix(&s, params.Header, ofh.SectionType0)
	s.WriteUint16(params.TimeOffset)
	encodeFrameStructure(&s, params.FFTSize, params.SCS)
	s.WriteUint16(cpLength)
	// Reserved.
	s.WriteUint8(0)

	encodeSectionFields(&s, params.Section)
	// Reserved.
	s.WriteUint16(0)

	return s.Offset()
}

// BuildPRACHMessage writes a section type 3 message into buf and returns the
// number of bytes written.
func (b *Builder) BuildPRACHMessage(buf []byte, params PRACHParams) int {
	buf = messageBuffer(buf, PRACHMessageSize)
	s := ofh.NewSerializer(buf)

	encodePrefix(&s, params.Header, ofh.SectionType3)
	s.WriteUint16(params.TimeOffset)
	encodeFrameStructure(&s, params.FFTSize, params.SCS)
	s.WriteUint16(cpLength)
	b.compression.EncodeCplane(&s, params.Compression, params.Header.Direction)

	encodeSectionFields(&s, params.Section)
	// ef and beamId.
	s.WriteUint16(0)

	s.WriteUint24(uint32(params.FrequencyOffset) & 0xffffff)
	// Reserved.
	s.WriteUint8(0)

	return s.Offset()
}
