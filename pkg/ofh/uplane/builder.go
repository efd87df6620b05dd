// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package uplane

import (
	"fmt"
	"sync"

	"github.com/openfronthaul/ofh-go/pkg/ofh"
)

// prbPool holds scratch descriptors of compressed PRBs, shared by Builder and
// Decoder.
var prbPool = sync.Pool{
	New: func() interface{} {
		return new([ofh.MaxNofPRBs]ofh.CompressedPRB)
	},
}

func getPRBs(n int) (*[ofh.MaxNofPRBs]ofh.CompressedPRB, []ofh.CompressedPRB) {
	arr := prbPool.Get().(*[ofh.MaxNofPRBs]ofh.CompressedPRB)
	return arr, arr[:n]
}

func putPRBs(arr *[ofh.MaxNofPRBs]ofh.CompressedPRB, used []ofh.CompressedPRB) {
	for i := range used {
		used[i] = ofh.CompressedPRB{}
	}
	prbPool.Put(arr)
}

// Builder encodes U-Plane messages of a single section type 1 section.
//
// A Builder is immutable and may be used concurrently if its IQCompressor can.
type Builder struct {
	compression ofh.CompressionHeader
	compressor  ofh.IQCompressor
}

// NewBuilder creates a Builder for a compression header strategy. IQ samples
// are compressed by compressor.
func NewBuilder(compression ofh.CompressionHeader, compressor ofh.IQCompressor) *Builder {
	return &Builder{
		compression: compression,
		compressor:  compressor,
	}
}

// HeaderSize returns the number of bytes in front of the first PRB.
func (b *Builder) HeaderSize(params MessageParams) int {
	size := ofh.RadioHeaderSize + SectionHeaderSize + b.compression.UplaneSize()
	if b.compression.Resolve(params.Compression).Type.IsSelectiveRE() {
		size += compressionLengthSize
	}
	return size
}

// MessageSize returns the total number of bytes BuildMessage writes.
func (b *Builder) MessageSize(params MessageParams) int {
	compression := b.compression.Resolve(params.Compression)
	return b.HeaderSize(params) + int(params.NofPRB)*compression.PRBSize()
}

// BuildMessage writes a U-Plane message carrying iq into buf and returns the
// number of bytes written.
//
// It panics if iq does not contain exactly NofPRB*12 samples, if the section
// type is not 1 or if buf is smaller than MessageSize.
func (b *Builder) BuildMessage(buf []byte, iq []complex64, params MessageParams) int {
	if params.SectionType != ofh.SectionType1 {
		panic(fmt.Sprintf("uplane: unsupported section %v", params.SectionType))
	}
	if params.NofPRB > ofh.MaxNofPRBs {
		panic(fmt.Sprintf("uplane: %d PRBs exceed %d", params.NofPRB, ofh.MaxNofPRBs))
	}
	if len(iq) != int(params.NofPRB)*ofh.NofSubcarriersPerRB {
		panic(fmt.Sprintf("uplane: got %d IQ samples for %d PRBs", len(iq), params.NofPRB))
	}

	compression := b.compression.Resolve(params.Compression)

	size := b.MessageSize(params)
	if len(buf) < size {
		panic(fmt.Sprintf("uplane: buffer of %d bytes is smaller than the %d byte message", len(buf), size))
	}
	buf = buf[:size]
	s := ofh.NewSerializer(buf)

	ofh.EncodeRadioHeader(&s, params.Direction, params.FilterIndex, params.Slot, params.SymbolID)
	encodeSectionHeader(&s, params.StartPRB, params.NofPRB)

	b.compression.EncodeUplane(&s, compression)
	if compression.Type.IsSelectiveRE() {
		s.WriteUint16(uint16(ofh.PackedPRBSize(compression.DataWidth)))
	}

	arr, prbs := getPRBs(int(params.NofPRB))
	defer putPRBs(arr, prbs)

	// Lay out the PRBs, the compressor writes directly into buf.
	packedSize := ofh.PackedPRBSize(compression.DataWidth)
	hasParam := compression.Type.HasPRBParam()
	paramOffset := s.Offset()
	for i := range prbs {
		if hasParam {
			s.Advance(1)
		}
		prbs[i].Packed = s.Advance(packedSize)
	}

	b.compressor.Compress(prbs, iq, compression)

	if hasParam {
		for i := range prbs {
			buf[paramOffset+i*(packedSize+1)] = prbs[i].Param
		}
	}

	return s.Offset()
}

// encodeSectionHeader writes a section header of section id 0 with the rb and
// symInc bits unset. A PRB count beyond 8 bit is written as the sentinel 0.
func encodeSectionHeader(s *ofh.Serializer, startPRB, nofPRB uint16) {
	count := uint8(nofPRB)
	if nofPRB > 0xff {
		count = prbCountSentinel
	}

	s.WriteUint8(0)
	s.WriteUint8(uint8(startPRB>>8) & 0x03)
	s.WriteUint8(uint8(startPRB))
	s.WriteUint8(count)
}
