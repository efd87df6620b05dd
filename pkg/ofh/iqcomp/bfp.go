// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package iqcomp

import (
	"math/bits"

	"github.com/openfronthaul/ofh-go/pkg/ofh"
)

// BFP implements block floating point compression. All samples of a PRB are
// quantized to 16 bit and shifted right by a common exponent, such that the
// largest magnitude fits into the configured width. The exponent is sent as
// the PRB's udCompParam.
type BFP struct{}

// exponent returns the right shift needed to fit all values into width bits.
func exponent(values []int32, width uint8) uint8 {
	var maxAbs uint32
	for _, v := range values {
		mag := v
		if mag < 0 {
			mag = -mag - 1
		}
		if uint32(mag) > maxAbs {
			maxAbs = uint32(mag)
		}
	}

	needed := bits.Len32(maxAbs) + 1
	if needed <= int(width) {
		return 0
	}
	return uint8(needed - int(width))
}

// Compress implements ofh.IQCompressor.
func (BFP) Compress(dst []ofh.CompressedPRB, iq []complex64, params ofh.CompressionParams) {
	var values [2 * ofh.NofSubcarriersPerRB]int32

	for i := range dst {
		for j, sample := range iq[i*ofh.NofSubcarriersPerRB : (i+1)*ofh.NofSubcarriersPerRB] {
			values[2*j] = quantize(real(sample), fullScaleBits)
			values[2*j+1] = quantize(imag(sample), fullScaleBits)
		}

		exp := exponent(values[:], params.DataWidth)

		w := newBitWriter(dst[i].Packed)
		for _, v := range values {
			w.write(v>>exp, params.DataWidth)
		}
		dst[i].Param = exp & 0x0f
	}
}

// Decompress implements ofh.IQDecompressor.
func (BFP) Decompress(iq []complex64, src []ofh.CompressedPRB, params ofh.CompressionParams) {
	for i := range src {
		exp := src[i].Param & 0x0f
		r := newBitReader(src[i].Packed)

		out := iq[i*ofh.NofSubcarriersPerRB : (i+1)*ofh.NofSubcarriersPerRB]
		for j := range out {
			re := dequantize(r.read(params.DataWidth)<<exp, fullScaleBits)
			im := dequantize(r.read(params.DataWidth)<<exp, fullScaleBits)
			out[j] = complex(re, im)
		}
	}
}
