// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package iqcomp

import "github.com/openfronthaul/ofh-go/pkg/ofh"

// None transmits IQ samples as plain fixed point values of the configured bit
// width. Samples are expected within [-1, 1).
type None struct{}

// Compress implements ofh.IQCompressor.
func (None) Compress(dst []ofh.CompressedPRB, iq []complex64, params ofh.CompressionParams) {
	for i := range dst {
		w := newBitWriter(dst[i].Packed)
		for _, sample := range iq[i*ofh.NofSubcarriersPerRB : (i+1)*ofh.NofSubcarriersPerRB] {
			w.write(quantize(real(sample), params.DataWidth), params.DataWidth)
			w.write(quantize(imag(sample), params.DataWidth), params.DataWidth)
		}
		dst[i].Param = 0
	}
}

// Decompress implements ofh.IQDecompressor.
func (None) Decompress(iq []complex64, src []ofh.CompressedPRB, params ofh.CompressionParams) {
	for i := range src {
		r := newBitReader(src[i].Packed)
		out := iq[i*ofh.NofSubcarriersPerRB : (i+1)*ofh.NofSubcarriersPerRB]
		for j := range out {
			re := dequantize(r.read(params.DataWidth), params.DataWidth)
			im := dequantize(r.read(params.DataWidth), params.DataWidth)
			out[j] = complex(re, im)
		}
	}
}
