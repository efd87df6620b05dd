// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package iqcomp

import "math"

// fullScaleBits is the resolution IQ samples are quantized to before any
// compression is applied.
const fullScaleBits = 16

// bitWriter packs values of arbitrary width MSB first into a byte slice.
type bitWriter struct {
	buf    []byte
	bitOff int
}

func newBitWriter(buf []byte) bitWriter {
	for i := range buf {
		buf[i] = 0
	}
	return bitWriter{buf: buf}
}

// write the lower width bits of v.
func (w *bitWriter) write(v int32, width uint8) {
	for b := int(width) - 1; b >= 0; b-- {
		if (v>>uint(b))&1 != 0 {
			w.buf[w.bitOff>>3] |= 0x80 >> uint(w.bitOff&7)
		}
		w.bitOff++
	}
}

// bitReader unpacks values written by a bitWriter.
type bitReader struct {
	buf    []byte
	bitOff int
}

func newBitReader(buf []byte) bitReader {
	return bitReader{buf: buf}
}

// read width bits as a sign extended value.
func (r *bitReader) read(width uint8) int32 {
	var v uint32
	for i := 0; i < int(width); i++ {
		bit := (r.buf[r.bitOff>>3] >> uint(7-(r.bitOff&7))) & 1
		v = v<<1 | uint32(bit)
		r.bitOff++
	}

	shift := 32 - uint(width)
	return int32(v<<shift) >> shift
}

// quantize scales a sample from [-1, 1) to a signed integer of width bits,
// saturating at the boundaries.
func quantize(x float32, width uint8) int32 {
	scale := float64(int64(1) << (width - 1))
	v := math.Round(float64(x) * scale)

	if hi := scale - 1; v > hi {
		v = hi
	} else if lo := -scale; v < lo {
		v = lo
	}
	return int32(v)
}

// dequantize reverses quantize.
func dequantize(v int32, width uint8) float32 {
	return float32(float64(v) / float64(int64(1)<<(width-1)))
}
