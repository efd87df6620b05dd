// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package iqcomp

import (
	"bytes"
	"math"
	"testing"

	"github.com/openfronthaul/ofh-go/pkg/ofh"
)

func TestBitPacking(t *testing.T) {
	buf := make([]byte, 3)
	w := newBitWriter(buf)
	w.write(-1, 3)
	w.write(5, 4)
	w.write(-256, 9)
	w.write(3, 2)

	expected := []byte{0xeb, 0x00, 0xc0}
	if !bytes.Equal(buf, expected) {
		t.Fatalf("Packed %x, expected %x", buf, expected)
	}

	r := newBitReader(buf)
	for _, test := range []struct {
		width uint8
		value int32
	}{{3, -1}, {4, 5}, {9, -256}, {2, -1}} {
		if v := r.read(test.width); v != test.value {
			t.Fatalf("Read %d bits as %d, expected %d", test.width, v, test.value)
		}
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		x     float32
		width uint8
		v     int32
	}{
		{0, 16, 0},
		{0.5, 16, 16384},
		{-1, 16, -32768},
		{1, 16, 32767},
		{2, 8, 127},
		{-2, 8, -128},
		{0.25, 3, 1},
	}

	for _, test := range tests {
		if v := quantize(test.x, test.width); v != test.v {
			t.Fatalf("quantize(%v, %d) = %d, expected %d", test.x, test.width, v, test.v)
		}
	}
}

// compressed lays out nofPRB descriptors for params.
func compressed(nofPRB int, params ofh.CompressionParams) []ofh.CompressedPRB {
	prbs := make([]ofh.CompressedPRB, nofPRB)
	for i := range prbs {
		prbs[i].Packed = make([]byte, ofh.PackedPRBSize(params.DataWidth))
	}
	return prbs
}

func tone(nofPRB int, amplitude float64) []complex64 {
	iq := make([]complex64, nofPRB*ofh.NofSubcarriersPerRB)
	for i := range iq {
		phase := 2 * math.Pi * float64(i) / 12
		iq[i] = complex(float32(amplitude*math.Cos(phase)), float32(amplitude*math.Sin(phase)))
	}
	return iq
}

func maxError(a, b []complex64) float64 {
	var e float64
	for i := range a {
		e = math.Max(e, math.Abs(float64(real(a[i])-real(b[i]))))
		e = math.Max(e, math.Abs(float64(imag(a[i])-imag(b[i]))))
	}
	return e
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		codec     Codec
		params    ofh.CompressionParams
		amplitude float64
		tolerance float64
	}{
		{None{}, ofh.CompressionParams{Type: ofh.CompressionNone, DataWidth: 16}, 0.9, 1.0 / (1 << 15)},
		{None{}, ofh.CompressionParams{Type: ofh.CompressionNone, DataWidth: 9}, 0.9, 1.0 / (1 << 8)},
		{BFP{}, ofh.CompressionParams{Type: ofh.CompressionBFP, DataWidth: 9}, 0.9, 1.0 / (1 << 7)},
		{BFP{}, ofh.CompressionParams{Type: ofh.CompressionBFP, DataWidth: 9}, 0.01, 1.0 / (1 << 14)},
		{BFP{}, ofh.CompressionParams{Type: ofh.CompressionBFP, DataWidth: 16}, 0.9, 1.0 / (1 << 15)},
		{NewSelector(), ofh.CompressionParams{Type: ofh.CompressionBFPSelectiveRE, DataWidth: 12}, 0.5, 1.0 / (1 << 11)},
	}

	for _, test := range tests {
		iq := tone(4, test.amplitude)
		prbs := compressed(4, test.params)
		test.codec.Compress(prbs, iq, test.params)

		out := make([]complex64, len(iq))
		test.codec.Decompress(out, prbs, test.params)

		if e := maxError(iq, out); e > test.tolerance {
			t.Fatalf("%v at amplitude %v: error %v exceeds %v", test.params, test.amplitude, e, test.tolerance)
		}
	}
}

func TestBFPExponent(t *testing.T) {
	params := ofh.CompressionParams{Type: ofh.CompressionBFP, DataWidth: 9}

	iq := append(tone(1, 0.9), make([]complex64, ofh.NofSubcarriersPerRB)...)
	prbs := compressed(2, params)
	BFP{}.Compress(prbs, iq, params)

	if prbs[0].Param != 7 {
		t.Fatalf("Exponent of a full scale PRB is %d", prbs[0].Param)
	}
	if prbs[1].Param != 0 {
		t.Fatalf("Exponent of a silent PRB is %d", prbs[1].Param)
	}
}

func TestSelector(t *testing.T) {
	s := NewSelector()

	for _, ct := range []ofh.CompressionType{ofh.CompressionNone, ofh.CompressionBFP, ofh.CompressionBFPSelectiveRE} {
		if !s.Supports(ct) {
			t.Fatalf("%v is not supported", ct)
		}
	}

	muLaw := ofh.CompressionParams{Type: ofh.CompressionMuLaw, DataWidth: 8}
	if s.Supports(muLaw.Type) {
		t.Fatal("mu-law is supported")
	}

	out := tone(1, 0.5)
	s.Decompress(out, compressed(1, muLaw), muLaw)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("Sample %d of an unsupported compression is %v", i, v)
		}
	}

	defer func() {
		if recover() == nil {
			t.Fatal("Compressing an unsupported type did not panic")
		}
	}()
	s.Compress(compressed(1, muLaw), tone(1, 0.5), muLaw)
}
