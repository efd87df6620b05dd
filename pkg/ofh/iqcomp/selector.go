// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package iqcomp contains reference IQ compressors for the Open Fronthaul
// codecs. The Selector dispatches between them by compression type.
package iqcomp

import (
	log "github.com/sirupsen/logrus"

	"github.com/openfronthaul/ofh-go/pkg/ofh"
)

// Codec is both an ofh.IQCompressor and an ofh.IQDecompressor.
type Codec interface {
	ofh.IQCompressor
	ofh.IQDecompressor
}

// Selector dispatches to None or BFP by the requested compression type. BFP
// with selective RE uses the plain BFP packing.
//
// Compressing an unsupported type panics, as builders only receive validated
// parameters. Decompressing an unsupported type, which may arrive from the
// network, yields zero samples and a log entry.
type Selector struct {
	codecs map[ofh.CompressionType]Codec
}

// NewSelector creates a Selector for the types implemented by this package.
func NewSelector() *Selector {
	return &Selector{
		codecs: map[ofh.CompressionType]Codec{
			ofh.CompressionNone:           None{},
			ofh.CompressionBFP:            BFP{},
			ofh.CompressionBFPSelectiveRE: BFP{},
		},
	}
}

// Supports reports whether a compression type is implemented.
func (s *Selector) Supports(ct ofh.CompressionType) bool {
	_, ok := s.codecs[ct]
	return ok
}

// Compress implements ofh.IQCompressor.
func (s *Selector) Compress(dst []ofh.CompressedPRB, iq []complex64, params ofh.CompressionParams) {
	codec, ok := s.codecs[params.Type]
	if !ok {
		panic("iqcomp: unsupported compression type " + params.Type.String())
	}
	codec.Compress(dst, iq, params)
}

// Decompress implements ofh.IQDecompressor.
func (s *Selector) Decompress(iq []complex64, src []ofh.CompressedPRB, params ofh.CompressionParams) {
	codec, ok := s.codecs[params.Type]
	if !ok {
		log.WithField("compression", params).Warn("Unsupported IQ compression, emitting zero samples")
		for i := range iq {
			iq[i] = 0
		}
		return
	}
	codec.Decompress(iq, src, params)
}
