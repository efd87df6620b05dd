// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ofh

// CompressedPRB describes the compressed IQ samples of one PRB.
//
// Packed is a view into a message buffer, either the destination of a builder
// or the received message of a decoder; it is PackedPRBSize(width) bytes long.
// Param is the udCompParam byte, e.g., the BFP exponent. It is only put on the
// wire for compression types with HasPRBParam.
type CompressedPRB struct {
	Param  uint8
	Packed []byte
}

// IQCompressor compresses IQ samples. Compress is invoked once per message for
// all PRBs: iq holds len(dst)*NofSubcarriersPerRB samples and each dst entry
// has its Packed view prepared.
//
// Implementations used by a shared builder must be safe for concurrent use.
type IQCompressor interface {
	Compress(dst []CompressedPRB, iq []complex64, params CompressionParams)
}

// IQDecompressor reverses an IQCompressor. iq holds
// len(src)*NofSubcarriersPerRB samples.
type IQDecompressor interface {
	Decompress(iq []complex64, src []CompressedPRB, params CompressionParams)
}
